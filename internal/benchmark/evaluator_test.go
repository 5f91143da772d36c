package benchmark

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoprism/agender/internal/dataset"
	"github.com/photoprism/agender/internal/entity"
	"github.com/photoprism/agender/internal/face"
	"github.com/photoprism/agender/internal/nets"
)

func TestEvaluator_Run(t *testing.T) {
	dir := t.TempDir()
	samples := utkface(t, dir, [2]int{25, 0}, [2]int{30, 0}, [2]int{40, 1})

	// UTKFace gender codes are flipped on load.
	require.Len(t, samples, 3)
	assert.Equal(t, dataset.Male, samples[0].Gender)

	t.Run("categorical", func(t *testing.T) {
		net := &fixedNet{kind: nets.Kinds["vgg16"]}
		e := NewEvaluator(net, noFaces(), Options{Workers: 2, BatchSize: 2})

		report, err := e.Run(context.Background(), samples)
		require.NoError(t, err)

		assert.Equal(t, 2, net.calls)
		assert.Equal(t, 3, report.Samples)
		assert.Equal(t, 0, report.Aligned)
		assert.InDelta(t, 5.0, report.AgeMAE, 1e-9)
		assert.InDelta(t, 2.0/3.0, report.GenderAcc, 1e-9)

		first := report.Predictions[0]
		assert.Equal(t, samples[0].Path, first.FileName)
		assert.Equal(t, 25, first.Age)
		assert.Equal(t, 30, first.PredAge)
		assert.Equal(t, dataset.Male, first.PredGender)
		assert.Equal(t, entity.Prediction{FileName: first.FileName, Age: 25, Gender: 1, PredAge: 30, PredGender: 1, Right: 30, Bottom: 40}, first)
	})
	t.Run("regression input size", func(t *testing.T) {
		net := &fixedNet{kind: nets.Kinds["ssrnet"]}
		report, err := NewEvaluator(net, noFaces(), Options{}).Run(context.Background(), samples)
		require.NoError(t, err)
		assert.Equal(t, 3, report.Samples)
		assert.Equal(t, 1, net.calls)
	})
	t.Run("one face", func(t *testing.T) {
		d := face.DetectorFunc(func(img image.Image) (face.Faces, error) {
			return face.Faces{{Rows: 40, Cols: 30, Score: 10, Area: face.NewArea("face", 20, 15, 20)}}, nil
		})

		report, err := NewEvaluator(&fixedNet{kind: nets.Kinds["vgg16"]}, d, Options{}).Run(context.Background(), samples)
		require.NoError(t, err)
		assert.Equal(t, 3, report.Aligned)
		assert.True(t, report.Predictions[0].Aligned)
		assert.Equal(t, "5-10-25-30", report.Predictions[0].String())
	})
	t.Run("broken", func(t *testing.T) {
		broken := append(dataset.Samples{{Source: dataset.UTKFace, Path: dir + "/part1/missing.jpg"}}, samples...)

		_, err := NewEvaluator(&fixedNet{kind: nets.Kinds["vgg16"]}, noFaces(), Options{}).Run(context.Background(), broken)
		assert.Error(t, err)

		report, err := NewEvaluator(&fixedNet{kind: nets.Kinds["vgg16"]}, noFaces(), Options{SkipBroken: true}).Run(context.Background(), broken)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, 3, report.Samples)
	})
	t.Run("detector error", func(t *testing.T) {
		d := face.DetectorFunc(func(img image.Image) (face.Faces, error) {
			return nil, errors.New("cascade failed")
		})

		_, err := NewEvaluator(&fixedNet{kind: nets.Kinds["vgg16"]}, d, Options{}).Run(context.Background(), samples)
		assert.Error(t, err)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := NewEvaluator(&fixedNet{kind: nets.Kinds["vgg16"]}, noFaces(), Options{}).Run(context.Background(), nil)
		assert.EqualError(t, err, "benchmark: no images found")
	})
}

func TestReport_Save(t *testing.T) {
	db, err := entity.Open(entity.SQLite3, entity.MemoryDsn)
	require.NoError(t, err)
	defer db.Close()

	r := Report{
		Predictions: []entity.Prediction{
			{FileName: "a.jpg", Age: 30, Gender: 1, PredAge: 32, PredGender: 1, Right: 30, Bottom: 40},
			{FileName: "b.jpg", Age: 20, Gender: 0, PredAge: 20, PredGender: 1, Right: 30, Bottom: 40, Aligned: true},
		},
		Samples:   2,
		Aligned:   1,
		AgeMAE:    1,
		GenderAcc: 0.5,
	}

	m, err := r.Save(db, "model.fold01.01-1.0000-0.5000-1.0000.ckpt", "vgg16")
	require.NoError(t, err)

	found, err := entity.FindEvaluation(db, m.EvalUID)
	require.NoError(t, err)
	assert.Equal(t, "vgg16", found.Model)
	assert.Equal(t, 0.5, found.GenderAcc)
	assert.Len(t, found.Predictions, 2)
}
