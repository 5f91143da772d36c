package train

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoprism/agender/internal/dataset"
	"github.com/photoprism/agender/internal/event"
	"github.com/photoprism/agender/internal/nets"
	"github.com/photoprism/agender/pkg/fs"
)

// scriptedKind builds ssrnet networks whose validation loss follows a fixed sequence.
type scriptedKind struct {
	nets.Kind
	valLoss []float64
}

func (k scriptedKind) New(opt nets.Options) (nets.Network, error) {
	return &scriptedNet{LinearNet: nets.NewLinearNet(k.Kind, opt), valLoss: k.valLoss}, nil
}

type scriptedNet struct {
	*nets.LinearNet
	valLoss []float64
	epoch   int
}

func (n *scriptedNet) EvalBatch(b nets.Batch) (nets.Scores, error) {
	scores, err := n.LinearNet.EvalBatch(b)

	if err != nil {
		return nil, err
	}

	scores["loss"] = n.valLoss[n.epoch]
	n.epoch++

	return scores, nil
}

func foldOptions(dir string, kind nets.Kind) Options {
	return Options{
		Kind:         kind,
		Epochs:       3,
		BatchSize:    4,
		Replicas:     1,
		Workers:      2,
		LearningRate: 0.001,
		Seed:         1,
		ImagesPath:   dir,
		WeightsPath:  filepath.Join(dir, "weights"),
		HistoryPath:  filepath.Join(dir, "history"),
	}
}

func TestFoldTrainer_Steps(t *testing.T) {
	folds, err := dataset.NewKFold(dataset.DefaultSeed).Split(10)
	require.NoError(t, err)

	ft := NewFoldTrainer(nil, Options{BatchSize: 4, Replicas: 1})

	steps, valSteps, valBatch, err := ft.Steps(folds[0])
	require.NoError(t, err)
	assert.Len(t, folds[0].Train, 9)
	assert.Equal(t, 2, steps)
	assert.Equal(t, 1, valSteps)
	assert.Equal(t, 1, valBatch)
}

func TestFoldTrainer_Run(t *testing.T) {
	dir := t.TempDir()
	samples := fixtures(t, dir, 10)

	folds, err := dataset.NewKFold(dataset.DefaultSeed).Split(samples.Len())
	require.NoError(t, err)

	opt := foldOptions(dir, nets.Kinds["ssrnet"])

	s := event.Subscribe("train.state")
	defer event.Unsubscribe(s)

	ft := NewFoldTrainer(samples, opt)
	res, err := ft.Run(context.Background(), folds[0])
	require.NoError(t, err)

	assert.Equal(t, StateTeardown, ft.State())
	assert.Equal(t, 1, res.Fold)
	assert.Equal(t, 9, res.TrainSize)
	assert.Equal(t, 1, res.TestSize)
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, 1, res.ValSteps)
	assert.Equal(t, 3, res.History.Epochs())
	assert.Len(t, res.History["val_loss"], 3)
	assert.Len(t, res.History["val_age_prediction_mean_absolute_error"], 3)
	assert.Len(t, res.History["gender_prediction_binary_accuracy"], 3)
	assert.Equal(t, res.History.Best("val_loss"), res.BestEpoch)
	assert.InDelta(t, res.History["val_loss"][res.BestEpoch-1], res.ValLoss, 1e-12)

	c, err := ParseCheckpointName(res.Checkpoint)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Fold)
	assert.Equal(t, res.BestEpoch, c.Epoch)
	assert.True(t, fs.FileExists(res.Checkpoint))

	_, err = LoadCheckpoint(res.Checkpoint, nets.Options{})
	assert.NoError(t, err)

	assert.Equal(t, filepath.Join(opt.HistoryPath, "fold1_p2.json"), res.HistoryFile)

	h, err := ReadHistory(res.HistoryFile)
	require.NoError(t, err)
	assert.Equal(t, res.History, h)

	first := <-s.Receiver
	assert.Equal(t, string(StateInit), first.Fields["state"])
}

func TestFoldTrainer_RunCheckpoints(t *testing.T) {
	dir := t.TempDir()
	samples := fixtures(t, dir, 10)

	folds, err := dataset.NewKFold(dataset.DefaultSeed).Split(samples.Len())
	require.NoError(t, err)

	opt := foldOptions(dir, scriptedKind{Kind: nets.Kinds["ssrnet"], valLoss: []float64{3, 2, 2.5, 1}})
	opt.Epochs = 4

	res, err := NewFoldTrainer(samples, opt).Run(context.Background(), folds[0])
	require.NoError(t, err)

	assert.Equal(t, 4, res.BestEpoch)
	assert.Equal(t, 1.0, res.ValLoss)
	assert.Equal(t, []float64{3, 2, 2.5, 1}, res.History["val_loss"])

	entries, err := os.ReadDir(opt.WeightsPath)
	require.NoError(t, err)

	var epochs []int

	for _, e := range entries {
		c, err := ParseCheckpointName(e.Name())
		require.NoError(t, err)
		assert.Equal(t, 1, c.Fold)
		epochs = append(epochs, c.Epoch)
	}

	sort.Ints(epochs)

	assert.Equal(t, []int{1, 2, 4}, epochs)
	assert.Equal(t, filepath.Join(opt.WeightsPath, entries[len(entries)-1].Name()), res.Checkpoint)
}

func TestFoldTrainer_RunErrors(t *testing.T) {
	dir := t.TempDir()
	samples := fixtures(t, dir, 10)

	folds, err := dataset.NewKFold(dataset.DefaultSeed).Split(samples.Len())
	require.NoError(t, err)

	t.Run("missing kind", func(t *testing.T) {
		_, err := NewFoldTrainer(samples, Options{Epochs: 1, BatchSize: 4}).Run(context.Background(), folds[0])
		assert.EqualError(t, err, "train: model kind missing")
	})
	t.Run("too few samples", func(t *testing.T) {
		opt := foldOptions(dir, nets.Kinds["ssrnet"])
		opt.BatchSize = 16

		_, err := NewFoldTrainer(samples, opt).Run(context.Background(), folds[0])
		assert.Error(t, err)
	})
	t.Run("broken image", func(t *testing.T) {
		broken := append(dataset.Samples{}, samples...)

		for _, i := range folds[0].Train {
			broken[i].Path = "missing.png"
		}

		opt := foldOptions(dir, nets.Kinds["ssrnet"])
		opt.WeightsPath = t.TempDir()

		_, err := NewFoldTrainer(broken, opt).Run(context.Background(), folds[0])
		assert.Error(t, err)
	})
	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewFoldTrainer(samples, foldOptions(dir, nets.Kinds["ssrnet"])).Run(ctx, folds[0])
		assert.ErrorIs(t, err, context.Canceled)
	})
}
