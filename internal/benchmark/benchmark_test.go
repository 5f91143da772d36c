package benchmark

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/photoprism/agender/internal/dataset"
	"github.com/photoprism/agender/internal/event"
	"github.com/photoprism/agender/internal/face"
	"github.com/photoprism/agender/internal/nets"
)

func TestMain(m *testing.M) {
	log = event.Log
	log.SetLevel(logrus.TraceLevel)

	code := m.Run()

	os.Exit(code)
}

// fixedNet predicts age 30 and male for every input.
type fixedNet struct {
	kind  nets.Kind
	calls int
}

func (n *fixedNet) Kind() nets.Kind {
	return n.kind
}

func (n *fixedNet) Replicas() int {
	return 1
}

func (n *fixedNet) Predict(pixels [][]float32) (p nets.Prediction, err error) {
	n.calls++

	for _, px := range pixels {
		if len(px) != n.kind.InputSize()*n.kind.InputSize()*3 {
			return p, fmt.Errorf("unexpected input size %d", len(px))
		}

		age, gender := nets.Targets(30, dataset.Male, n.kind.Categorical())
		p.Age = append(p.Age, age)
		p.Gender = append(p.Gender, gender)
	}

	return p, nil
}

func (n *fixedNet) TrainBatch(b nets.Batch, lr float64) (nets.Scores, error) {
	return nil, fmt.Errorf("not implemented")
}

func (n *fixedNet) EvalBatch(b nets.Batch) (nets.Scores, error) {
	return nil, fmt.Errorf("not implemented")
}

func (n *fixedNet) Save(w io.Writer) error {
	return nil
}

func (n *fixedNet) Load(r io.Reader) error {
	return nil
}

func (n *fixedNet) Close() error {
	return nil
}

func noFaces() face.Detector {
	return face.DetectorFunc(func(img image.Image) (face.Faces, error) {
		return nil, nil
	})
}

// utkface writes benchmark images named {age}_{gender}_0_x.jpg below dir/part1.
func utkface(t *testing.T, dir string, labels ...[2]int) dataset.Samples {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(dir, "part1"), os.ModePerm); err != nil {
		t.Fatal(err)
	}

	for i, l := range labels {
		img := imaging.New(30+i, 40, color.NRGBA{R: 200, G: 150, B: 120, A: 255})
		name := filepath.Join(dir, "part1", fmt.Sprintf("%d_%d_0_%03d.jpg", l[0], l[1], i))

		if err := imaging.Save(img, name); err != nil {
			t.Fatal(err)
		}
	}

	samples, err := dataset.ListUTKFace(dir)

	if err != nil {
		t.Fatal(err)
	}

	return samples
}
