package benchmark

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/jinzhu/gorm"

	"github.com/photoprism/agender/internal/dataset"
	"github.com/photoprism/agender/internal/entity"
	"github.com/photoprism/agender/internal/event"
	"github.com/photoprism/agender/internal/face"
	"github.com/photoprism/agender/internal/nets"
	"github.com/photoprism/agender/internal/thumb"
	"github.com/photoprism/agender/pkg/fs"
)

// Options configure a benchmark run.
type Options struct {
	Align      face.AlignOptions
	Workers    int
	BatchSize  int
	SkipBroken bool
}

// Report contains per-image predictions and the aggregate scores.
type Report struct {
	Predictions []entity.Prediction
	Samples     int
	Aligned     int
	Skipped     int
	AgeMAE      float64
	GenderAcc   float64
}

// Save stores the report as evaluation of a checkpoint.
func (r Report) Save(db *gorm.DB, checkpoint, model string) (*entity.Evaluation, error) {
	m := entity.NewEvaluation(checkpoint, model)
	m.FileHash = fs.Hash(checkpoint)
	m.Samples = r.Samples
	m.Aligned = r.Aligned
	m.AgeMAE = r.AgeMAE
	m.GenderAcc = r.GenderAcc

	if err := m.Save(db, r.Predictions); err != nil {
		return nil, fmt.Errorf("benchmark: %s", err)
	}

	return m, nil
}

// Evaluator predicts age and gender of benchmark images with a trained network.
type Evaluator struct {
	net      nets.Network
	detector face.Detector
	opt      Options
}

// NewEvaluator returns a new evaluator.
func NewEvaluator(net nets.Network, detector face.Detector, opt Options) *Evaluator {
	if opt.Align.Size <= 0 {
		opt.Align = face.DefaultAlignOptions()
	}

	if opt.Workers < 1 {
		opt.Workers = 1
	}

	if opt.BatchSize < 1 {
		opt.BatchSize = 32
	}

	return &Evaluator{net: net, detector: detector, opt: opt}
}

type input struct {
	pixels []float32
	box    face.Box
	found  bool
	err    error
}

// Prepare opens, aligns and converts one image to a network input tensor.
func (e *Evaluator) Prepare(fileName string) (pixels []float32, aligned face.Aligned, err error) {
	img, err := thumb.Open(fileName)

	if err != nil {
		return nil, aligned, err
	}

	if aligned, err = face.Align(img, e.detector, e.opt.Align); err != nil {
		return nil, aligned, err
	}

	size := e.net.Kind().InputSize()

	if aligned.Image.Bounds().Dx() == size {
		pixels, err = thumb.Tensor(aligned.Image, size)
	} else {
		pixels, err = thumb.Tensor(thumb.Letterbox(aligned.Image, size), size)
	}

	return pixels, aligned, err
}

// Run evaluates all samples. Images are prepared by a pool of workers and
// predicted in batches, in sample order.
func (e *Evaluator) Run(ctx context.Context, samples dataset.Samples) (report Report, err error) {
	start := time.Now()

	if samples.Len() == 0 {
		return report, fmt.Errorf("benchmark: no images found")
	}

	categorical := e.net.Kind().Categorical()

	for from := 0; from < samples.Len(); from += e.opt.BatchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		to := from + e.opt.BatchSize

		if to > samples.Len() {
			to = samples.Len()
		}

		batch := samples[from:to]
		inputs := e.prepare(batch)

		var pixels [][]float32
		var rows []entity.Prediction

		for i, in := range inputs {
			if in.err != nil {
				if e.opt.SkipBroken {
					log.Warnf("benchmark: %s in %s (skipped)", in.err, filepath.Base(batch[i].Path))
					report.Skipped++
					continue
				}

				return report, fmt.Errorf("benchmark: %s in %s", in.err, filepath.Base(batch[i].Path))
			}

			pixels = append(pixels, in.pixels)
			rows = append(rows, entity.Prediction{
				FileName: batch[i].Path,
				Age:      batch[i].Age,
				Gender:   batch[i].Gender,
				Left:     in.box.Left,
				Top:      in.box.Top,
				Right:    in.box.Right,
				Bottom:   in.box.Bottom,
				Aligned:  in.found,
			})
		}

		if len(pixels) == 0 {
			continue
		}

		p, err := e.net.Predict(pixels)

		if err != nil {
			return report, err
		}

		if len(p.Age) != len(rows) || len(p.Gender) != len(rows) {
			return report, fmt.Errorf("benchmark: %d inputs but %d predictions", len(rows), len(p.Age))
		}

		for i := range rows {
			rows[i].PredAge, rows[i].PredGender = nets.Decode(p.Age[i], p.Gender[i], categorical)

			if rows[i].Aligned {
				report.Aligned++
			}
		}

		report.Predictions = append(report.Predictions, rows...)

		event.Publish("benchmark.progress", event.Data{"done": to, "total": samples.Len()})
	}

	report.Samples = len(report.Predictions)

	predAge := make([]int, report.Samples)
	predGender := make([]int, report.Samples)
	trueAge := make([]int, report.Samples)
	trueGender := make([]int, report.Samples)

	for i, p := range report.Predictions {
		predAge[i], predGender[i] = p.PredAge, p.PredGender
		trueAge[i], trueGender[i] = p.Age, p.Gender
	}

	if report.AgeMAE, err = AgeMAE(predAge, trueAge); err != nil {
		return report, err
	}

	if report.GenderAcc, err = GenderAccuracy(predGender, trueGender); err != nil {
		return report, err
	}

	log.Infof("benchmark: evaluated %s, %d aligned, age mae %.4f, gender accuracy %.4f [%s]", english.Plural(report.Samples, "image", "images"), report.Aligned, report.AgeMAE, report.GenderAcc, time.Since(start))

	return report, nil
}

// prepare aligns a batch of images with a worker pool.
func (e *Evaluator) prepare(batch dataset.Samples) []input {
	result := make([]input, len(batch))
	jobs := make(chan int)

	var wg sync.WaitGroup

	for w := 0; w < e.opt.Workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				pixels, aligned, err := e.Prepare(batch[i].Path)
				result[i] = input{pixels: pixels, box: aligned.Box, found: aligned.Detected, err: err}
			}
		}()
	}

	for i := range batch {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	return result
}
