package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/photoprism/agender/internal/benchmark"
	"github.com/photoprism/agender/internal/config"
	"github.com/photoprism/agender/internal/dataset"
	"github.com/photoprism/agender/internal/face"
	"github.com/photoprism/agender/internal/nets"
	"github.com/photoprism/agender/internal/train"
)

// EvaluateCommand registers the evaluate cli command.
var EvaluateCommand = cli.Command{
	Name:   "evaluate",
	Usage:  "Benchmarks a checkpoint on the UTKFace dataset",
	Flags:  config.EvaluateFlags,
	Action: evaluateAction,
}

// loadNetwork restores a network from a checkpoint or an exported .tflite model.
func loadNetwork(conf *config.Config) (nets.Network, error) {
	fileName := conf.Checkpoint()

	if fileName == "" {
		return nil, fmt.Errorf("evaluate: checkpoint file name required")
	}

	if strings.ToLower(filepath.Ext(fileName)) == ".tflite" {
		kind, err := nets.ParseKind(conf.Model())

		if err != nil {
			return nil, err
		}

		return nets.NewTFLite(fileName, kind, conf.Workers())
	}

	return train.LoadCheckpoint(fileName, nets.Options{Replicas: conf.Replicas()})
}

// evaluateAction predicts age and gender of all benchmark images and reports the scores.
func evaluateAction(ctx *cli.Context) error {
	start := time.Now()

	conf := config.NewConfig(ctx)

	cctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := conf.Init(); err != nil {
		return err
	}

	defer conf.Shutdown()

	detector, err := face.NewPigoDetector(conf.CascadeFile(), conf.PuplocFile())

	if err != nil {
		return err
	}

	net, err := loadNetwork(conf)

	if err != nil {
		return err
	}

	defer net.Close()

	samples, err := dataset.ListUTKFace(conf.BenchmarkPath())

	if err != nil {
		return err
	}

	opt := benchmark.Options{
		Align:      face.AlignOptions{Size: conf.FaceSize(), Padding: conf.FacePadding()},
		Workers:    conf.Workers(),
		BatchSize:  conf.BatchSize(),
		SkipBroken: conf.SkipBroken(),
	}

	report, err := benchmark.NewEvaluator(net, detector, opt).Run(cctx, samples)

	if err != nil {
		return err
	}

	if db := conf.Db(); db != nil {
		if m, err := report.Save(db, conf.Checkpoint(), net.Kind().Name()); err != nil {
			return err
		} else {
			log.Infof("evaluate: saved results as %s", m.EvalUID)
		}
	}

	fmt.Printf("age mae: %.4f\ngender accuracy: %.4f\n", report.AgeMAE, report.GenderAcc)

	log.Infof("evaluate: completed in %s", time.Since(start))

	return nil
}
