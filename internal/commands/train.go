package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli"

	"github.com/photoprism/agender/internal/config"
	"github.com/photoprism/agender/internal/dataset"
	"github.com/photoprism/agender/internal/event"
	"github.com/photoprism/agender/internal/train"
)

// TrainCommand registers the train cli command.
var TrainCommand = cli.Command{
	Name:   "train",
	Usage:  "Trains one model per fold with 10-fold cross-validation",
	Flags:  config.TrainFlags,
	Action: trainAction,
}

// trainAction runs cross-validation on the combined source tables.
func trainAction(ctx *cli.Context) error {
	start := time.Now()

	conf := config.NewConfig(ctx)

	cctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := conf.Init(); err != nil {
		return err
	}

	defer conf.Shutdown()

	samples, err := dataset.Combine(conf.SourceTables()...)

	if err != nil {
		return err
	}

	s := event.Subscribe("train.fold")
	defer event.Unsubscribe(s)

	go func() {
		for msg := range s.Receiver {
			log.Infof("train: fold %v best epoch %v, val_loss %.4f", msg.Fields["fold"], msg.Fields["epoch"], msg.Fields["val_loss"])
		}
	}()

	results, err := train.NewTrainer(conf).Run(cctx, samples)

	if err != nil {
		return err
	}

	summary, err := train.Summarize(results)

	if err != nil {
		return err
	}

	log.Infof("train: val_loss %s, val gender %s, val age %s", summary.ValLoss, summary.ValGender, summary.ValAge)
	log.Infof("train: completed %s in %s", english.Plural(summary.Folds, "fold", "folds"), time.Since(start))

	return nil
}
