package train

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/montanaflynn/stats"

	"github.com/photoprism/agender/internal/config"
	"github.com/photoprism/agender/internal/dataset"
	"github.com/photoprism/agender/internal/entity"
	"github.com/photoprism/agender/internal/event"
	"github.com/photoprism/agender/internal/nets"
	"github.com/photoprism/agender/pkg/fs"
)

// Trainer runs k-fold cross-validation over a combined dataset.
type Trainer struct {
	conf   *config.Config
	splits int
}

// NewTrainer returns a new cross-validation trainer.
func NewTrainer(conf *config.Config) *Trainer {
	return &Trainer{conf: conf, splits: dataset.DefaultSplits}
}

// Options returns the fold options derived from the config.
func (t *Trainer) Options() (opt Options, err error) {
	kind, err := nets.ParseKind(t.conf.Model())

	if err != nil {
		return opt, err
	}

	return Options{
		Kind:         kind,
		Epochs:       t.conf.Epochs(),
		BatchSize:    t.conf.BatchSize(),
		Replicas:     t.conf.Replicas(),
		Workers:      t.conf.Workers(),
		MaxQueue:     t.conf.MaxQueue(),
		LearningRate: t.conf.LearningRate(),
		Seed:         t.conf.Seed(),
		ImagesPath:   t.conf.ImagesPath(),
		WeightsPath:  t.conf.WeightsPath(),
		HistoryPath:  t.conf.HistoryPath(),
		SkipBroken:   t.conf.SkipBroken(),
		CacheTTL:     t.conf.CacheTTL(),
	}, nil
}

// Run trains one fresh network per fold, sequentially. The first failure
// aborts the run, files written for completed folds remain.
func (t *Trainer) Run(ctx context.Context, samples dataset.Samples) (results []Result, err error) {
	start := time.Now()

	opt, err := t.Options()

	if err != nil {
		return nil, err
	}

	if t.conf.Trial() {
		samples = samples.Trial(dataset.TrialSamples)
		log.Infof("train: trial mode, using %s", english.Plural(samples.Len(), "sample", "samples"))
	}

	folds, err := dataset.NewKFold(t.conf.Seed()).Split(samples.Len())

	if err != nil {
		return nil, err
	}

	if len(folds) != t.splits {
		return nil, fmt.Errorf("train: expected %d folds, got %d", t.splits, len(folds))
	}

	db := t.conf.Db()
	var run *entity.Run

	if db != nil {
		run = entity.NewRun(opt.Kind.Name(), samples.Len(), opt.Epochs, opt.BatchSize, opt.Replicas, t.conf.Trial())

		if err := run.Create(db); err != nil {
			return nil, fmt.Errorf("train: %s", err)
		}
	}

	event.Publish("train.started", event.Data{
		"model":   opt.Kind.Name(),
		"samples": samples.Len(),
		"folds":   len(folds),
	})

	for _, fold := range folds {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := NewFoldTrainer(samples, opt).Run(ctx, fold)

		if err != nil {
			event.Error(fmt.Sprintf("train: fold %d failed, %s", fold.Number, err))
			return results, err
		}

		results = append(results, res)

		if run != nil {
			row := &entity.Fold{
				RunUID:     run.RunUID,
				Fold:       res.Fold,
				BestEpoch:  res.BestEpoch,
				ValLoss:    res.ValLoss,
				ValGender:  res.ValGender,
				ValAge:     res.ValAge,
				Checkpoint: res.Checkpoint,
				Checksum:   fs.Checksum(res.Checkpoint),
				TrainSize:  res.TrainSize,
				TestSize:   res.TestSize,
			}

			if err := row.Create(db); err != nil {
				return results, fmt.Errorf("train: %s", err)
			}
		}

		event.Publish("train.fold", event.Data{
			"fold":       res.Fold,
			"epoch":      res.BestEpoch,
			"val_loss":   res.ValLoss,
			"checkpoint": res.Checkpoint,
		})
	}

	if run != nil {
		if err := run.Finish(db); err != nil {
			return results, fmt.Errorf("train: %s", err)
		}
	}

	event.Info(fmt.Sprintf("train: %s completed in %s", english.Plural(len(results), "fold", "folds"), time.Since(start)))

	event.Publish("train.completed", event.Data{"folds": len(results)})

	return results, nil
}

// Stat contains the mean and standard deviation of a metric across folds.
type Stat struct {
	Mean   float64
	StdDev float64
}

// String returns the stat as "mean ± stddev".
func (s Stat) String() string {
	return fmt.Sprintf("%.4f ± %.4f", s.Mean, s.StdDev)
}

// Summary aggregates the best validation scores of all folds.
type Summary struct {
	Folds     int
	ValLoss   Stat
	ValGender Stat
	ValAge    Stat
}

// Summarize computes the cross-fold summary of results.
func Summarize(results []Result) (s Summary, err error) {
	if len(results) == 0 {
		return s, fmt.Errorf("train: no results")
	}

	var loss, gender, age stats.Float64Data

	for _, r := range results {
		loss = append(loss, r.ValLoss)
		gender = append(gender, r.ValGender)
		age = append(age, r.ValAge)
	}

	s.Folds = len(results)

	if s.ValLoss, err = stat(loss); err != nil {
		return s, err
	}

	if s.ValGender, err = stat(gender); err != nil {
		return s, err
	}

	if s.ValAge, err = stat(age); err != nil {
		return s, err
	}

	return s, nil
}

func stat(data stats.Float64Data) (s Stat, err error) {
	if s.Mean, err = data.Mean(); err != nil {
		return s, fmt.Errorf("train: %s", err)
	}

	if s.StdDev, err = data.StandardDeviation(); err != nil {
		return s, fmt.Errorf("train: %s", err)
	}

	return s, nil
}
