package train

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/patrickmn/go-cache"

	"github.com/photoprism/agender/internal/dataset"
	"github.com/photoprism/agender/internal/event"
	"github.com/photoprism/agender/internal/nets"
)

// State is a step of the per-fold training lifecycle.
type State string

const (
	StateInit           State = "init"
	StateConfigure      State = "configure"
	StateTrain          State = "train"
	StateCheckpoint     State = "checkpoint"
	StatePersistHistory State = "persist_history"
	StateTeardown       State = "teardown"
)

// Options configure the training of a single fold.
type Options struct {
	Kind         nets.Kind
	Epochs       int
	BatchSize    int
	Replicas     int
	Workers      int
	MaxQueue     int
	LearningRate float64
	Seed         int64
	ImagesPath   string
	WeightsPath  string
	HistoryPath  string
	SkipBroken   bool
	CacheTTL     time.Duration
}

// Result describes the outcome of one fold.
type Result struct {
	Fold        int
	TrainSize   int
	TestSize    int
	Steps       int
	ValSteps    int
	BestEpoch   int
	ValLoss     float64
	ValGender   float64
	ValAge      float64
	Checkpoint  string
	HistoryFile string
	History     History
}

// FoldTrainer trains a fresh network on one fold and keeps the best checkpoint.
type FoldTrainer struct {
	opt     Options
	samples dataset.Samples
	cache   *cache.Cache
	state   State
}

// NewFoldTrainer returns a trainer for the given samples. A positive CacheTTL
// keeps decoded images in memory across epochs.
func NewFoldTrainer(samples dataset.Samples, opt Options) *FoldTrainer {
	t := &FoldTrainer{opt: opt, samples: samples, state: StateInit}

	if opt.CacheTTL > 0 {
		t.cache = cache.New(opt.CacheTTL, opt.CacheTTL*2)
	}

	return t
}

// State returns the current lifecycle state.
func (t *FoldTrainer) State() State {
	return t.state
}

func (t *FoldTrainer) enter(fold int, s State) {
	t.state = s
	log.Tracef("train: fold %d %s", fold, s)
	event.Publish("train.state", event.Data{"fold": fold, "state": string(s)})
}

// Steps returns the training and validation steps per epoch of a fold. Test
// sets smaller than one batch per replica are validated in a single step.
func (t *FoldTrainer) Steps(fold dataset.Fold) (steps, valSteps, valBatch int, err error) {
	if steps, err = StepsPerEpoch(len(fold.Train), t.opt.BatchSize, t.opt.Replicas); err != nil {
		return 0, 0, 0, err
	}

	if len(fold.Test) == 0 {
		return 0, 0, 0, fmt.Errorf("train: fold %d has no test samples", fold.Number)
	}

	valBatch = t.opt.BatchSize

	if valSteps, err = StepsPerEpoch(len(fold.Test), t.opt.BatchSize, t.opt.Replicas); err != nil {
		return steps, 1, len(fold.Test), nil
	}

	return steps, valSteps, valBatch, nil
}

// Run trains the fold and returns its best validation scores. Fold resources
// are released before Run returns, also on error.
func (t *FoldTrainer) Run(ctx context.Context, fold dataset.Fold) (res Result, err error) {
	start := time.Now()
	kind := t.opt.Kind

	t.enter(fold.Number, StateInit)

	if kind == nil {
		return res, fmt.Errorf("train: model kind missing")
	} else if t.opt.Epochs < 1 {
		return res, fmt.Errorf("train: epochs must be > 0")
	}

	res = Result{
		Fold:      fold.Number,
		TrainSize: len(fold.Train),
		TestSize:  len(fold.Test),
		History:   make(History),
	}

	var valBatch int

	if res.Steps, res.ValSteps, valBatch, err = t.Steps(fold); err != nil {
		return res, err
	}

	t.enter(fold.Number, StateConfigure)

	net, err := kind.New(nets.Options{Replicas: t.opt.Replicas})

	if err != nil {
		return res, err
	}

	streamOpt := StreamOptions{
		Kind:       kind,
		BatchSize:  t.opt.BatchSize,
		Workers:    t.opt.Workers,
		MaxQueue:   t.opt.MaxQueue,
		ImagesPath: t.opt.ImagesPath,
		Shuffle:    true,
		Seed:       t.opt.Seed + int64(fold.Number),
		SkipBroken: t.opt.SkipBroken,
		Cache:      t.cache,
	}

	trainStream, err := NewStream(t.samples.Subset(fold.Train), streamOpt)

	if err != nil {
		_ = net.Close()
		return res, err
	}

	streamOpt.Shuffle = false
	streamOpt.BatchSize = valBatch

	valStream, err := NewStream(t.samples.Subset(fold.Test), streamOpt)

	if err != nil {
		trainStream.Close()
		_ = net.Close()
		return res, err
	}

	defer func() {
		t.enter(fold.Number, StateTeardown)
		trainStream.Close()
		valStream.Close()

		if cerr := net.Close(); cerr != nil && err == nil {
			err = cerr
		}

		if t.cache != nil {
			t.cache.Flush()
		}
	}()

	log.Infof("train: fold %d with %s on %s, %s per epoch", fold.Number, english.Plural(res.TrainSize, "sample", "samples"), english.Plural(net.Replicas(), "replica", "replicas"), english.Plural(res.Steps, "step", "steps"))

	genderKey := nets.MetricKey(nets.GenderOutput, kind.Metrics()[nets.GenderOutput], true)
	ageKey := nets.MetricKey(nets.AgeOutput, kind.Metrics()[nets.AgeOutput], true)

	res.ValLoss = math.Inf(1)

	for epoch := 1; epoch <= t.opt.Epochs; epoch++ {
		t.enter(fold.Number, StateTrain)

		lr := kind.LearningRate(t.opt.LearningRate, epoch)

		scores, err := t.epoch(ctx, trainStream, res.Steps, func(b nets.Batch) (nets.Scores, error) {
			return net.TrainBatch(b, lr)
		})

		if err != nil {
			return res, err
		}

		valScores, err := t.epoch(ctx, valStream, res.ValSteps, net.EvalBatch)

		if err != nil {
			return res, err
		}

		res.History.Append(scores, false)
		res.History.Append(valScores, true)
		res.History["lr"] = append(res.History["lr"], lr)

		valLoss := valScores["loss"]

		log.Debugf("train: fold %d epoch %d loss %.4f val_loss %.4f", fold.Number, epoch, scores["loss"], valLoss)

		event.Publish("train.epoch", event.Data{
			"fold":     fold.Number,
			"epoch":    epoch,
			"loss":     scores["loss"],
			"val_loss": valLoss,
		})

		if !(valLoss < res.ValLoss) {
			continue
		}

		t.enter(fold.Number, StateCheckpoint)

		c := Checkpoint{
			Fold:      fold.Number,
			Epoch:     epoch,
			ValLoss:   valLoss,
			ValGender: res.History[genderKey][epoch-1],
			ValAge:    res.History[ageKey][epoch-1],
		}

		fileName := filepath.Join(t.opt.WeightsPath, c.Name())

		if err := SaveCheckpoint(fileName, net); err != nil {
			return res, err
		}

		log.Infof("train: val_loss improved to %.4f, saved %s", valLoss, c.Name())

		res.BestEpoch = epoch
		res.ValLoss = c.ValLoss
		res.ValGender = c.ValGender
		res.ValAge = c.ValAge
		res.Checkpoint = fileName
	}

	t.enter(fold.Number, StatePersistHistory)

	res.HistoryFile = filepath.Join(t.opt.HistoryPath, HistoryName(fold.Number))

	if err := res.History.Save(res.HistoryFile); err != nil {
		return res, err
	}

	log.Infof("train: fold %d completed in %s", fold.Number, time.Since(start))

	return res, nil
}

// epoch runs steps batches through f and returns the mean of every score.
func (t *FoldTrainer) epoch(ctx context.Context, s *Stream, steps int, f func(nets.Batch) (nets.Scores, error)) (nets.Scores, error) {
	sums := make(nets.Scores)

	for i := 0; i < steps; i++ {
		b, err := s.Next(ctx)

		if err != nil {
			return nil, err
		}

		scores, err := f(b)

		if err != nil {
			return nil, err
		}

		for k, v := range scores {
			sums[k] += v
		}
	}

	for k := range sums {
		sums[k] /= float64(steps)
	}

	return sums, nil
}
