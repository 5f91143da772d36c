package train

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/photoprism/agender/internal/dataset"
	"github.com/photoprism/agender/internal/nets"
	"github.com/photoprism/agender/internal/thumb"
)

// ErrClosed is returned by Next after the stream was closed.
var ErrClosed = errors.New("train: stream closed")

// StepsPerEpoch returns floor(n / (batch * replicas)). Remaining samples are dropped.
func StepsPerEpoch(n, batch, replicas int) (int, error) {
	if batch < 1 {
		return 0, fmt.Errorf("train: batch size must be > 0")
	}

	if replicas < 1 {
		replicas = 1
	}

	steps := n / (batch * replicas)

	if steps < 1 {
		return 0, fmt.Errorf("train: %d samples are not enough for batch size %d on %d replicas", n, batch, replicas)
	}

	return steps, nil
}

// StreamOptions configure a batch stream.
type StreamOptions struct {
	Kind       nets.Kind
	BatchSize  int
	Workers    int
	MaxQueue   int
	ImagesPath string
	Shuffle    bool
	Seed       int64
	SkipBroken bool
	Cache      *cache.Cache
}

type result struct {
	batch nets.Batch
	err   error
}

type job struct {
	idx []int
	res chan result
}

// Stream lazily loads batches of images and encoded labels. It loops over
// the samples indefinitely, reshuffling them every pass when Shuffle is set.
// Batches are delivered in dispatch order.
type Stream struct {
	opt     StreamOptions
	samples dataset.Samples
	batches int
	queue   chan chan result
	jobs    chan job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// NewStream starts the dispatcher and worker goroutines.
func NewStream(samples dataset.Samples, opt StreamOptions) (*Stream, error) {
	if opt.Kind == nil {
		return nil, fmt.Errorf("train: stream requires a model kind")
	}

	if opt.BatchSize < 1 {
		return nil, fmt.Errorf("train: batch size must be > 0")
	}

	batches := samples.Len() / opt.BatchSize

	if batches < 1 {
		return nil, fmt.Errorf("train: %d samples are not enough for batch size %d", samples.Len(), opt.BatchSize)
	}

	if opt.Workers < 1 {
		opt.Workers = 1
	}

	if opt.MaxQueue < 1 {
		opt.MaxQueue = 2 * opt.BatchSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Stream{
		opt:     opt,
		samples: samples,
		batches: batches,
		queue:   make(chan chan result, opt.MaxQueue),
		jobs:    make(chan job),
		ctx:     ctx,
		cancel:  cancel,
	}

	s.wg.Add(1 + opt.Workers)

	go s.dispatch()

	for i := 0; i < opt.Workers; i++ {
		go s.work()
	}

	return s, nil
}

// Batches returns the number of full batches per pass over the samples.
func (s *Stream) Batches() int {
	return s.batches
}

// Next blocks until the next batch is ready.
func (s *Stream) Next(ctx context.Context) (nets.Batch, error) {
	var res chan result

	if s.ctx.Err() != nil {
		return nets.Batch{}, ErrClosed
	} else if err := ctx.Err(); err != nil {
		return nets.Batch{}, err
	}

	select {
	case res = <-s.queue:
	case <-s.ctx.Done():
		return nets.Batch{}, ErrClosed
	case <-ctx.Done():
		return nets.Batch{}, ctx.Err()
	}

	select {
	case r := <-res:
		return r.batch, r.err
	case <-s.ctx.Done():
		return nets.Batch{}, ErrClosed
	case <-ctx.Done():
		return nets.Batch{}, ctx.Err()
	}
}

// Close stops all goroutines and waits for them to exit.
func (s *Stream) Close() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}

func (s *Stream) dispatch() {
	defer s.wg.Done()

	rnd := rand.New(rand.NewSource(s.opt.Seed))
	order := make([]int, s.samples.Len())

	for i := range order {
		order[i] = i
	}

	for {
		if s.opt.Shuffle {
			rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		for b := 0; b < s.batches; b++ {
			j := job{idx: order[b*s.opt.BatchSize : (b+1)*s.opt.BatchSize], res: make(chan result, 1)}

			// Copy since order is reshuffled while workers may still read it.
			j.idx = append([]int(nil), j.idx...)

			select {
			case s.queue <- j.res:
			case <-s.ctx.Done():
				return
			}

			select {
			case s.jobs <- j:
			case <-s.ctx.Done():
				return
			}
		}
	}
}

func (s *Stream) work() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case j := <-s.jobs:
			b, err := s.load(j.idx)
			j.res <- result{batch: b, err: err}
		}
	}
}

// FileName returns the absolute image file name of a sample.
func FileName(imagesPath string, sample dataset.Sample) string {
	if filepath.IsAbs(sample.Path) || imagesPath == "" {
		return sample.Path
	}

	return filepath.Join(imagesPath, sample.Source, sample.Path)
}

func (s *Stream) load(idx []int) (b nets.Batch, err error) {
	size := s.opt.Kind.InputSize()
	categorical := s.opt.Kind.Categorical()

	for _, i := range idx {
		sample := s.samples[i]
		fileName := FileName(s.opt.ImagesPath, sample)

		pixels, err := s.tensor(fileName, size)

		if err != nil {
			if s.opt.SkipBroken {
				log.Warnf("train: %s (skipped)", err)
				continue
			}

			return b, err
		}

		age, gender := nets.Targets(sample.Age, sample.Gender, categorical)

		b.Pixels = append(b.Pixels, pixels)
		b.Age = append(b.Age, age)
		b.Gender = append(b.Gender, gender)
	}

	if b.Len() == 0 {
		return b, fmt.Errorf("train: no readable image in batch")
	}

	return b, nil
}

func (s *Stream) tensor(fileName string, size int) ([]float32, error) {
	if s.opt.Cache != nil {
		if hit, ok := s.opt.Cache.Get(fileName); ok {
			return hit.([]float32), nil
		}
	}

	pixels, err := thumb.Load(fileName, size)

	if err != nil {
		return nil, fmt.Errorf("train: %s in %s", err, filepath.Base(fileName))
	}

	if s.opt.Cache != nil {
		s.opt.Cache.SetDefault(fileName, pixels)
	}

	return pixels, nil
}
