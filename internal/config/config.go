package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jinzhu/gorm"
	"github.com/klauspost/cpuid/v2"
	"github.com/pbnjay/memory"
	"github.com/urfave/cli"

	"github.com/photoprism/agender/internal/entity"
	"github.com/photoprism/agender/internal/event"
	"github.com/photoprism/agender/internal/nets"
	"github.com/photoprism/agender/pkg/fs"
)

// Config holds the settings of a single process run. It is not modified after Init.
type Config struct {
	once    sync.Once
	options *Options
	db      *gorm.DB
}

// NewConfig initialises a new configuration from cli context.
func NewConfig(ctx *cli.Context) *Config {
	return &Config{options: NewOptions(ctx)}
}

// NewTestConfig returns a configuration for the given options.
func NewTestConfig(opt Options) *Config {
	return &Config{options: &opt}
}

// Options returns a copy of the raw options.
func (c *Config) Options() Options {
	return *c.options
}

// Init validates the configuration, creates storage paths and connects to the results database.
func (c *Config) Init() error {
	event.Log.SetLevel(event.Level(c.options.LogLevel))

	if c.options.Model != "" {
		if _, err := nets.ParseKind(c.options.Model); err != nil {
			return fmt.Errorf("config: %s", err)
		}
	}

	if c.options.Gpu < 0 {
		return fmt.Errorf("config: gpu count must not be negative")
	}

	for _, dir := range []string{c.WeightsPath(), c.HistoryPath()} {
		if dir == "" {
			continue
		}

		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("config: %s", err)
		}
	}

	if c.options.DatabaseDsn != "" {
		if err := c.connectDb(); err != nil {
			return err
		}
	}

	log.Debugf("config: %s, %d cores, %s memory", c.CPU(), c.Cores(), humanize.Bytes(c.TotalMem()))

	return nil
}

// Shutdown closes the database connection.
func (c *Config) Shutdown() {
	if c.db == nil {
		return
	}

	if err := c.db.Close(); err != nil {
		log.Errorf("config: %s (close db)", err)
	} else {
		log.Debugf("config: closed database connection")
	}

	c.db = nil
}

func (c *Config) connectDb() (err error) {
	c.once.Do(func() {
		dsn := c.options.DatabaseDsn

		if c.DatabaseDriver() == entity.SQLite3 && dsn != entity.MemoryDsn {
			if err = os.MkdirAll(filepath.Dir(fs.Abs(dsn)), os.ModePerm); err != nil {
				return
			}
		}

		c.db, err = entity.Open(c.DatabaseDriver(), dsn)
	})

	if err != nil {
		return fmt.Errorf("config: %s (connect db)", err)
	}

	return nil
}

// Db returns the results database connection or nil if disabled.
func (c *Config) Db() *gorm.DB {
	return c.db
}

// DatabaseDriver returns the results database driver name.
func (c *Config) DatabaseDriver() string {
	if c.options.DatabaseDriver == "" {
		return entity.SQLite3
	}

	return strings.ToLower(c.options.DatabaseDriver)
}

// DatasetPath returns the directory containing the cleaned tables.
func (c *Config) DatasetPath() string {
	return fs.Abs(c.options.DatasetPath)
}

// SourceTables returns the wiki, imdb and adience table file names in this order.
func (c *Config) SourceTables() []string {
	return []string{
		filepath.Join(c.DatasetPath(), c.options.WikiCSV),
		filepath.Join(c.DatasetPath(), c.options.ImdbCSV),
		filepath.Join(c.DatasetPath(), c.options.AdienceCSV),
	}
}

// ImagesPath returns the root for relative image paths.
func (c *Config) ImagesPath() string {
	return fs.Abs(c.options.ImagesPath)
}

// WeightsPath returns the checkpoint directory.
func (c *Config) WeightsPath() string {
	return fs.Abs(c.options.WeightsPath)
}

// HistoryPath returns the training history directory.
func (c *Config) HistoryPath() string {
	return fs.Abs(c.options.HistoryPath)
}

// AssetsPath returns the path of face detection assets.
func (c *Config) AssetsPath() string {
	return fs.Abs(c.options.AssetsPath)
}

// CascadeFile returns the face finder cascade file name.
func (c *Config) CascadeFile() string {
	return filepath.Join(c.AssetsPath(), "facefinder")
}

// PuplocFile returns the pupil localization cascade file name.
func (c *Config) PuplocFile() string {
	return filepath.Join(c.AssetsPath(), "puploc")
}

// BenchmarkPath returns the UTKFace directory.
func (c *Config) BenchmarkPath() string {
	return fs.Abs(c.options.BenchmarkPath)
}

// Checkpoint returns the checkpoint file to evaluate.
func (c *Config) Checkpoint() string {
	if c.options.Checkpoint == "" {
		return ""
	}

	return fs.Abs(c.options.Checkpoint)
}

// Model returns the model kind name.
func (c *Config) Model() string {
	return strings.ToLower(c.options.Model)
}

// Replicas returns the number of compute replicas, at least 1.
func (c *Config) Replicas() int {
	if c.options.Gpu < 1 {
		return 1
	}

	return c.options.Gpu
}

// Trial returns true if a quick smoke-test run was requested.
func (c *Config) Trial() bool {
	return c.options.Trial
}

// Epochs returns the number of training epochs.
func (c *Config) Epochs() int {
	if c.options.Epoch < 1 {
		return 1
	}

	return c.options.Epoch
}

// BatchSize returns the training batch size.
func (c *Config) BatchSize() int {
	if c.options.BatchSize < 1 {
		return 64
	}

	return c.options.BatchSize
}

// Workers returns the number of data workers.
func (c *Config) Workers() int {
	if c.options.NumWorker > 0 {
		return c.options.NumWorker
	}

	return c.Cores()
}

// MaxQueue returns the prefetch queue size.
func (c *Config) MaxQueue() int {
	if c.options.MaxQueue > 0 {
		return c.options.MaxQueue
	}

	return c.BatchSize() * 2
}

// LearningRate returns the initial learning rate.
func (c *Config) LearningRate() float64 {
	if c.options.LearningRate <= 0 {
		return 0.001
	}

	return c.options.LearningRate
}

// Seed returns the fold split seed.
func (c *Config) Seed() int64 {
	return c.options.Seed
}

// CacheTTL returns how long decoded images are cached.
func (c *Config) CacheTTL() time.Duration {
	if c.options.CacheTTL < 0 {
		return 0
	}

	return c.options.CacheTTL
}

// SkipBroken returns true if unreadable images should be skipped.
func (c *Config) SkipBroken() bool {
	return c.options.SkipBroken
}

// FaceSize returns the aligned face size.
func (c *Config) FaceSize() int {
	if c.options.FaceSize < 1 {
		return 140
	}

	return c.options.FaceSize
}

// FacePadding returns the padding around aligned faces.
func (c *Config) FacePadding() float64 {
	if c.options.FacePadding < 0 {
		return 0
	}

	return c.options.FacePadding
}

// CPU returns the processor brand name.
func (c *Config) CPU() string {
	if cpuid.CPU.BrandName == "" {
		return runtime.GOARCH
	}

	return cpuid.CPU.BrandName
}

// Cores returns the number of physical CPU cores.
func (c *Config) Cores() int {
	if cpuid.CPU.PhysicalCores > 0 {
		return cpuid.CPU.PhysicalCores
	}

	return runtime.NumCPU()
}

// TotalMem returns the total system memory in bytes.
func (c *Config) TotalMem() uint64 {
	return memory.TotalMemory()
}
