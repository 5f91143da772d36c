package config

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Report returns the configuration as name/value rows.
func (c *Config) Report() (rows [][]string) {
	rows = [][]string{
		{"log-level", c.options.LogLevel},
		{"model", c.Model()},
		{"gpu", fmt.Sprintf("%d", c.Replicas())},
		{"trial", fmt.Sprintf("%t", c.Trial())},
		{"epoch", fmt.Sprintf("%d", c.Epochs())},
		{"batch_size", fmt.Sprintf("%d", c.BatchSize())},
		{"num_worker", fmt.Sprintf("%d", c.Workers())},
		{"max_queue", fmt.Sprintf("%d", c.MaxQueue())},
		{"learning-rate", fmt.Sprintf("%g", c.LearningRate())},
		{"seed", fmt.Sprintf("%d", c.Seed())},
		{"cache-ttl", c.CacheTTL().String()},
		{"skip-broken", fmt.Sprintf("%t", c.SkipBroken())},
		{"dataset-path", c.DatasetPath()},
		{"images-path", c.ImagesPath()},
		{"weights-path", c.WeightsPath()},
		{"history-path", c.HistoryPath()},
		{"assets-path", c.AssetsPath()},
		{"benchmark-path", c.BenchmarkPath()},
		{"database-driver", c.DatabaseDriver()},
		{"database-dsn", c.options.DatabaseDsn},
		{"cpu", c.CPU()},
		{"cores", fmt.Sprintf("%d", c.Cores())},
		{"memory", humanize.Bytes(c.TotalMem())},
	}

	return rows
}
