package config

import (
	"errors"
	"os"
	"reflect"
	"time"

	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"

	"github.com/photoprism/agender/pkg/fs"
)

// Options holds all settings. Values come from an optional YAML file first,
// command-line flags override them.
type Options struct {
	ConfigFile     string        `yaml:"-" flag:"config-file"`
	LogLevel       string        `yaml:"LogLevel" flag:"log-level"`
	DatasetPath    string        `yaml:"DatasetPath" flag:"dataset-path"`
	WikiCSV        string        `yaml:"WikiCSV" flag:"wiki-csv"`
	ImdbCSV        string        `yaml:"ImdbCSV" flag:"imdb-csv"`
	AdienceCSV     string        `yaml:"AdienceCSV" flag:"adience-csv"`
	ImagesPath     string        `yaml:"ImagesPath" flag:"images-path"`
	WeightsPath    string        `yaml:"WeightsPath" flag:"weights-path"`
	HistoryPath    string        `yaml:"HistoryPath" flag:"history-path"`
	AssetsPath     string        `yaml:"AssetsPath" flag:"assets-path"`
	DatabaseDriver string        `yaml:"DatabaseDriver" flag:"database-driver"`
	DatabaseDsn    string        `yaml:"DatabaseDsn" flag:"database-dsn"`
	Gpu            int           `yaml:"Gpu" flag:"gpu"`
	Model          string        `yaml:"Model" flag:"model"`
	Trial          bool          `yaml:"Trial" flag:"trial"`
	Epoch          int           `yaml:"Epoch" flag:"epoch"`
	BatchSize      int           `yaml:"BatchSize" flag:"batch_size"`
	NumWorker      int           `yaml:"NumWorker" flag:"num_worker"`
	MaxQueue       int           `yaml:"MaxQueue" flag:"max_queue"`
	LearningRate   float64       `yaml:"LearningRate" flag:"learning-rate"`
	Seed           int64         `yaml:"Seed" flag:"seed"`
	CacheTTL       time.Duration `yaml:"CacheTTL" flag:"cache-ttl"`
	SkipBroken     bool          `yaml:"SkipBroken" flag:"skip-broken"`
	BenchmarkPath  string        `yaml:"BenchmarkPath" flag:"benchmark-path"`
	Checkpoint     string        `yaml:"Checkpoint" flag:"checkpoint"`
	FaceSize       int           `yaml:"FaceSize" flag:"face-size"`
	FacePadding    float64       `yaml:"FacePadding" flag:"face-padding"`
}

// NewOptions creates new configuration options based on the context.
func NewOptions(ctx *cli.Context) *Options {
	c := &Options{}

	if ctx == nil {
		return c
	}

	if fileName := lookupString(ctx, "config-file"); fileName != "" {
		if err := c.Load(fileName); err != nil {
			log.Errorf("config: %s", err)
		}
	}

	if err := c.SetContext(ctx); err != nil {
		log.Errorf("config: %s", err)
	}

	return c
}

// Load uses a yaml config file to initiate the configuration entity.
func (c *Options) Load(fileName string) error {
	if fileName == "" {
		return nil
	}

	if !fs.FileExists(fileName) {
		return errors.New("options file not found")
	}

	yamlConfig, err := os.ReadFile(fileName)

	if err != nil {
		return err
	}

	return yaml.Unmarshal(yamlConfig, c)
}

// SetContext uses options from the CLI to setup configuration overrides
// for the entity.
func (c *Options) SetContext(ctx *cli.Context) error {
	v := reflect.ValueOf(c).Elem()

	// Iterate through all config fields.
	for i := 0; i < v.NumField(); i++ {
		fieldValue := v.Field(i)

		tagValue := v.Type().Field(i).Tag.Get("flag")

		// Assign options to fields with "flag" tag.
		if tagValue == "" {
			continue
		}

		set, global := lookupSet(ctx, tagValue)

		// Only if explicitly set or current value is empty (use default).
		if !set && !fieldValue.IsZero() {
			continue
		}

		switch fieldValue.Interface().(type) {
		case time.Duration:
			if global {
				fieldValue.SetInt(int64(ctx.GlobalDuration(tagValue)))
			} else {
				fieldValue.SetInt(int64(ctx.Duration(tagValue)))
			}
		case int, int64:
			if global {
				fieldValue.SetInt(ctx.GlobalInt64(tagValue))
			} else {
				fieldValue.SetInt(ctx.Int64(tagValue))
			}
		case float64:
			if global {
				fieldValue.SetFloat(ctx.GlobalFloat64(tagValue))
			} else {
				fieldValue.SetFloat(ctx.Float64(tagValue))
			}
		case string:
			if global {
				fieldValue.SetString(ctx.GlobalString(tagValue))
			} else {
				fieldValue.SetString(ctx.String(tagValue))
			}
		case bool:
			if global {
				fieldValue.SetBool(ctx.GlobalBool(tagValue))
			} else {
				fieldValue.SetBool(ctx.Bool(tagValue))
			}
		default:
			log.Warnf("config: cannot assign value of type %s from cli flag %s", fieldValue.Type(), tagValue)
		}
	}

	return nil
}

// lookupSet reports whether a flag was set explicitly and whether the value
// must be read from a parent (global) context.
func lookupSet(ctx *cli.Context, name string) (set bool, global bool) {
	if ctx.IsSet(name) {
		return true, false
	}

	if ctx.GlobalIsSet(name) {
		return true, true
	}

	for _, n := range ctx.FlagNames() {
		if n == name {
			return false, false
		}
	}

	return false, true
}

func lookupString(ctx *cli.Context, name string) string {
	if _, global := lookupSet(ctx, name); global {
		return ctx.GlobalString(name)
	}

	return ctx.String(name)
}
