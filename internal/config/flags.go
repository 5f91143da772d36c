package config

import (
	"github.com/urfave/cli"
)

// GlobalFlags lists the application-wide command-line flags.
var GlobalFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "config-file, c",
		Usage:  "load configuration options from `FILENAME`",
		EnvVar: "AGENDER_CONFIG_FILE",
	},
	cli.StringFlag{
		Name:   "log-level, l",
		Usage:  "trace, debug, info, warning, error",
		Value:  "info",
		EnvVar: "AGENDER_LOG_LEVEL",
	},
	cli.StringFlag{
		Name:   "assets-path",
		Usage:  "face detector cascade `PATH`",
		Value:  "assets",
		EnvVar: "AGENDER_ASSETS_PATH",
	},
	cli.StringFlag{
		Name:   "database-driver",
		Usage:  "results database `DRIVER`",
		Value:  "sqlite3",
		EnvVar: "AGENDER_DATABASE_DRIVER",
	},
	cli.StringFlag{
		Name:   "database-dsn",
		Usage:  "results database data source name, leave empty to disable",
		EnvVar: "AGENDER_DATABASE_DSN",
	},
	cli.StringFlag{
		Name:   "weights-path",
		Usage:  "checkpoint storage `PATH`",
		Value:  "trainweight",
		EnvVar: "AGENDER_WEIGHTS_PATH",
	},
	cli.StringFlag{
		Name:   "history-path",
		Usage:  "training history storage `PATH`",
		Value:  "history",
		EnvVar: "AGENDER_HISTORY_PATH",
	},
	cli.BoolFlag{
		Name:   "skip-broken",
		Usage:  "skip and log unreadable images instead of aborting",
		EnvVar: "AGENDER_SKIP_BROKEN",
	},
}

// DatasetFlags select the cleaned training tables.
var DatasetFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "dataset-path",
		Usage: "cleaned dataset tables `PATH`",
		Value: "dataset",
	},
	cli.StringFlag{
		Name:  "wiki-csv",
		Usage: "wiki table file name",
		Value: "wiki_cleaned.csv",
	},
	cli.StringFlag{
		Name:  "imdb-csv",
		Usage: "imdb table file name",
		Value: "imdb_cleaned.csv",
	},
	cli.StringFlag{
		Name:  "adience-csv",
		Usage: "adience table file name",
		Value: "adience_cleaned.csv",
	},
	cli.StringFlag{
		Name:  "images-path",
		Usage: "image root `PATH`, relative table paths are resolved below it",
		Value: "data",
	},
}

// TrainFlags configure the cross-validation trainer.
var TrainFlags = append([]cli.Flag{
	cli.IntFlag{
		Name:  "gpu",
		Usage: "Num of GPU",
		Value: 1,
	},
	cli.StringFlag{
		Name:  "model",
		Usage: "Model to be used: vgg16, inceptionv3, xception, ssrnet, mobilenetv2",
		Value: "inceptionv3",
	},
	cli.BoolFlag{
		Name:  "trial",
		Usage: "Run training to check code",
	},
	cli.IntFlag{
		Name:  "epoch",
		Usage: "Num of training epoch",
		Value: 50,
	},
	cli.IntFlag{
		Name:  "batch_size",
		Usage: "Size of data batch to be used",
		Value: 64,
	},
	cli.IntFlag{
		Name:  "num_worker",
		Usage: "Number of worker to process data, 0 uses the number of physical cores",
		Value: 4,
	},
	cli.IntFlag{
		Name:  "max_queue",
		Usage: "prefetch queue size, 0 means twice the batch size",
	},
	cli.Float64Flag{
		Name:  "learning-rate",
		Usage: "initial learning rate",
		Value: 0.001,
	},
	cli.Int64Flag{
		Name:  "seed",
		Usage: "fold split seed",
		Value: 1,
	},
	cli.DurationFlag{
		Name:  "cache-ttl",
		Usage: "keep decoded images in memory for `DURATION`, 0 disables the cache",
	},
}, DatasetFlags...)

// EvaluateFlags configure the benchmark evaluator.
var EvaluateFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "benchmark-path",
		Usage: "UTKFace dataset `PATH` containing part1, part2 and part3",
		Value: "UTKface",
	},
	cli.StringFlag{
		Name:  "checkpoint",
		Usage: "checkpoint `FILENAME` to evaluate",
	},
	cli.StringFlag{
		Name:  "model",
		Usage: "model kind, taken from the checkpoint header if empty",
	},
	cli.IntFlag{
		Name:  "face-size",
		Usage: "aligned face size in pixels",
		Value: 140,
	},
	cli.Float64Flag{
		Name:  "face-padding",
		Usage: "padding around the aligned face",
		Value: 0.4,
	},
	cli.IntFlag{
		Name:  "num_worker",
		Usage: "inference threads",
		Value: 4,
	},
}
