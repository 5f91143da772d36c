package commands

import (
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli"

	"github.com/photoprism/agender/internal/config"
	"github.com/photoprism/agender/internal/dataset"
)

// CombinedCSV is the file name of the combined training table.
const CombinedCSV = "combined.csv"

// PrepareCommand registers the prepare cli command.
var PrepareCommand = cli.Command{
	Name:   "prepare",
	Usage:  "Combines the cleaned wiki, imdb and adience tables",
	Flags:  config.DatasetFlags,
	Action: prepareAction,
}

// prepareAction concatenates all source tables and writes the combined table.
func prepareAction(ctx *cli.Context) error {
	start := time.Now()

	conf := config.NewConfig(ctx)

	if err := conf.Init(); err != nil {
		return err
	}

	defer conf.Shutdown()

	samples, err := dataset.Combine(conf.SourceTables()...)

	if err != nil {
		return err
	}

	fileName := filepath.Join(conf.DatasetPath(), CombinedCSV)

	if err := dataset.WriteCSV(fileName, samples); err != nil {
		return err
	}

	log.Infof("prepare: wrote %s to %s in %s", english.Plural(samples.Len(), "sample", "samples"), filepath.Base(fileName), time.Since(start))

	return nil
}
