package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli"

	"github.com/photoprism/agender/internal/config"
	"github.com/photoprism/agender/internal/train"
)

// HistoryCommand registers the history cli command.
var HistoryCommand = cli.Command{
	Name:      "history",
	Usage:     "Shows the best epoch of every fold history",
	ArgsUsage: "[fold]",
	Action:    historyAction,
}

// historyAction prints the best validation scores found in the history files.
func historyAction(ctx *cli.Context) error {
	conf := config.NewConfig(ctx)

	if err := conf.Init(); err != nil {
		return err
	}

	defer conf.Shutdown()

	files, err := train.HistoryFiles(conf.HistoryPath())

	if err != nil {
		return err
	}

	if fold := ctx.Args().First(); fold != "" {
		files = []string{filepath.Join(conf.HistoryPath(), fmt.Sprintf("fold%s_p2.json", fold))}
	}

	if len(files) == 0 {
		log.Infof("history: no files found in %s", conf.HistoryPath())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "FILE\tEPOCHS\tBEST\tVAL_LOSS\tVAL_GENDER\tVAL_AGE")

	var results []train.Result

	for _, fileName := range files {
		h, err := train.ReadHistory(fileName)

		if err != nil {
			return err
		}

		res, err := h.Result(train.HistoryFold(fileName))

		if err != nil {
			log.Warnf("history: %s in %s", err, filepath.Base(fileName))
			continue
		}

		results = append(results, res)

		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\t%.4f\t%.4f\n", filepath.Base(fileName), h.Epochs(), res.BestEpoch, res.ValLoss, res.ValGender, res.ValAge)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) < 2 {
		return nil
	}

	summary, err := train.Summarize(results)

	if err != nil {
		return err
	}

	fmt.Printf("\n%s: val_loss %s, val gender %s, val age %s\n", english.Plural(summary.Folds, "fold", "folds"), summary.ValLoss, summary.ValGender, summary.ValAge)

	return nil
}
