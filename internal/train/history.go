package train

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/photoprism/agender/internal/nets"
	"github.com/photoprism/agender/pkg/fs"
)

// History maps metric names to per-epoch values.
type History map[string][]float64

// HistoryName returns the history file name of a fold, e.g. "fold3_p2.json".
func HistoryName(fold int) string {
	return fmt.Sprintf("fold%d_p2.json", fold)
}

// HistoryFold returns the fold number of a history file name, or 0 if it has none.
func HistoryFold(fileName string) (fold int) {
	_, _ = fmt.Sscanf(filepath.Base(fileName), "fold%d_", &fold)

	return fold
}

// HistoryFiles returns the history files in dir ordered by fold number.
func HistoryFiles(dir string) ([]string, error) {
	files, err := fs.Files(dir, ".json")

	if err != nil {
		return nil, fmt.Errorf("train: %s", err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return HistoryFold(files[i]) < HistoryFold(files[j])
	})

	return files, nil
}

// Append adds one epoch of scores, prefixing keys with "val_" for validation scores.
func (h History) Append(s nets.Scores, validation bool) {
	for key, value := range s {
		if validation {
			key = "val_" + key
		}

		h[key] = append(h[key], value)
	}
}

// Keys returns the sorted metric names.
func (h History) Keys() []string {
	keys := make([]string, 0, len(h))

	for k := range h {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Epochs returns the number of recorded epochs.
func (h History) Epochs() int {
	return len(h["loss"])
}

// Best returns the 1-based epoch with the lowest value of key, or 0 if there is none.
func (h History) Best(key string) int {
	values := h[key]
	best := 0

	for i, v := range values {
		if best == 0 || v < values[best-1] {
			best = i + 1
		}
	}

	return best
}

// Save writes the history as JSON object.
func (h History) Save(fileName string) error {
	data, err := json.MarshalIndent(h, "", "  ")

	if err != nil {
		return fmt.Errorf("train: %s", err)
	}

	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return fmt.Errorf("train: %s", err)
	}

	if err := os.WriteFile(fileName, data, 0o644); err != nil {
		return fmt.Errorf("train: %s", err)
	}

	return nil
}

// ReadHistory reads a history file written by Save.
func ReadHistory(fileName string) (History, error) {
	data, err := os.ReadFile(fileName)

	if err != nil {
		return nil, fmt.Errorf("train: %s", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("train: invalid history %s", filepath.Base(fileName))
	}

	result := gjson.ParseBytes(data)

	if !result.IsObject() {
		return nil, fmt.Errorf("train: invalid history %s", filepath.Base(fileName))
	}

	h := make(History)

	result.ForEach(func(key, value gjson.Result) bool {
		values := make([]float64, 0, len(value.Array()))

		for _, v := range value.Array() {
			values = append(values, v.Float())
		}

		h[key.String()] = values

		return true
	})

	return h, nil
}

// Result returns the scores of the epoch with the lowest validation loss.
// Gender and age metrics are found by their output name prefix.
func (h History) Result(fold int) (res Result, err error) {
	best := h.Best("val_loss")

	if best == 0 {
		return res, fmt.Errorf("train: history of fold %d has no val_loss", fold)
	}

	res = Result{Fold: fold, BestEpoch: best, ValLoss: h["val_loss"][best-1], History: h}

	for key, values := range h {
		if len(values) < best || strings.HasSuffix(key, "_loss") {
			continue
		}

		switch {
		case strings.HasPrefix(key, "val_"+nets.GenderOutput+"_"):
			res.ValGender = values[best-1]
		case strings.HasPrefix(key, "val_"+nets.AgeOutput+"_"):
			res.ValAge = values[best-1]
		}
	}

	return res, nil
}
