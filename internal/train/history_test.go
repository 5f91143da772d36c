package train

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoprism/agender/internal/nets"
)

func TestHistory(t *testing.T) {
	h := make(History)

	h.Append(nets.Scores{"loss": 3}, false)
	h.Append(nets.Scores{"loss": 2.5, "gender_prediction_acc": 0.6}, true)
	h.Append(nets.Scores{"loss": 2}, false)
	h.Append(nets.Scores{"loss": 2.75, "gender_prediction_acc": 0.7}, true)

	assert.Equal(t, 2, h.Epochs())
	assert.Equal(t, []string{"loss", "val_gender_prediction_acc", "val_loss"}, h.Keys())
	assert.Equal(t, []float64{2.5, 2.75}, h["val_loss"])
	assert.Equal(t, 1, h.Best("val_loss"))
	assert.Equal(t, 2, h.Best("loss"))
	assert.Equal(t, 0, h.Best("missing"))

	t.Run("save and read", func(t *testing.T) {
		fileName := filepath.Join(t.TempDir(), "history", HistoryName(4))
		require.NoError(t, h.Save(fileName))
		assert.Equal(t, "fold4_p2.json", filepath.Base(fileName))

		read, err := ReadHistory(fileName)
		require.NoError(t, err)
		assert.Equal(t, h, read)
	})
	t.Run("invalid", func(t *testing.T) {
		fileName := filepath.Join(t.TempDir(), "invalid.json")
		require.NoError(t, os.WriteFile(fileName, []byte("[1, 2"), 0o644))

		_, err := ReadHistory(fileName)
		assert.EqualError(t, err, "train: invalid history invalid.json")
	})
}

func TestHistory_Result(t *testing.T) {
	h := History{
		"loss":                      {3, 2, 1},
		"val_loss":                  {2.5, 2.25, 2.75},
		"val_age_prediction_loss":   {2, 1.5, 2},
		"val_age_prediction_mae":    {9, 8, 7},
		"val_gender_prediction_acc": {0.6, 0.7, 0.8},
	}

	res, err := h.Result(3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Fold)
	assert.Equal(t, 2, res.BestEpoch)
	assert.Equal(t, 2.25, res.ValLoss)
	assert.Equal(t, 8.0, res.ValAge)
	assert.Equal(t, 0.7, res.ValGender)

	_, err = History{"loss": {1}}.Result(1)
	assert.EqualError(t, err, "train: history of fold 1 has no val_loss")
}

func TestHistoryFiles(t *testing.T) {
	dir := t.TempDir()

	for _, fold := range []int{2, 10, 1} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryName(fold)), []byte("{}"), 0644))
	}

	files, err := HistoryFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "fold1_p2.json", filepath.Base(files[0]))
	assert.Equal(t, "fold2_p2.json", filepath.Base(files[1]))
	assert.Equal(t, "fold10_p2.json", filepath.Base(files[2]))

	assert.Equal(t, 10, HistoryFold(files[2]))
	assert.Equal(t, 0, HistoryFold("summary.json"))
}
