package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFold_Split(t *testing.T) {
	for _, n := range []int{10, 11, 23, 100, 1003} {
		folds, err := NewKFold(DefaultSeed).Split(n)
		require.NoError(t, err)
		require.Len(t, folds, DefaultSplits)

		seen := make([]int, n)

		for i, f := range folds {
			assert.Equal(t, i+1, f.Number)
			assert.Equal(t, n, len(f.Train)+len(f.Test))

			size := n / DefaultSplits
			if i < n%DefaultSplits {
				size++
			}
			assert.Len(t, f.Test, size)

			inTest := make(map[int]bool)
			for _, j := range f.Test {
				seen[j]++
				inTest[j] = true
			}

			for _, j := range f.Train {
				assert.False(t, inTest[j], "index %d in train and test", j)
			}

			assert.IsIncreasing(t, f.Test)
			assert.IsIncreasing(t, f.Train)
		}

		for j, c := range seen {
			assert.Equal(t, 1, c, "index %d tested %d times", j, c)
		}
	}

	t.Run("same seed same folds", func(t *testing.T) {
		a, err := NewKFold(1).Split(50)
		require.NoError(t, err)
		b, err := NewKFold(1).Split(50)
		require.NoError(t, err)
		c, err := NewKFold(2).Split(50)
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.NotEqual(t, a, c)
	})

	t.Run("no shuffle", func(t *testing.T) {
		folds, err := KFold{Splits: 2}.Split(4)
		require.NoError(t, err)

		assert.Equal(t, []int{0, 1}, folds[0].Test)
		assert.Equal(t, []int{2, 3}, folds[0].Train)
	})

	t.Run("too few samples", func(t *testing.T) {
		_, err := NewKFold(1).Split(9)
		assert.Error(t, err)
	})
}
