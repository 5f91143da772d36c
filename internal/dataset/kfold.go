package dataset

import (
	"fmt"
	"math/rand"
	"sort"
)

// DefaultSplits is the number of cross-validation folds.
const DefaultSplits = 10

// DefaultSeed makes fold splits reproducible across runs.
const DefaultSeed = 1

// Fold is one train/test partition of row indices. Number starts at 1.
type Fold struct {
	Number int
	Train  []int
	Test   []int
}

// KFold partitions row indices into Splits folds.
type KFold struct {
	Splits  int
	Shuffle bool
	Seed    int64
}

// NewKFold returns the default shuffled 10-fold splitter.
func NewKFold(seed int64) KFold {
	return KFold{Splits: DefaultSplits, Shuffle: true, Seed: seed}
}

// Split partitions 0..n-1. The first n % Splits folds hold one extra test row.
// Test sets are pairwise disjoint and cover every index exactly once.
func (k KFold) Split(n int) ([]Fold, error) {
	if k.Splits < 2 {
		return nil, fmt.Errorf("kfold: need at least 2 splits, got %d", k.Splits)
	}

	if n < k.Splits {
		return nil, fmt.Errorf("kfold: cannot split %d samples into %d folds", n, k.Splits)
	}

	indices := make([]int, n)

	for i := range indices {
		indices[i] = i
	}

	if k.Shuffle {
		rnd := rand.New(rand.NewSource(k.Seed))
		rnd.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
	}

	folds := make([]Fold, k.Splits)
	start := 0

	for f := 0; f < k.Splits; f++ {
		size := n / k.Splits

		if f < n%k.Splits {
			size++
		}

		test := append([]int(nil), indices[start:start+size]...)
		sort.Ints(test)

		inTest := make(map[int]bool, len(test))

		for _, i := range test {
			inTest[i] = true
		}

		train := make([]int, 0, n-size)

		for i := 0; i < n; i++ {
			if !inTest[i] {
				train = append(train, i)
			}
		}

		folds[f] = Fold{Number: f + 1, Train: train, Test: test}
		start += size
	}

	return folds, nil
}
