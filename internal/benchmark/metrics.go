package benchmark

import (
	"fmt"
)

// GenderAccuracy returns the fraction of exact matches between predicted and true gender codes.
func GenderAccuracy(predicted, truth []int) (float64, error) {
	if err := check(predicted, truth); err != nil {
		return 0, err
	}

	hits := 0

	for i := range predicted {
		if predicted[i] == truth[i] {
			hits++
		}
	}

	return float64(hits) / float64(len(predicted)), nil
}

// AgeMAE returns the mean absolute difference between predicted and true ages.
func AgeMAE(predicted, truth []int) (float64, error) {
	if err := check(predicted, truth); err != nil {
		return 0, err
	}

	sum := 0

	for i := range predicted {
		if d := predicted[i] - truth[i]; d < 0 {
			sum -= d
		} else {
			sum += d
		}
	}

	return float64(sum) / float64(len(predicted)), nil
}

func check(predicted, truth []int) error {
	if len(predicted) != len(truth) {
		return fmt.Errorf("benchmark: %d predictions but %d labels", len(predicted), len(truth))
	} else if len(predicted) == 0 {
		return fmt.Errorf("benchmark: nothing to evaluate")
	}

	return nil
}
