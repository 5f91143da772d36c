package nets

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Loss names.
const (
	LossCategoricalCrossEntropy = "categorical_crossentropy"
	LossMeanAbsoluteError       = "mae"
)

// Metric names as they appear in history keys.
const (
	MetricAgeMAE            = "mae"
	MetricAccuracy          = "acc"
	MetricMeanAbsoluteError = "mean_absolute_error"
	MetricBinaryAccuracy    = "binary_accuracy"
)

// Epsilon clips probabilities before taking logarithms.
const Epsilon = 1e-7

// SampleFunc scores one prediction against its target.
type SampleFunc func(yTrue, yPred []float64) float64

// LossFuncs maps loss names to per-sample functions.
var LossFuncs = map[string]SampleFunc{
	LossCategoricalCrossEntropy: CategoricalCrossEntropy,
	LossMeanAbsoluteError:       MeanAbsoluteError,
}

// MetricFuncs maps metric names to per-sample functions.
var MetricFuncs = map[string]SampleFunc{
	MetricAgeMAE:            ExpectedAgeError,
	MetricAccuracy:          CategoricalAccuracy,
	MetricMeanAbsoluteError: MeanAbsoluteError,
	MetricBinaryAccuracy:    BinaryAccuracy,
}

// CategoricalCrossEntropy returns -sum(t * log(p)).
func CategoricalCrossEntropy(yTrue, yPred []float64) float64 {
	var sum float64

	for i, t := range yTrue {
		if t == 0 {
			continue
		}

		p := math.Min(math.Max(yPred[i], Epsilon), 1-Epsilon)
		sum -= t * math.Log(p)
	}

	return sum
}

// MeanAbsoluteError returns mean(|t - p|).
func MeanAbsoluteError(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}

	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue))
}

// ExpectedAge returns the expectation of a distribution over age classes 0..n-1.
func ExpectedAge(p []float64) float64 {
	var sum float64

	for i, v := range p {
		sum += float64(i) * v
	}

	return sum
}

// ExpectedAgeError compares the expected ages of the predicted and the true distribution.
func ExpectedAgeError(yTrue, yPred []float64) float64 {
	return math.Abs(ExpectedAge(yPred) - ExpectedAge(yTrue))
}

// CategoricalAccuracy returns 1 if the argmax of prediction and target match.
func CategoricalAccuracy(yTrue, yPred []float64) float64 {
	if Argmax(yTrue) == Argmax(yPred) {
		return 1
	}

	return 0
}

// BinaryAccuracy returns the fraction of values where the prediction rounded at 0.5 equals the target.
func BinaryAccuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}

	var hits float64

	for i, t := range yTrue {
		p := 0.0

		if yPred[i] > 0.5 {
			p = 1
		}

		if p == t {
			hits++
		}
	}

	return hits / float64(len(yTrue))
}

// Mean applies f to every row pair and returns the average.
func Mean(f SampleFunc, yTrue, yPred [][]float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("nets: %d targets but %d predictions", len(yTrue), len(yPred))
	}

	if len(yTrue) == 0 {
		return 0, fmt.Errorf("nets: empty batch")
	}

	values := make([]float64, len(yTrue))

	for i := range yTrue {
		if len(yTrue[i]) != len(yPred[i]) {
			return 0, fmt.Errorf("nets: target has %d values but prediction %d", len(yTrue[i]), len(yPred[i]))
		}

		values[i] = f(yTrue[i], yPred[i])
	}

	return floats.Sum(values) / float64(len(values)), nil
}
