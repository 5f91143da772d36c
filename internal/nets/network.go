package nets

import (
	"fmt"
	"io"
	"sort"
)

// Batch contains input tensors and encoded targets for one step.
type Batch struct {
	Pixels [][]float32
	Age    [][]float64
	Gender [][]float64
}

// Len returns the number of samples in the batch.
func (b Batch) Len() int {
	return len(b.Pixels)
}

// Prediction contains raw head outputs, one row per input.
type Prediction struct {
	Age    [][]float64
	Gender [][]float64
}

// Scores maps history keys without the "val_" prefix to values, e.g. "loss" or "gender_prediction_acc".
type Scores map[string]float64

// Keys returns the sorted score keys.
func (s Scores) Keys() []string {
	keys := make([]string, 0, len(s))

	for k := range s {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Network is a trainable age and gender model.
type Network interface {
	Kind() Kind
	Replicas() int
	TrainBatch(b Batch, lr float64) (Scores, error)
	EvalBatch(b Batch) (Scores, error)
	Predict(pixels [][]float32) (Prediction, error)
	Save(w io.Writer) error
	Load(r io.Reader) error
	Close() error
}

// Score computes the total loss plus per-output losses and metrics of a prediction.
func Score(k Kind, b Batch, p Prediction) (Scores, error) {
	result := make(Scores)
	losses := k.Losses()
	metrics := k.Metrics()

	targets := map[string][][]float64{AgeOutput: b.Age, GenderOutput: b.Gender}
	outputs := map[string][][]float64{AgeOutput: p.Age, GenderOutput: p.Gender}

	var total float64

	for _, out := range OutputNames {
		lossFunc, ok := LossFuncs[losses[out]]

		if !ok {
			return nil, fmt.Errorf("nets: unknown loss %q", losses[out])
		}

		loss, err := Mean(lossFunc, targets[out], outputs[out])

		if err != nil {
			return nil, err
		}

		metricFunc, ok := MetricFuncs[metrics[out]]

		if !ok {
			return nil, fmt.Errorf("nets: unknown metric %q", metrics[out])
		}

		metric, err := Mean(metricFunc, targets[out], outputs[out])

		if err != nil {
			return nil, err
		}

		total += loss
		result[LossKey(out, false)] = loss
		result[MetricKey(out, metrics[out], false)] = metric
	}

	result["loss"] = total

	return result, nil
}
