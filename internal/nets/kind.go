package nets

import (
	"fmt"
	"sort"
	"strings"
)

// Output names.
const (
	AgeOutput    = "age_prediction"
	GenderOutput = "gender_prediction"
)

// OutputNames lists the network heads in history order.
var OutputNames = []string{AgeOutput, GenderOutput}

// Age and gender class counts of categorical models.
const (
	AgeClasses    = 101
	GenderClasses = 2
)

// Options configure a new network instance.
type Options struct {
	Replicas int
}

// Kind describes a model architecture: its input resolution, label encoding,
// loss and metric configuration, and how to build a network for training.
type Kind interface {
	Name() string
	InputSize() int
	Categorical() bool
	Losses() map[string]string
	Metrics() map[string]string
	LearningRate(base float64, epoch int) float64
	New(opt Options) (Network, error)
}

// Kinds contains all supported model kinds.
var Kinds = map[string]Kind{
	"vgg16":       Classifier{name: "vgg16", size: 140},
	"inceptionv3": Classifier{name: "inceptionv3", size: 140},
	"xception":    Classifier{name: "xception", size: 140},
	"mobilenetv2": Classifier{name: "mobilenetv2", size: 140},
	"ssrnet":      SSRNet{size: 64, decay: []int{30, 60}, factor: 0.1},
}

// KindNames returns the sorted names of all supported model kinds.
func KindNames() []string {
	names := make([]string, 0, len(Kinds))

	for name := range Kinds {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ParseKind returns the model kind with the given name.
func ParseKind(name string) (Kind, error) {
	if k, ok := Kinds[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}

	return nil, fmt.Errorf("unknown model %q, choose one of %s", name, strings.Join(KindNames(), ", "))
}

// MetricKey returns the history key of an output metric, e.g. "val_age_prediction_mae".
func MetricKey(output, metric string, validation bool) string {
	key := output + "_" + metric

	if validation {
		return "val_" + key
	}

	return key
}

// LossKey returns the history key of an output loss.
func LossKey(output string, validation bool) string {
	return MetricKey(output, "loss", validation)
}

// Classifier predicts 101 age classes and 2 gender classes with softmax heads.
type Classifier struct {
	name string
	size int
}

func (k Classifier) Name() string {
	return k.name
}

func (k Classifier) InputSize() int {
	return k.size
}

func (k Classifier) Categorical() bool {
	return true
}

func (k Classifier) Losses() map[string]string {
	return map[string]string{
		AgeOutput:    LossCategoricalCrossEntropy,
		GenderOutput: LossCategoricalCrossEntropy,
	}
}

func (k Classifier) Metrics() map[string]string {
	return map[string]string{
		AgeOutput:    MetricAgeMAE,
		GenderOutput: MetricAccuracy,
	}
}

func (k Classifier) LearningRate(base float64, epoch int) float64 {
	return base
}

func (k Classifier) New(opt Options) (Network, error) {
	return NewLinearNet(k, opt), nil
}

// SSRNet regresses age and gender directly and decays the learning rate at fixed epochs.
type SSRNet struct {
	size   int
	decay  []int
	factor float64
}

func (k SSRNet) Name() string {
	return "ssrnet"
}

func (k SSRNet) InputSize() int {
	return k.size
}

func (k SSRNet) Categorical() bool {
	return false
}

func (k SSRNet) Losses() map[string]string {
	return map[string]string{
		AgeOutput:    LossMeanAbsoluteError,
		GenderOutput: LossMeanAbsoluteError,
	}
}

func (k SSRNet) Metrics() map[string]string {
	return map[string]string{
		AgeOutput:    MetricMeanAbsoluteError,
		GenderOutput: MetricBinaryAccuracy,
	}
}

// LearningRate multiplies base by factor once for every decay epoch reached. Epochs start at 1.
func (k SSRNet) LearningRate(base float64, epoch int) float64 {
	lr := base

	for _, e := range k.decay {
		if epoch > e {
			lr *= k.factor
		}
	}

	return lr
}

func (k SSRNet) New(opt Options) (Network, error) {
	return NewLinearNet(k, opt), nil
}
