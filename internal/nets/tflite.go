//go:build TFLITE
// +build TFLITE

package nets

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/mattn/go-tflite"
	"github.com/mattn/go-tflite/delegates/xnnpack"
)

// TFLiteNet runs an exported age and gender model with the TensorFlow Lite interpreter.
type TFLiteNet struct {
	mu          sync.Mutex
	kind        Kind
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
	inFloats    []float32
	ageOut      int
	genderOut   int
}

// NewTFLite loads a .tflite model file for inference.
func NewTFLite(fileName string, k Kind, threads int) (Network, error) {
	if threads < 1 {
		threads = 1
	}

	log.Infof("nets: loading %s", fileName)

	model := tflite.NewModelFromFile(fileName)

	if model == nil {
		return nil, fmt.Errorf("nets: failed loading model %s", fileName)
	}

	options := tflite.NewInterpreterOptions()
	options.AddDelegate(xnnpack.New(xnnpack.DelegateOptions{NumThreads: int32(threads)}))
	options.SetNumThread(threads)
	options.SetErrorReporter(func(msg string, _ interface{}) {
		log.Warnf("nets: %s", msg)
	}, nil)

	interpreter := tflite.NewInterpreter(model, options)

	if interpreter == nil {
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("nets: failed creating interpreter, stack: %s", debug.Stack())
	}

	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("nets: failed allocating tensors")
	}

	n := &TFLiteNet{kind: k, model: model, options: options, interpreter: interpreter, genderOut: 0, ageOut: 1}

	input := interpreter.GetInputTensor(0)

	if input.Type() != tflite.Float32 {
		_ = n.Close()
		return nil, fmt.Errorf("nets: model input must be float32")
	}

	h, w, c := input.Dim(1), input.Dim(2), input.Dim(3)

	if h != k.InputSize() || w != k.InputSize() || c != 3 {
		_ = n.Close()
		return nil, fmt.Errorf("nets: model input is %dx%dx%d, %s expects %dx%dx3", w, h, c, k.Name(), k.InputSize(), k.InputSize())
	}

	n.inFloats = make([]float32, h*w*c)

	if interpreter.GetOutputTensorCount() < 2 {
		_ = n.Close()
		return nil, fmt.Errorf("nets: model must have gender and age outputs")
	}

	// Prefer tensor names, fall back to [gender, age] order.
	for i := 0; i < 2; i++ {
		name := strings.ToLower(interpreter.GetOutputTensor(i).Name())

		if strings.Contains(name, "age") {
			n.ageOut, n.genderOut = i, 1-i
			break
		} else if strings.Contains(name, "gender") {
			n.genderOut, n.ageOut = i, 1-i
			break
		}
	}

	return n, nil
}

// Kind returns the model kind.
func (n *TFLiteNet) Kind() Kind {
	return n.kind
}

// Replicas returns 1, inference runs on a single interpreter.
func (n *TFLiteNet) Replicas() int {
	return 1
}

// Predict runs inference on every tensor.
func (n *TFLiteNet) Predict(pixels [][]float32) (result Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("nets: %s (inference panic)\nstack: %s", r, debug.Stack())
		}
	}()

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.interpreter == nil {
		return result, fmt.Errorf("nets: model closed")
	}

	for i, p := range pixels {
		if len(p) != len(n.inFloats) {
			return result, fmt.Errorf("nets: input %d has %d values, expected %d", i, len(p), len(n.inFloats))
		}

		copy(n.interpreter.GetInputTensor(0).Float32s(), p)

		if status := n.interpreter.Invoke(); status != tflite.OK {
			return result, fmt.Errorf("nets: inference failed")
		}

		result.Gender = append(result.Gender, toFloat64(n.interpreter.GetOutputTensor(n.genderOut).Float32s()))
		result.Age = append(result.Age, toFloat64(n.interpreter.GetOutputTensor(n.ageOut).Float32s()))
	}

	return result, nil
}

// EvalBatch scores a batch.
func (n *TFLiteNet) EvalBatch(b Batch) (Scores, error) {
	p, err := n.Predict(b.Pixels)

	if err != nil {
		return nil, err
	}

	return Score(n.kind, b, p)
}

// TrainBatch is not supported by exported models.
func (n *TFLiteNet) TrainBatch(b Batch, lr float64) (Scores, error) {
	return nil, fmt.Errorf("nets: tflite models are inference only")
}

// Save is not supported by exported models.
func (n *TFLiteNet) Save(w io.Writer) error {
	return fmt.Errorf("nets: tflite models are inference only")
}

// Load is not supported, use NewTFLite.
func (n *TFLiteNet) Load(r io.Reader) error {
	return fmt.Errorf("nets: tflite models are loaded by file name")
}

// Close releases the interpreter.
func (n *TFLiteNet) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.interpreter != nil {
		n.interpreter.Delete()
		n.interpreter = nil
	}

	if n.options != nil {
		n.options.Delete()
		n.options = nil
	}

	if n.model != nil {
		n.model.Delete()
		n.model = nil
	}

	return nil
}

func toFloat64(v []float32) []float64 {
	result := make([]float64, len(v))

	for i := range v {
		result[i] = float64(v[i])
	}

	return result
}
