package nets

import (
	"fmt"
	"io"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Grid is the number of pooling cells per image side.
const Grid = 8

// LinearNet maps average-pooled image features to both heads with one
// dense layer each. It is small enough to train on a CPU in trial runs.
type LinearNet struct {
	mu       sync.Mutex
	kind     Kind
	replicas int
	features int
	age      *mat.Dense
	gender   *mat.Dense
}

// NewLinearNet returns a zero initialized network for the given kind.
func NewLinearNet(k Kind, opt Options) *LinearNet {
	features := Grid*Grid*3 + 1

	ageRows, genderRows := 1, 1

	if k.Categorical() {
		ageRows, genderRows = AgeClasses, GenderClasses
	}

	replicas := opt.Replicas

	if replicas < 1 {
		replicas = 1
	}

	return &LinearNet{
		kind:     k,
		replicas: replicas,
		features: features,
		age:      mat.NewDense(ageRows, features, nil),
		gender:   mat.NewDense(genderRows, features, nil),
	}
}

// Kind returns the model kind.
func (n *LinearNet) Kind() Kind {
	return n.kind
}

// Replicas returns the number of data-parallel replicas the network was configured with.
func (n *LinearNet) Replicas() int {
	return n.replicas
}

// inputs pools every HWC tensor into a Grid x Grid x 3 feature row with a trailing bias.
func (n *LinearNet) inputs(pixels [][]float32) (*mat.Dense, error) {
	if len(pixels) == 0 {
		return nil, fmt.Errorf("nets: empty batch")
	}

	size := n.kind.InputSize()
	x := mat.NewDense(len(pixels), n.features, nil)

	for i, p := range pixels {
		if len(p) != size*size*3 {
			return nil, fmt.Errorf("nets: input %d has %d values, expected %d", i, len(p), size*size*3)
		}

		row := make([]float64, n.features)
		counts := make([]float64, Grid*Grid)

		for y := 0; y < size; y++ {
			gy := y * Grid / size

			for xx := 0; xx < size; xx++ {
				cell := gy*Grid + xx*Grid/size
				counts[cell]++

				for c := 0; c < 3; c++ {
					row[cell*3+c] += float64(p[(y*size+xx)*3+c])
				}
			}
		}

		for cell, count := range counts {
			if count == 0 {
				continue
			}

			for c := 0; c < 3; c++ {
				row[cell*3+c] /= count
			}
		}

		row[n.features-1] = 1

		x.SetRow(i, row)
	}

	return x, nil
}

// forward computes head outputs for the input rows.
func (n *LinearNet) forward(x *mat.Dense) (age, gender *mat.Dense) {
	rows, _ := x.Dims()

	age = mat.NewDense(rows, n.age.RawMatrix().Rows, nil)
	age.Mul(x, n.age.T())

	gender = mat.NewDense(rows, n.gender.RawMatrix().Rows, nil)
	gender.Mul(x, n.gender.T())

	if n.kind.Categorical() {
		softmax(age)
		softmax(gender)
	}

	return age, gender
}

// Predict returns head outputs for a batch of tensors.
func (n *LinearNet) Predict(pixels [][]float32) (Prediction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	x, err := n.inputs(pixels)

	if err != nil {
		return Prediction{}, err
	}

	age, gender := n.forward(x)

	return Prediction{Age: rows(age), Gender: rows(gender)}, nil
}

// EvalBatch scores a batch without updating weights.
func (n *LinearNet) EvalBatch(b Batch) (Scores, error) {
	p, err := n.Predict(b.Pixels)

	if err != nil {
		return nil, err
	}

	return Score(n.kind, b, p)
}

// TrainBatch scores a batch and performs one gradient descent step.
func (n *LinearNet) TrainBatch(b Batch, lr float64) (Scores, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	x, err := n.inputs(b.Pixels)

	if err != nil {
		return nil, err
	}

	age, gender := n.forward(x)

	scores, err := Score(n.kind, b, Prediction{Age: rows(age), Gender: rows(gender)})

	if err != nil {
		return nil, err
	}

	losses := n.kind.Losses()

	if err := n.step(n.age, x, age, b.Age, losses[AgeOutput], lr); err != nil {
		return nil, err
	}

	if err := n.step(n.gender, x, gender, b.Gender, losses[GenderOutput], lr); err != nil {
		return nil, err
	}

	return scores, nil
}

// step applies w -= lr * dZ^T x where dZ is the loss gradient with respect to the head logits.
func (n *LinearNet) step(w, x, out *mat.Dense, targets [][]float64, loss string, lr float64) error {
	r, c := out.Dims()

	if len(targets) != r {
		return fmt.Errorf("nets: %d targets for %d inputs", len(targets), r)
	}

	grad := mat.NewDense(r, c, nil)

	for i := 0; i < r; i++ {
		if len(targets[i]) != c {
			return fmt.Errorf("nets: target has %d values, expected %d", len(targets[i]), c)
		}

		for j := 0; j < c; j++ {
			d := out.At(i, j) - targets[i][j]

			switch loss {
			case LossCategoricalCrossEntropy:
				grad.Set(i, j, d/float64(r))
			case LossMeanAbsoluteError:
				grad.Set(i, j, sign(d)/float64(r*c))
			default:
				return fmt.Errorf("nets: unknown loss %q", loss)
			}
		}
	}

	var dw mat.Dense
	dw.Mul(grad.T(), x)
	dw.Scale(lr, &dw)
	w.Sub(w, &dw)

	return nil
}

// Save writes the weights of both heads.
func (n *LinearNet) Save(w io.Writer) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := n.age.MarshalBinaryTo(w); err != nil {
		return fmt.Errorf("nets: %s", err)
	}

	if _, err := n.gender.MarshalBinaryTo(w); err != nil {
		return fmt.Errorf("nets: %s", err)
	}

	return nil
}

// Load reads weights written by Save, the shapes must match the kind.
func (n *LinearNet) Load(r io.Reader) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var age, gender mat.Dense

	if _, err := age.UnmarshalBinaryFrom(r); err != nil {
		return fmt.Errorf("nets: %s", err)
	}

	if _, err := gender.UnmarshalBinaryFrom(r); err != nil {
		return fmt.Errorf("nets: %s", err)
	}

	if !sameShape(&age, n.age) || !sameShape(&gender, n.gender) {
		return fmt.Errorf("nets: weights do not match %s", n.kind.Name())
	}

	n.age.Copy(&age)
	n.gender.Copy(&gender)

	return nil
}

// Close is a no-op.
func (n *LinearNet) Close() error {
	return nil
}

func sameShape(a, b *mat.Dense) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()

	return ar == br && ac == bc
}

func softmax(m *mat.Dense) {
	r, c := m.Dims()

	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		hi := math.Inf(-1)

		for _, v := range row {
			hi = math.Max(hi, v)
		}

		var sum float64

		for j := 0; j < c; j++ {
			row[j] = math.Exp(row[j] - hi)
			sum += row[j]
		}

		for j := 0; j < c; j++ {
			row[j] /= sum
		}
	}
}

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	result := make([][]float64, r)

	for i := 0; i < r; i++ {
		result[i] = mat.Row(nil, i, m)
	}

	return result
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
