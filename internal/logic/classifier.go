package logic

import (
	"errors"
	"fmt"
	"math"
)

// Classifier is the model-fitting capability the learned predictor
// consumes: fit on a numeric feature matrix with binary labels, then score
// new rows with a probability of the positive class.
type Classifier interface {
	Fit(x [][]float64, y []int) error
	PredictProbability(x [][]float64) ([]float64, error)
}

var errNotFitted = errors.New("classifier not fitted")

// LogisticRegression is a batch gradient-descent logistic model over
// standardized features. It is deliberately plain: the pipeline only needs
// the fit/predict contract, not a particular algorithm.
type LogisticRegression struct {
	LearningRate float64
	Iterations   int

	weights []float64
	bias    float64
	means   []float64
	scales  []float64
}

// NewLogisticRegression returns a model with default training settings.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		LearningRate: 0.1,
		Iterations:   1000,
	}
}

// Fit trains on x with labels y, where y values are 1 (positive) or
// anything else (negative). Columns are standardized to zero mean and unit
// variance before descent; constant columns keep scale one.
func (m *LogisticRegression) Fit(x [][]float64, y []int) error {
	if len(x) == 0 {
		return errors.New("empty training set")
	}
	if len(x) != len(y) {
		return fmt.Errorf("feature rows %d != labels %d", len(x), len(y))
	}
	cols := len(x[0])
	for i, row := range x {
		if len(row) != cols {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), cols)
		}
	}

	m.means, m.scales = columnStats(x)
	z := make([][]float64, len(x))
	for i, row := range x {
		z[i] = m.standardize(row)
	}

	m.weights = make([]float64, cols)
	m.bias = 0
	n := float64(len(z))

	for iter := 0; iter < m.Iterations; iter++ {
		gradW := make([]float64, cols)
		gradB := 0.0
		for i, row := range z {
			p := sigmoid(dot(m.weights, row) + m.bias)
			target := 0.0
			if y[i] == 1 {
				target = 1
			}
			diff := p - target
			for j, v := range row {
				gradW[j] += diff * v
			}
			gradB += diff
		}
		for j := range m.weights {
			m.weights[j] -= m.LearningRate * gradW[j] / n
		}
		m.bias -= m.LearningRate * gradB / n
	}
	return nil
}

// PredictProbability scores each row with the fitted model.
func (m *LogisticRegression) PredictProbability(x [][]float64) ([]float64, error) {
	if m.weights == nil {
		return nil, errNotFitted
	}
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != len(m.weights) {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), len(m.weights))
		}
		out[i] = sigmoid(dot(m.weights, m.standardize(row)) + m.bias)
	}
	return out, nil
}

func (m *LogisticRegression) standardize(row []float64) []float64 {
	z := make([]float64, len(row))
	for j, v := range row {
		z[j] = (v - m.means[j]) / m.scales[j]
	}
	return z
}

func columnStats(x [][]float64) (means, scales []float64) {
	cols := len(x[0])
	means = make([]float64, cols)
	scales = make([]float64, cols)
	n := float64(len(x))
	for _, row := range x {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= n
	}
	for _, row := range x {
		for j, v := range row {
			d := v - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / n)
		if scales[j] == 0 {
			scales[j] = 1
		}
	}
	return means, scales
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
