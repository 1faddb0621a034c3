package logic

import (
	"testing"
)

func TestLogisticRegressionSeparable(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {10}, {11}, {12}}
	y := []int{0, 0, 0, 1, 1, 1}

	m := NewLogisticRegression()
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	probs, err := m.PredictProbability([][]float64{{0}, {12}})
	if err != nil {
		t.Fatalf("PredictProbability: %v", err)
	}
	if probs[0] >= 0.5 {
		t.Errorf("p(negative example) = %v, want < 0.5", probs[0])
	}
	if probs[1] <= 0.5 {
		t.Errorf("p(positive example) = %v, want > 0.5", probs[1])
	}
	for i, p := range probs {
		if p < 0 || p > 1 {
			t.Errorf("probs[%d] = %v, outside [0,1]", i, p)
		}
	}
}

func TestLogisticRegressionConstantColumn(t *testing.T) {
	// A zero-variance column must not divide by zero during
	// standardization.
	x := [][]float64{{1, 0}, {1, 1}, {1, 9}, {1, 10}}
	y := []int{0, 0, 1, 1}

	m := NewLogisticRegression()
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	probs, err := m.PredictProbability(x)
	if err != nil {
		t.Fatalf("PredictProbability: %v", err)
	}
	if probs[0] >= probs[3] {
		t.Errorf("probabilities not ordered: %v", probs)
	}
}

func TestLogisticRegressionErrors(t *testing.T) {
	m := NewLogisticRegression()

	if err := m.Fit(nil, nil); err == nil {
		t.Error("Fit on empty set: expected error")
	}
	if err := m.Fit([][]float64{{1}}, []int{1, 0}); err == nil {
		t.Error("Fit with mismatched labels: expected error")
	}
	if err := m.Fit([][]float64{{1, 2}, {1}}, []int{1, 0}); err == nil {
		t.Error("Fit with ragged rows: expected error")
	}
	if _, err := m.PredictProbability([][]float64{{1}}); err == nil {
		t.Error("PredictProbability before Fit: expected error")
	}

	if err := m.Fit([][]float64{{0}, {1}}, []int{0, 1}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := m.PredictProbability([][]float64{{1, 2}}); err == nil {
		t.Error("PredictProbability with wrong width: expected error")
	}
}
