package series

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeanStd(t *testing.T) {
	s := []float64{2, 4, math.NaN(), 6}

	if got := Mean(s); !almostEqual(got, 4) {
		t.Errorf("Mean = %v, want 4", got)
	}

	// Population std of {2,4,6}
	if got := Std(s); !almostEqual(got, math.Sqrt(8.0/3.0)) {
		t.Errorf("Std = %v", got)
	}

	if !IsMissing(Mean([]float64{math.NaN()})) {
		t.Error("Mean of all-missing should be missing")
	}
}

func TestQuantile(t *testing.T) {
	s := []float64{1, 2, 3, 4}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}

	for _, tt := range tests {
		if got := Quantile(s, tt.q); !almostEqual(got, tt.want) {
			t.Errorf("Quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}

	if got := Quantile([]float64{7}, 0.5); got != 7 {
		t.Errorf("Quantile single = %v, want 7", got)
	}

	if !IsMissing(Quantile(nil, 0.5)) {
		t.Error("Quantile of empty should be missing")
	}
}

func TestMedianIQR(t *testing.T) {
	s := []float64{1, math.NaN(), 2, 3, 4}

	if got := Median(s); !almostEqual(got, 2.5) {
		t.Errorf("Median = %v, want 2.5", got)
	}

	if got := IQR(s); !almostEqual(got, 1.5) {
		t.Errorf("IQR = %v, want 1.5", got)
	}
}
