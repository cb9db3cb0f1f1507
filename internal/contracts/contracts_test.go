package contracts

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"finite", Value(1.5), "1.5"},
		{"missing", MissingValue(), "null"},
		{"infinity", Value(math.Inf(1)), "null"},
		{"zero", Value(0), "0"},
	}

	for _, tt := range tests {
		got, err := json.Marshal(tt.v)
		if err != nil {
			t.Fatalf("%s: marshal error: %v", tt.name, err)
		}
		if string(got) != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestValueUnmarshalJSON(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte("null"), &v); err != nil {
		t.Fatal(err)
	}
	if !v.IsMissing() {
		t.Error("null should unmarshal to missing")
	}

	if err := json.Unmarshal([]byte("2.25"), &v); err != nil {
		t.Fatal(err)
	}
	if v.Float() != 2.25 {
		t.Errorf("got %v, want 2.25", v.Float())
	}
}

func TestDatasetColumnFallback(t *testing.T) {
	dates := []time.Time{
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	d := NewDataset("600519", dates)

	d.Set(KeyRevenue, []float64{100, 120})
	if got := d.Latest(KeyRevenue); got != 120 {
		t.Errorf("Latest = %v, want 120", got)
	}

	// Missing column reads as all-missing, never panics
	col := d.Column(KeyDepreciation)
	if len(col) != 2 || !math.IsNaN(col[0]) {
		t.Errorf("absent column should be all-missing, got %v", col)
	}

	// Misaligned column is dropped
	d.Set(KeyNetProfit, []float64{1})
	if d.Has(KeyNetProfit) {
		t.Error("length-mismatched column must not be stored")
	}

	if !math.IsNaN(d.Value(KeyRevenue, 5)) {
		t.Error("out-of-range value should be missing")
	}
}

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()

	if th.GrowthHigh != 0.30 {
		t.Errorf("GrowthHigh = %v", th.GrowthHigh)
	}
	if th.CurrentRatioFloor != 1.0 {
		t.Errorf("CurrentRatioFloor = %v", th.CurrentRatioFloor)
	}
	if th.OCFProfitFloor != 0.8 {
		t.Errorf("OCFProfitFloor = %v", th.OCFProfitFloor)
	}
	if th.TurnoverDaysJump != 30 {
		t.Errorf("TurnoverDaysJump = %v", th.TurnoverDaysJump)
	}
}
