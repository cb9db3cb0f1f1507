// Package series provides NaN-aware vector math over per-period values.
//
// Every function treats math.NaN() as the explicit missing-value marker:
// missing inputs propagate to missing outputs and never panic. This is the
// numeric foundation for statement normalization, ratio derivation, and the
// anomaly rules.
package series

import "math"

// Missing returns the missing-value marker.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// SafeDivide divides element-wise with zero/missing protection.
// Result is missing wherever the denominator is zero or missing, or the
// quotient is not finite.
func SafeDivide(num, den []float64) []float64 {
	out := make([]float64, len(num))
	for i := range num {
		out[i] = SafeRatio(num[i], den[i])
	}
	return out
}

// SafeRatio divides two scalars with zero/missing protection.
func SafeRatio(num, den float64) float64 {
	if IsMissing(num) || IsMissing(den) || den == 0 {
		return Missing()
	}
	v := num / den
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Missing()
	}
	return v
}

// RollingAverage returns the average of the current and previous period.
// The first period (or any period whose predecessor is missing) falls back
// to the current value itself.
func RollingAverage(s []float64) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		prev := Missing()
		if i > 0 {
			prev = s[i-1]
		}
		if IsMissing(prev) {
			prev = s[i]
		}
		out[i] = (s[i] + prev) / 2
	}
	return out
}

// PctChange returns the period-over-period relative change.
// The first period is always missing; so is any period whose prior value is
// zero or missing.
func PctChange(s []float64) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		if i == 0 {
			out[i] = Missing()
			continue
		}
		out[i] = SafeRatio(s[i]-s[i-1], s[i-1])
	}
	return out
}

// Diff returns the period-over-period absolute change, missing for the first
// period.
func Diff(s []float64) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		if i == 0 {
			out[i] = Missing()
			continue
		}
		out[i] = s[i] - s[i-1]
	}
	return out
}

// ClipLower replaces values below lo with lo; missing values stay missing.
func ClipLower(s []float64, lo float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		if !IsMissing(v) && v < lo {
			v = lo
		}
		out[i] = v
	}
	return out
}

// FillMissing replaces missing values with the given fill value.
func FillMissing(s []float64, fill float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		if IsMissing(v) {
			v = fill
		}
		out[i] = v
	}
	return out
}

// Add sums series element-wise; missing inputs propagate.
func Add(series ...[]float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series[0]))
	for i := range out {
		sum := 0.0
		for _, s := range series {
			sum += s[i]
		}
		out[i] = sum
	}
	return out
}

// Sub subtracts b from a element-wise; missing inputs propagate.
func Sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Mul multiplies series element-wise; missing inputs propagate.
func Mul(series ...[]float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series[0]))
	for i := range out {
		prod := 1.0
		for _, s := range series {
			prod *= s[i]
		}
		out[i] = prod
	}
	return out
}

// DropMissing returns the non-missing values of s in order.
func DropMissing(s []float64) []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// Tail returns the last n elements of s (all of s when n >= len).
func Tail(s []float64, n int) []float64 {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
