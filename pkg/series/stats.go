package series

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of the non-missing values of s,
// or missing when none are present.
func Mean(s []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range s {
		if IsMissing(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return Missing()
	}
	return sum / float64(n)
}

// Std returns the population standard deviation of the non-missing values
// of s, or missing when none are present.
func Std(s []float64) float64 {
	mean := Mean(s)
	if IsMissing(mean) {
		return Missing()
	}
	sum, n := 0.0, 0
	for _, v := range s {
		if IsMissing(v) {
			continue
		}
		d := v - mean
		sum += d * d
		n++
	}
	return math.Sqrt(sum / float64(n))
}

// Median returns the median of the non-missing values of s.
func Median(s []float64) float64 {
	return Quantile(s, 0.5)
}

// Quantile returns the q-quantile (0 <= q <= 1) of the non-missing values
// of s using linear interpolation between order statistics.
func Quantile(s []float64, q float64) float64 {
	vals := DropMissing(s)
	if len(vals) == 0 {
		return Missing()
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// IQR returns the interquartile range (Q3 - Q1) of the non-missing values.
func IQR(s []float64) float64 {
	q1 := Quantile(s, 0.25)
	q3 := Quantile(s, 0.75)
	if IsMissing(q1) || IsMissing(q3) {
		return Missing()
	}
	return q3 - q1
}
