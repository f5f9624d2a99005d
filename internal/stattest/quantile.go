package stattest

import (
	"math"
	"sort"

	"edakit/domain/core"
)

// Quantile returns the q-th quantile of an ascending sample using linear
// interpolation between order statistics at h = (n-1)q.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * q
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Quartiles returns Q1 and Q3 of the non-missing values of x
func Quartiles(x []float64) (q1, q3 float64, err error) {
	values := DropNaN(x)
	if len(values) == 0 {
		return math.NaN(), math.NaN(), core.NewDegenerateInputError("quartiles of an empty sample")
	}
	sort.Float64s(values)
	return Quantile(values, 0.25), Quantile(values, 0.75), nil
}
