package stattest

import (
	"math"

	"edakit/domain/core"

	"gonum.org/v1/gonum/stat"
)

// CorrelationResult holds a correlation coefficient and its two-sided p-value
type CorrelationResult struct {
	R      float64
	PValue float64
	N      int
}

// Pearson computes the linear correlation coefficient of x and y
func Pearson(x, y []float64) (CorrelationResult, error) {
	if err := checkPaired(x, y); err != nil {
		return CorrelationResult{}, err
	}
	return correlate(x, y)
}

// Spearman computes the rank correlation coefficient of x and y
func Spearman(x, y []float64) (CorrelationResult, error) {
	if err := checkPaired(x, y); err != nil {
		return CorrelationResult{}, err
	}
	return correlate(Rank(x), Rank(y))
}

func checkPaired(x, y []float64) error {
	if len(x) != len(y) {
		return core.NewInvalidOperationError("correlation of unequal lengths %d and %d", len(x), len(y))
	}
	if len(x) < 3 {
		return core.NewDegenerateInputError("correlation needs at least 3 pairs, got %d", len(x))
	}
	return nil
}

func correlate(x, y []float64) (CorrelationResult, error) {
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return CorrelationResult{}, core.NewDegenerateInputError("correlation undefined for a constant series")
	}
	r = math.Max(-1, math.Min(1, r))

	return CorrelationResult{R: r, PValue: CorrelationPValue(r, len(x)), N: len(x)}, nil
}
