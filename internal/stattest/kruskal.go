package stattest

import (
	"edakit/domain/core"
)

// KruskalResult is the outcome of a Kruskal-Wallis H test
type KruskalResult struct {
	H      float64
	PValue float64
	DF     int
	N      int
}

// KruskalWallis tests whether two or more independent samples come from the
// same distribution. H is tie-corrected and referred to chi-square with k-1
// degrees of freedom.
func KruskalWallis(groups ...[]float64) (KruskalResult, error) {
	k := len(groups)
	if k < 2 {
		return KruskalResult{}, core.NewInvalidOperationError("kruskal-wallis needs at least two groups, got %d", k)
	}

	var combined []float64
	for i, g := range groups {
		if len(g) == 0 {
			return KruskalResult{}, core.NewDegenerateInputError("kruskal-wallis group %d is empty", i)
		}
		combined = append(combined, g...)
	}

	n := float64(len(combined))
	ranks := Rank(combined)

	sum := 0.0
	offset := 0
	for _, g := range groups {
		rankSum := 0.0
		for i := range g {
			rankSum += ranks[offset+i]
		}
		sum += rankSum * rankSum / float64(len(g))
		offset += len(g)
	}

	h := 12/(n*(n+1))*sum - 3*(n+1)

	correction := 1 - TieSum(combined)/(n*n*n-n)
	if correction <= 0 {
		return KruskalResult{}, core.NewDegenerateInputError("kruskal-wallis: all observations are identical")
	}
	h /= correction

	df := k - 1
	return KruskalResult{H: h, PValue: ChiSquarePValue(h, df), DF: df, N: len(combined)}, nil
}
