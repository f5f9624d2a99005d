package stattest

import (
	"errors"
	"fmt"
	"math"

	"edakit/domain/core"

	moremath "github.com/aclements/go-moremath/stats"
)

// Alternative selects the alternative hypothesis of a two-sample test. Less
// and Greater refer to the first sample relative to the second.
type Alternative string

const (
	TwoSided Alternative = "two-sided"
	Less     Alternative = "less"
	Greater  Alternative = "greater"
)

// ParseAlternative validates an alternative hypothesis name
func ParseAlternative(s string) (Alternative, error) {
	switch Alternative(s) {
	case TwoSided, Less, Greater:
		return Alternative(s), nil
	case "":
		return TwoSided, nil
	}
	return "", core.NewInvalidOperationError("unknown alternative %q (want two-sided, less or greater)", s)
}

func (a Alternative) location() moremath.LocationHypothesis {
	switch a {
	case Less:
		return moremath.LocationLess
	case Greater:
		return moremath.LocationGreater
	}
	return moremath.LocationDiffers
}

// UMethod selects how the Mann-Whitney p-value is computed
type UMethod string

const (
	// MethodAsymptotic uses the tie-corrected normal approximation of U.
	MethodAsymptotic UMethod = "asymptotic"
	// MethodExact uses the exact distribution of U.
	MethodExact UMethod = "exact"
)

// ParseUMethod validates a Mann-Whitney method name
func ParseUMethod(s string) (UMethod, error) {
	switch UMethod(s) {
	case MethodAsymptotic, MethodExact:
		return UMethod(s), nil
	case "":
		return MethodAsymptotic, nil
	}
	return "", core.NewInvalidOperationError("unknown mann-whitney method %q (want asymptotic or exact)", s)
}

// MannWhitneyResult is the outcome of a Mann-Whitney U test
type MannWhitneyResult struct {
	U      float64 // U statistic of the first sample
	Z      float64 // normal score of U, asymptotic method only
	PValue float64
	N1, N2 int
}

// MannWhitneyU compares the distributions of two independent samples.
func MannWhitneyU(x, y []float64, alt Alternative, method UMethod) (MannWhitneyResult, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return MannWhitneyResult{}, core.NewDegenerateInputError("mann-whitney needs two non-empty samples, got %d and %d", n1, n2)
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, x...)
	combined = append(combined, y...)
	ranks := Rank(combined)

	r1 := 0.0
	for i := 0; i < n1; i++ {
		r1 += ranks[i]
	}
	u1 := r1 - float64(n1*(n1+1))/2
	result := MannWhitneyResult{U: u1, N1: n1, N2: n2}

	switch method {
	case MethodExact:
		res, err := moremath.MannWhitneyUTest(x, y, alt.location())
		if err != nil {
			if errors.Is(err, moremath.ErrSamplesEqual) {
				return MannWhitneyResult{}, core.NewDegenerateInputError("mann-whitney: all observations are identical")
			}
			return MannWhitneyResult{}, fmt.Errorf("mann-whitney exact test: %w", err)
		}
		result.PValue = res.P
		return result, nil

	case MethodAsymptotic, "":
		n := float64(n1 + n2)
		fn1, fn2 := float64(n1), float64(n2)
		tie := TieSum(combined)
		sigma := math.Sqrt(fn1 * fn2 / 12 * ((n + 1) - tie/(n*(n-1))))
		if sigma == 0 || math.IsNaN(sigma) {
			return MannWhitneyResult{}, core.NewDegenerateInputError("mann-whitney: all observations are identical")
		}

		z := (u1 - fn1*fn2/2) / sigma
		result.Z = z
		switch alt {
		case Less:
			result.PValue = NormalCDF(z)
		case Greater:
			result.PValue = NormalSurvival(z)
		default:
			result.PValue = math.Min(1, 2*NormalSurvival(math.Abs(z)))
		}
		return result, nil
	}

	return MannWhitneyResult{}, core.NewInvalidOperationError("unknown mann-whitney method %q", method)
}
