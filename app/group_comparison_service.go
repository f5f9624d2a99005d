package app

import (
	"math"

	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/domain/table"
	"edakit/domain/verdict"
	"edakit/internal"
	"edakit/internal/stattest"
)

// GroupComparisonService compares a numeric target across the groups of a factor
type GroupComparisonService struct {
	logger *internal.Logger
}

// NewGroupComparisonService creates a group comparison service
func NewGroupComparisonService(logger *internal.Logger) *GroupComparisonService {
	return &GroupComparisonService{logger: logger.OrDefault()}
}

type groupedSample struct {
	keys   []string
	values [][]float64
}

func (g groupedSample) sizes() []int {
	out := make([]int, len(g.values))
	for i, v := range g.values {
		out[i] = len(v)
	}
	return out
}

// split partitions the non-missing target values by factor, in group-key order.
// Groups left without values once missing targets are dropped are omitted.
func split(t *table.Table, target, factor string) (groupedSample, error) {
	values, err := t.Numeric(target)
	if err != nil {
		return groupedSample{}, err
	}
	groups, err := t.GroupBy(factor)
	if err != nil {
		return groupedSample{}, err
	}

	var out groupedSample
	for _, g := range groups {
		sample := make([]float64, 0, len(g.Rows))
		for _, r := range g.Rows {
			if !math.IsNaN(values[r]) {
				sample = append(sample, values[r])
			}
		}
		if len(sample) == 0 {
			continue
		}
		out.keys = append(out.keys, g.Key)
		out.values = append(out.values, sample)
	}
	return out, nil
}

// MannWhitney tests whether target differs between the two groups of factor.
// The alternative is stated for the first group in key order relative to the second.
func (s *GroupComparisonService) MannWhitney(t *table.Table, target, factor string, alt stattest.Alternative, method stattest.UMethod) (report.GroupTestResult, error) {
	alt, err := stattest.ParseAlternative(string(alt))
	if err != nil {
		return report.GroupTestResult{}, err
	}
	method, err = stattest.ParseUMethod(string(method))
	if err != nil {
		return report.GroupTestResult{}, err
	}

	sample, err := split(t, target, factor)
	if err != nil {
		return report.GroupTestResult{}, err
	}
	if len(sample.keys) != 2 {
		return report.GroupTestResult{}, core.NewInvalidOperationError("exactly two groups required, %q has %d", factor, len(sample.keys))
	}

	res, err := stattest.MannWhitneyU(sample.values[0], sample.values[1], alt, method)
	if err != nil {
		return report.GroupTestResult{}, err
	}

	result := newGroupTestResult(report.TestMannWhitney, target, factor, res.U, res.PValue, sample)
	result.Alternative = string(alt)
	result.Method = string(method)
	s.logger.Debug("mann-whitney: %s by %s U=%.1f p=%.4f", target, factor, res.U, res.PValue)
	return result, nil
}

// KruskalWallis tests whether target differs across two or more groups of factor
func (s *GroupComparisonService) KruskalWallis(t *table.Table, target, factor string) (report.GroupTestResult, error) {
	sample, err := split(t, target, factor)
	if err != nil {
		return report.GroupTestResult{}, err
	}
	if len(sample.keys) < 2 {
		return report.GroupTestResult{}, core.NewInvalidOperationError("at least two groups required, %q has %d", factor, len(sample.keys))
	}

	res, err := stattest.KruskalWallis(sample.values...)
	if err != nil {
		return report.GroupTestResult{}, err
	}

	s.logger.Debug("kruskal-wallis: %s by %s H=%.4f df=%d p=%.4f", target, factor, res.H, res.DF, res.PValue)
	return newGroupTestResult(report.TestKruskalWallis, target, factor, res.H, res.PValue, sample), nil
}

func newGroupTestResult(test report.TestName, target, factor string, statistic, p float64, sample groupedSample) report.GroupTestResult {
	v := verdict.Judge(p)
	return report.GroupTestResult{
		Test:        test,
		Target:      target,
		Factor:      factor,
		Statistic:   report.Round4(statistic),
		PValue:      report.Round4(p),
		Groups:      sample.keys,
		Sizes:       sample.sizes(),
		Significant: v == verdict.Significant,
		Verdict:     v,
	}
}
