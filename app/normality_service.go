package app

import (
	"context"
	"fmt"
	"math"

	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/domain/table"
	"edakit/domain/verdict"
	"edakit/internal"
	"edakit/internal/stattest"
)

// NormalityService classifies numeric columns as normal or asymmetric with
// the Shapiro-Wilk test.
type NormalityService struct {
	logger  *internal.Logger
	workers int
}

// NewNormalityService creates a normality checker evaluating up to workers columns at once
func NewNormalityService(logger *internal.Logger, workers int) *NormalityService {
	return &NormalityService{logger: logger.OrDefault(), workers: workers}
}

// Check runs Shapiro-Wilk on the non-missing values of each column. Rows come
// back in the order of columns. Any failing column fails the whole call.
func (s *NormalityService) Check(ctx context.Context, t *table.Table, columns []string, alpha float64) ([]report.NormalityResult, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}

	results := make([]report.NormalityResult, len(columns))
	err := forEachColumn(ctx, s.workers, len(columns), func(_ context.Context, i int) error {
		res, err := checkColumn(t, columns[i], alpha)
		if err != nil {
			return err
		}
		s.logger.Debug("normality: column=%s W=%.4f p=%.4f -> %s", res.Column, res.Statistic, res.PValue, res.Distribution)
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CheckNumeric checks every numeric column of t
func (s *NormalityService) CheckNumeric(ctx context.Context, t *table.Table, alpha float64) ([]report.NormalityResult, error) {
	return s.Check(ctx, t, t.NumericColumnNames(), alpha)
}

func checkColumn(t *table.Table, column string, alpha float64) (report.NormalityResult, error) {
	values, err := t.Numeric(column)
	if err != nil {
		return report.NormalityResult{}, err
	}
	sw, err := stattest.ShapiroWilk(stattest.DropNaN(values))
	if err != nil {
		return report.NormalityResult{}, fmt.Errorf("column %q: %w", column, err)
	}
	return report.NormalityResult{
		Column:       column,
		Statistic:    report.Round4(sw.W),
		PValue:       report.Round4(sw.PValue),
		Distribution: verdict.ClassifyDistribution(sw.PValue, alpha),
	}, nil
}

// isNormal is the fixed-level normality probe used when choosing a correlation method
func isNormal(values []float64) (bool, error) {
	sw, err := stattest.ShapiroWilk(values)
	if err != nil {
		return false, err
	}
	return verdict.ClassifyDistribution(sw.PValue, verdict.SignificanceLevel) == verdict.DistributionNormal, nil
}

func validateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return core.NewInvalidOperationError("alpha must be in (0, 1), got %v", alpha)
	}
	return nil
}
