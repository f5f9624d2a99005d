package app

import (
	"context"
	"fmt"

	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/domain/table"
	"edakit/domain/verdict"
	"edakit/internal"
	"edakit/internal/stattest"
)

// CorrelationService builds the correlation table of numeric factors against a target
type CorrelationService struct {
	logger  *internal.Logger
	workers int
}

// NewCorrelationService creates a correlation table builder
func NewCorrelationService(logger *internal.Logger, workers int) *CorrelationService {
	return &CorrelationService{logger: logger.OrDefault(), workers: workers}
}

// Table correlates each factor with target. Pearson is used when both series
// pass Shapiro-Wilk at the 0.05 level, Spearman otherwise. Rows with a missing
// factor or target value are dropped pairwise.
func (s *CorrelationService) Table(ctx context.Context, t *table.Table, target string, factors []string) ([]report.CorrelationResult, error) {
	targetValues, err := t.Numeric(target)
	if err != nil {
		return nil, err
	}

	results := make([]report.CorrelationResult, len(factors))
	err = forEachColumn(ctx, s.workers, len(factors), func(_ context.Context, i int) error {
		res, err := s.correlate(t, targetValues, factors[i])
		if err != nil {
			return fmt.Errorf("factor %q: %w", factors[i], err)
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// TableNumeric correlates target with every other numeric column
func (s *CorrelationService) TableNumeric(ctx context.Context, t *table.Table, target string) ([]report.CorrelationResult, error) {
	if _, err := t.Column(target); err != nil {
		return nil, err
	}
	return s.Table(ctx, t, target, t.NumericColumnsExcept(target))
}

func (s *CorrelationService) correlate(t *table.Table, targetValues []float64, factor string) (report.CorrelationResult, error) {
	factorValues, err := t.Numeric(factor)
	if err != nil {
		return report.CorrelationResult{}, err
	}
	x, y := stattest.CompletePairs(factorValues, targetValues)
	if len(x) < 3 {
		return report.CorrelationResult{}, core.NewDegenerateInputError("need at least 3 complete pairs, got %d", len(x))
	}

	method, err := chooseMethod(x, y)
	if err != nil {
		return report.CorrelationResult{}, err
	}

	var res stattest.CorrelationResult
	if method == report.MethodPearson {
		res, err = stattest.Pearson(x, y)
	} else {
		res, err = stattest.Spearman(x, y)
	}
	if err != nil {
		return report.CorrelationResult{}, err
	}

	s.logger.Debug("correlation: %s r=%.4f p=%.4f n=%d (%s)", factor, res.R, res.PValue, res.N, method)
	return report.CorrelationResult{
		Column:      factor,
		PValue:      report.Round4(res.PValue),
		Correlation: report.Round4(res.R),
		Method:      method,
		Conclusion:  verdict.Conclude(res.PValue),
	}, nil
}

func chooseMethod(x, y []float64) (report.CorrelationMethod, error) {
	xNormal, err := isNormal(x)
	if err != nil {
		return "", err
	}
	yNormal, err := isNormal(y)
	if err != nil {
		return "", err
	}
	if xNormal && yNormal {
		return report.MethodPearson, nil
	}
	return report.MethodSpearman, nil
}
