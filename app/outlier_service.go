package app

import (
	"math"

	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/domain/table"
	"edakit/internal"
	"edakit/internal/stattest"
)

// DefaultOutlierK is the conventional Tukey fence multiplier
const DefaultOutlierK = 1.5

// Bounds are the IQR fences of one column or group
type Bounds struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	K     float64 `json:"k"`
}

// Contains reports whether v lies inside the fences. NaN is never contained.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// OutlierService trims rows whose value falls outside Tukey's IQR fences,
// either over the whole column or separately within each group.
type OutlierService struct {
	logger *internal.Logger
}

// NewOutlierService creates an outlier filter. A nil logger uses the default logger.
func NewOutlierService(logger *internal.Logger) *OutlierService {
	return &OutlierService{logger: logger.OrDefault()}
}

// Bounds computes the fences of column using type-7 quartiles of its
// non-missing values.
func (s *OutlierService) Bounds(t *table.Table, column string, k float64) (Bounds, error) {
	values, err := s.target(t, column, k)
	if err != nil {
		return Bounds{}, err
	}
	return computeBounds(values, k)
}

func computeBounds(values []float64, k float64) (Bounds, error) {
	q1, q3, err := stattest.Quartiles(values)
	if err != nil {
		return Bounds{}, err
	}
	iqr := q3 - q1
	return Bounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - k*iqr,
		Upper: q3 + k*iqr,
		K:     k,
	}, nil
}

// target validates k and returns a copy of the numeric column
func (s *OutlierService) target(t *table.Table, column string, k float64) ([]float64, error) {
	if k < 0 || math.IsNaN(k) {
		return nil, core.NewInvalidOperationError("outlier multiplier k must be non-negative, got %v", k)
	}
	return t.Numeric(column)
}

// FilterCopy returns the rows of t whose column value lies within the fences.
// t is left untouched.
func (s *OutlierService) FilterCopy(t *table.Table, column string, k float64) (*table.Table, error) {
	out, _, err := s.FilterCopyWithSummary(t, column, k)
	return out, err
}

// FilterInPlace overwrites t with the rows whose column value lies within the fences.
func (s *OutlierService) FilterInPlace(t *table.Table, column string, k float64) error {
	out, _, err := s.FilterCopyWithSummary(t, column, k)
	if err != nil {
		return err
	}
	t.ReplaceWith(out)
	return nil
}

// FilterCopyWithSummary is FilterCopy that also describes what was removed
func (s *OutlierService) FilterCopyWithSummary(t *table.Table, column string, k float64) (*table.Table, report.OutlierSummary, error) {
	values, err := s.target(t, column, k)
	if err != nil {
		return nil, report.OutlierSummary{}, err
	}
	b, err := computeBounds(values, k)
	if err != nil {
		return nil, report.OutlierSummary{}, core.NewDegenerateInputError("column %q has no non-missing values", column)
	}

	keep := make([]int, 0, len(values))
	for i, v := range values {
		if b.Contains(v) {
			keep = append(keep, i)
		}
	}

	out := t.Take(keep)
	summary := report.OutlierSummary{
		Column:     column,
		K:          k,
		RowsBefore: t.Len(),
		RowsAfter:  out.Len(),
		Bounds:     []report.GroupBounds{groupBounds("", b, len(keep), len(values))},
	}
	s.logger.Debug("outliers: column=%s lower=%.4f upper=%.4f removed=%d", column, b.Lower, b.Upper, summary.Removed())
	return out, summary, nil
}

// FilterGroupedCopy applies the fences separately inside each group of
// groupColumn. Surviving rows are concatenated in group-key order. Rows whose
// group key is missing are dropped, as are groups without any non-missing value.
func (s *OutlierService) FilterGroupedCopy(t *table.Table, column, groupColumn string, k float64) (*table.Table, error) {
	out, _, err := s.FilterGroupedCopyWithSummary(t, column, groupColumn, k)
	return out, err
}

// FilterGroupedInPlace overwrites t with the result of FilterGroupedCopy.
func (s *OutlierService) FilterGroupedInPlace(t *table.Table, column, groupColumn string, k float64) error {
	out, _, err := s.FilterGroupedCopyWithSummary(t, column, groupColumn, k)
	if err != nil {
		return err
	}
	t.ReplaceWith(out)
	return nil
}

// FilterGroupedCopyWithSummary is FilterGroupedCopy that also reports per-group fences
func (s *OutlierService) FilterGroupedCopyWithSummary(t *table.Table, column, groupColumn string, k float64) (*table.Table, report.OutlierSummary, error) {
	values, err := s.target(t, column, k)
	if err != nil {
		return nil, report.OutlierSummary{}, err
	}
	groups, err := t.GroupBy(groupColumn)
	if err != nil {
		return nil, report.OutlierSummary{}, err
	}

	summary := report.OutlierSummary{
		Column:      column,
		GroupColumn: groupColumn,
		K:           k,
		RowsBefore:  t.Len(),
	}

	var keep []int
	for _, g := range groups {
		groupValues := make([]float64, len(g.Rows))
		for i, r := range g.Rows {
			groupValues[i] = values[r]
		}

		b, err := computeBounds(groupValues, k)
		if core.IsDegenerateInput(err) {
			s.logger.Debug("outliers: group %s=%s has no values for %s, dropping %d rows", groupColumn, g.Key, column, len(g.Rows))
			summary.Bounds = append(summary.Bounds, report.GroupBounds{Group: g.Key, Total: len(g.Rows)})
			continue
		}
		if err != nil {
			return nil, report.OutlierSummary{}, err
		}

		kept := 0
		for _, r := range g.Rows {
			if b.Contains(values[r]) {
				keep = append(keep, r)
				kept++
			}
		}
		summary.Bounds = append(summary.Bounds, groupBounds(g.Key, b, kept, len(g.Rows)))
	}

	out := t.Take(keep)
	summary.RowsAfter = out.Len()
	s.logger.Debug("outliers: column=%s grouped by %s over %d groups, removed=%d", column, groupColumn, len(groups), summary.Removed())
	return out, summary, nil
}

func groupBounds(group string, b Bounds, kept, total int) report.GroupBounds {
	return report.GroupBounds{
		Group: group,
		Q1:    b.Q1,
		Q3:    b.Q3,
		Lower: b.Lower,
		Upper: b.Upper,
		Kept:  kept,
		Total: total,
	}
}
