package report

import (
	"fmt"
	"math"
	"time"

	"edakit/domain/core"
	"edakit/domain/verdict"
)

// Round4 rounds a reported statistic to four decimals.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// NormalityResult is one row of a normality check
type NormalityResult struct {
	Column       string               `json:"column"`
	Statistic    float64              `json:"statistic"`
	PValue       float64              `json:"p_value"`
	Distribution verdict.Distribution `json:"distribution"`
}

// CorrelationMethod names the coefficient used for a factor
type CorrelationMethod string

const (
	MethodPearson  CorrelationMethod = "Pearson"
	MethodSpearman CorrelationMethod = "Spearman"
)

// CorrelationResult is one row of a correlation table
type CorrelationResult struct {
	Column      string             `json:"column"`
	PValue      float64            `json:"p_value"`
	Correlation float64            `json:"correlation"`
	Method      CorrelationMethod  `json:"method"`
	Conclusion  verdict.Conclusion `json:"conclusion"`
}

// EtaResult is the correlation ratio of one grouping column against a target
type EtaResult struct {
	Column string  `json:"column"`
	Eta    float64 `json:"eta"`
}

// TestName identifies a group comparison test
type TestName string

const (
	TestMannWhitney   TestName = "mann_whitney"
	TestKruskalWallis TestName = "kruskal_wallis"
)

// GroupTestResult is the structured outcome of a group comparison
type GroupTestResult struct {
	Test        TestName             `json:"test"`
	Target      string               `json:"target"`
	Factor      string               `json:"factor"`
	Alternative string               `json:"alternative,omitempty"`
	Method      string               `json:"method,omitempty"`
	Statistic   float64              `json:"statistic"`
	PValue      float64              `json:"p_value"`
	Groups      []string             `json:"groups"`
	Sizes       []int                `json:"sizes"`
	Significant bool                 `json:"significant"`
	Verdict     verdict.Significance `json:"verdict"`
}

// Message renders the one-line human summary of the test.
func (r GroupTestResult) Message() string {
	return fmt.Sprintf("%s: p-value=%.4f → %s difference", r.Factor, r.PValue, r.Verdict)
}

// GroupBounds records the IQR bounds used for one group (or the whole column)
type GroupBounds struct {
	Group string  `json:"group,omitempty"`
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Kept  int     `json:"kept"`
	Total int     `json:"total"`
}

// OutlierSummary describes one outlier-removal pass
type OutlierSummary struct {
	Column      string        `json:"column"`
	GroupColumn string        `json:"group_column,omitempty"`
	K           float64       `json:"k"`
	RowsBefore  int           `json:"rows_before"`
	RowsAfter   int           `json:"rows_after"`
	Bounds      []GroupBounds `json:"bounds"`
}

// Removed returns the number of dropped rows
func (s OutlierSummary) Removed() int {
	return s.RowsBefore - s.RowsAfter
}

// Run aggregates every analysis performed for one dataset and target
type Run struct {
	ID           core.RunID          `json:"id" db:"id"`
	Dataset      string              `json:"dataset" db:"dataset"`
	Target       string              `json:"target" db:"target"`
	Alpha        float64             `json:"alpha"`
	Rows         int                 `json:"rows"`
	Normality    []NormalityResult   `json:"normality"`
	Correlations []CorrelationResult `json:"correlations"`
	Eta          []EtaResult         `json:"eta"`
	GroupTests   []GroupTestResult   `json:"group_tests"`
	Outliers     *OutlierSummary     `json:"outliers,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
}

// NewRun creates an empty run stamped with a fresh ID
func NewRun(dataset, target string, alpha float64) *Run {
	return &Run{
		ID:        core.NewRunID(),
		Dataset:   dataset,
		Target:    target,
		Alpha:     alpha,
		CreatedAt: time.Now().UTC(),
	}
}

// Warn records a non-fatal problem encountered while building the run
func (r *Run) Warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
