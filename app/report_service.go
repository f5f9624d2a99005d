package app

import (
	"context"
	"fmt"
	"time"

	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/domain/table"
	"edakit/internal"
	"edakit/internal/stattest"
	"edakit/ports"
)

// ReportRequest selects what goes into an analysis run
type ReportRequest struct {
	Dataset string
	Target  string
	Alpha   float64
	// MannWhitneyMethod defaults to the asymptotic method.
	MannWhitneyMethod stattest.UMethod
	// OutlierColumn, when set, trims the table before any test runs.
	OutlierColumn string
	OutlierGroup  string
	OutlierK      float64
}

// ReportService composes every analysis into one persisted run
type ReportService struct {
	outliers    *OutlierService
	normality   *NormalityService
	correlation *CorrelationService
	association *AssociationService
	groups      *GroupComparisonService
	repo        ports.ReportRepository
	logger      *internal.Logger
}

// NewReportService wires the analysis services. repo may be nil, in which
// case runs are built but never stored.
func NewReportService(logger *internal.Logger, workers int, repo ports.ReportRepository) *ReportService {
	logger = logger.OrDefault()
	return &ReportService{
		outliers:    NewOutlierService(logger),
		normality:   NewNormalityService(logger, workers),
		correlation: NewCorrelationService(logger, workers),
		association: NewAssociationService(logger),
		groups:      NewGroupComparisonService(logger),
		repo:        repo,
		logger:      logger,
	}
}

// Build runs every analysis of t against req.Target. A factor or column that
// fails only because its data is degenerate is recorded as a warning; any
// other failure aborts the run.
func (s *ReportService) Build(ctx context.Context, t *table.Table, req ReportRequest) (*report.Run, error) {
	start := time.Now()
	if err := validateAlpha(req.Alpha); err != nil {
		return nil, err
	}
	if _, err := t.Numeric(req.Target); err != nil {
		return nil, err
	}

	run := report.NewRun(req.Dataset, req.Target, req.Alpha)
	if req.OutlierColumn != "" {
		var summary report.OutlierSummary
		var err error
		if req.OutlierGroup != "" {
			t, summary, err = s.outliers.FilterGroupedCopyWithSummary(t, req.OutlierColumn, req.OutlierGroup, req.OutlierK)
		} else {
			t, summary, err = s.outliers.FilterCopyWithSummary(t, req.OutlierColumn, req.OutlierK)
		}
		if err != nil {
			return nil, fmt.Errorf("outlier filter: %w", err)
		}
		run.Outliers = &summary
	}

	return s.analyze(ctx, t, req, run, start)
}

func (s *ReportService) analyze(ctx context.Context, t *table.Table, req ReportRequest, run *report.Run, start time.Time) (*report.Run, error) {
	run.Rows = t.Len()

	for _, column := range t.NumericColumnNames() {
		rows, err := s.normality.Check(ctx, t, []string{column}, req.Alpha)
		if s.skip(run, err, "normality of %s", column) {
			continue
		}
		if err != nil {
			return nil, err
		}
		run.Normality = append(run.Normality, rows...)
	}

	for _, factor := range t.NumericColumnsExcept(req.Target) {
		rows, err := s.correlation.Table(ctx, t, req.Target, []string{factor})
		if s.skip(run, err, "correlation of %s", factor) {
			continue
		}
		if err != nil {
			return nil, err
		}
		run.Correlations = append(run.Correlations, rows...)
	}

	factors := t.CategoricalColumnNames()
	eta, err := s.association.EtaTable(t, req.Target, factors)
	if err != nil {
		return nil, err
	}
	run.Eta = eta

	for _, factor := range factors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.compareGroups(t, req, factor)
		if s.skip(run, err, "group test of %s", factor) {
			continue
		}
		if err != nil {
			return nil, err
		}
		run.GroupTests = append(run.GroupTests, res)
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run %s: %w", run.ID, err)
		}
	}

	s.logger.Info("report %s: target=%s rows=%d normality=%d correlations=%d group_tests=%d warnings=%d in %v",
		run.ID, run.Target, run.Rows, len(run.Normality), len(run.Correlations), len(run.GroupTests), len(run.Warnings), time.Since(start))
	return run, nil
}

func (s *ReportService) compareGroups(t *table.Table, req ReportRequest, factor string) (report.GroupTestResult, error) {
	sample, err := split(t, req.Target, factor)
	if err != nil {
		return report.GroupTestResult{}, err
	}
	switch n := len(sample.keys); {
	case n == 2:
		return s.groups.MannWhitney(t, req.Target, factor, stattest.TwoSided, req.MannWhitneyMethod)
	case n > 2:
		return s.groups.KruskalWallis(t, req.Target, factor)
	}
	return report.GroupTestResult{}, core.NewDegenerateInputError("factor %q has %d groups", factor, len(sample.keys))
}

// skip records a degenerate-input failure as a warning and reports whether it did
func (s *ReportService) skip(run *report.Run, err error, format string, args ...interface{}) bool {
	if err == nil || !core.IsDegenerateInput(err) {
		return false
	}
	what := fmt.Sprintf(format, args...)
	s.logger.Warn("report %s: skipping %s: %v", run.ID, what, err)
	run.Warn("%s skipped: %v", what, err)
	return true
}

// Get loads a stored run
func (s *ReportService) Get(ctx context.Context, id core.RunID) (*report.Run, error) {
	if s.repo == nil {
		return nil, core.NewRunNotFoundError(id.String())
	}
	return s.repo.GetByID(ctx, id)
}

// List returns the most recent stored runs
func (s *ReportService) List(ctx context.Context, limit int) ([]*report.Run, error) {
	if s.repo == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, limit)
}
