package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportBuildsAndSavesRun(t *testing.T) {
	repo := new(testkit.MockReportRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*report.Run")).Return(nil).Once()

	svc := NewReportService(nil, 2, repo)
	run, err := svc.Build(context.Background(), testkit.SurveyTable(12, 4), ReportRequest{
		Dataset: "survey.csv",
		Target:  "spend",
		Alpha:   0.05,
	})
	require.NoError(t, err)

	assert.False(t, run.ID.IsEmpty())
	assert.Equal(t, 36, run.Rows)
	assert.Len(t, run.Normality, 4)
	assert.Len(t, run.Correlations, 3)
	require.Len(t, run.Eta, 2)
	assert.Equal(t, "segment", run.Eta[0].Column)
	require.Len(t, run.GroupTests, 2)
	assert.Equal(t, report.TestKruskalWallis, run.GroupTests[0].Test)
	assert.Equal(t, report.TestMannWhitney, run.GroupTests[1].Test)
	assert.Empty(t, run.Warnings)
	assert.Nil(t, run.Outliers)
	repo.AssertExpectations(t)
}

func TestReportRecordsDegenerateFactorsAsWarnings(t *testing.T) {
	tbl := testkit.MustTable(
		testkit.Num("y", testkit.NormalScores(8, 0, 1)...),
		testkit.Num("sparse", 1, 2, math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()),
		testkit.Cat("solo", testkit.Repeat(8, "only")...),
	)

	run, err := NewReportService(nil, 1, nil).Build(context.Background(), tbl, ReportRequest{Target: "y", Alpha: 0.05})
	require.NoError(t, err)

	assert.Len(t, run.Normality, 1, "only y has enough values")
	assert.Empty(t, run.Correlations)
	assert.Empty(t, run.GroupTests)
	assert.Len(t, run.Warnings, 3)
}

func TestReportCountsOnlyGroupsWithTargetValues(t *testing.T) {
	tbl := testkit.MustTable(
		testkit.Num("y", 1, 2, 3, 10, 11, 12, math.NaN(), math.NaN()),
		testkit.Cat("g", "A", "A", "A", "B", "B", "B", "C", "C"),
	)

	run, err := NewReportService(nil, 1, nil).Build(context.Background(), tbl, ReportRequest{Target: "y", Alpha: 0.05})
	require.NoError(t, err)

	require.Len(t, run.GroupTests, 1)
	assert.Equal(t, report.TestMannWhitney, run.GroupTests[0].Test)
	assert.Equal(t, []string{"A", "B"}, run.GroupTests[0].Groups)
	for _, w := range run.Warnings {
		assert.NotContains(t, w, "kruskal")
	}
}

func TestReportAppliesOutlierFilter(t *testing.T) {
	tbl := testkit.MustTable(
		testkit.Num("y", 10, 12, 11, 13, 9, 100, 10.5, 11.5),
		testkit.Num("x", 1, 2, 3, 4, 5, 6, 7, 8),
	)

	run, err := NewReportService(nil, 1, nil).Build(context.Background(), tbl, ReportRequest{
		Target:        "y",
		Alpha:         0.05,
		OutlierColumn: "y",
		OutlierK:      DefaultOutlierK,
	})
	require.NoError(t, err)
	require.NotNil(t, run.Outliers)
	assert.Equal(t, 1, run.Outliers.Removed())
	assert.Equal(t, 7, run.Rows)
	assert.Equal(t, 8, tbl.Len())
}

func TestReportFailures(t *testing.T) {
	ctx := context.Background()
	tbl := testkit.TwoGroupTable()

	_, err := NewReportService(nil, 1, nil).Build(ctx, tbl, ReportRequest{Target: "nope", Alpha: 0.05})
	assert.True(t, core.IsColumnNotFound(err))

	_, err = NewReportService(nil, 1, nil).Build(ctx, tbl, ReportRequest{Target: "y", Alpha: 2})
	assert.True(t, core.IsInvalidOperation(err))

	repo := new(testkit.MockReportRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	_, err = NewReportService(nil, 1, repo).Build(ctx, tbl, ReportRequest{Target: "y", Alpha: 0.05})
	assert.ErrorContains(t, err, "connection refused")
}

func TestReportLookup(t *testing.T) {
	ctx := context.Background()

	_, err := NewReportService(nil, 1, nil).Get(ctx, core.NewRunID())
	assert.True(t, core.IsNotFoundError(err))

	stored := report.NewRun("data.csv", "y", 0.05)
	repo := new(testkit.MockReportRepository)
	repo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
	repo.On("List", mock.Anything, 20).Return([]*report.Run{stored}, nil)

	svc := NewReportService(nil, 1, repo)
	got, err := svc.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	runs, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
