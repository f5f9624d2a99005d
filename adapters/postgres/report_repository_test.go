package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/domain/verdict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *report.Run {
	run := report.NewRun("survey.csv", "spend", 0.05)
	run.Rows = 12
	run.Normality = []report.NormalityResult{{Column: "spend", Statistic: 0.97, PValue: 0.41, Distribution: verdict.DistributionNormal}}
	run.Outliers = &report.OutlierSummary{Column: "spend", K: 1.5, RowsBefore: 13, RowsAfter: 12}
	run.Warn("group test of city skipped: degenerate input")
	return run
}

func TestRunPayloadRoundTrip(t *testing.T) {
	run := sampleRun()

	value, err := runPayload(*run).Value()
	require.NoError(t, err)

	var decoded runPayload
	require.NoError(t, decoded.Scan(value))
	got := report.Run(decoded)
	assert.Equal(t, run.Normality, got.Normality)
	assert.Equal(t, run.Outliers, got.Outliers)
	assert.Equal(t, run.Warnings, got.Warnings)

	require.NoError(t, decoded.Scan(string(value.([]byte))))
	assert.Error(t, decoded.Scan(42))
}

func TestReportRepositoryPostgres(t *testing.T) {
	url := os.Getenv("EDA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("EDA_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := Open(ctx, url)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db), "migrations are idempotent")

	repo := NewReportRepository(db)
	run := sampleRun()
	require.NoError(t, repo.Save(ctx, run))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Target, got.Target)
	assert.Equal(t, run.Warnings, got.Warnings)

	runs, err := repo.List(ctx, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, runs)
	assert.LessOrEqual(t, len(runs), 5)

	_, err = repo.GetByID(ctx, core.NewRunID())
	assert.True(t, core.IsNotFoundError(err))
}
