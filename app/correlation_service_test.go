package app

import (
	"context"
	"math"
	"testing"

	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/domain/verdict"
	"edakit/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(x []float64, a, b float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = a*v + b
	}
	return out
}

func TestCorrelationPicksPearsonForNormalPairs(t *testing.T) {
	x := testkit.NormalScores(30, 0, 1)
	tbl := testkit.MustTable(
		testkit.Num("target", linear(x, 3, 2)...),
		testkit.Num("x", x...),
		testkit.Num("neg", linear(x, -1, 0)...),
	)

	rows, err := NewCorrelationService(nil, 1).TableNumeric(context.Background(), tbl, "target")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "x", rows[0].Column)
	assert.Equal(t, report.MethodPearson, rows[0].Method)
	assert.InDelta(t, 1.0, rows[0].Correlation, 1e-9)
	assert.Equal(t, verdict.ConclusionSignificant, rows[0].Conclusion)
	assert.InDelta(t, -1.0, rows[1].Correlation, 1e-9)
}

func TestCorrelationPicksSpearmanForSkewedSeries(t *testing.T) {
	tbl := testkit.MustTable(
		testkit.Num("target", testkit.NormalScores(30, 0, 1)...),
		testkit.Num("skewed", testkit.LogNormalScores(30)...),
	)

	rows, err := NewCorrelationService(nil, 2).Table(context.Background(), tbl, "target", []string{"skewed"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, report.MethodSpearman, rows[0].Method)
	assert.InDelta(t, 1.0, rows[0].Correlation, 1e-9, "monotone relation has rank correlation 1")
}

func TestCorrelationCoefficientsStayInRange(t *testing.T) {
	tbl := testkit.SurveyTable(15, 9)

	rows, err := NewCorrelationService(nil, 3).TableNumeric(context.Background(), tbl, "spend")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Correlation, -1.0)
		assert.LessOrEqual(t, r.Correlation, 1.0)
		assert.GreaterOrEqual(t, r.PValue, 0.0)
		assert.LessOrEqual(t, r.PValue, 1.0)
		if r.Method == report.MethodPearson {
			assert.NotEqual(t, "bonus", r.Column, "a skewed factor never gets Pearson")
		}
	}
	assert.Equal(t, "income", rows[0].Column)
	assert.Greater(t, rows[0].Correlation, 0.9)
}

func TestCorrelationDropsIncompletePairs(t *testing.T) {
	x := testkit.NormalScores(12, 0, 1)
	y := linear(x, 2, 0)
	x[3] = math.NaN()
	y[7] = math.NaN()
	tbl := testkit.MustTable(testkit.Num("y", y...), testkit.Num("x", x...))

	rows, err := NewCorrelationService(nil, 1).Table(context.Background(), tbl, "y", []string{"x"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rows[0].Correlation, 1e-9)
}

func TestCorrelationErrors(t *testing.T) {
	svc := NewCorrelationService(nil, 1)
	ctx := context.Background()
	tbl := testkit.MustTable(
		testkit.Num("y", 1, 2, 3, 4, 5),
		testkit.Num("flat", 7, 7, 7, 7, 7),
		testkit.Num("sparse", 1, math.NaN(), math.NaN(), math.NaN(), 2),
		testkit.Cat("label", "a", "b", "c", "d", "e"),
	)

	_, err := svc.Table(ctx, tbl, "y", []string{"flat"})
	assert.True(t, core.IsDegenerateInput(err), "constant series has no coefficient")

	_, err = svc.Table(ctx, tbl, "y", []string{"sparse"})
	assert.True(t, core.IsDegenerateInput(err))

	_, err = svc.Table(ctx, tbl, "y", []string{"label"})
	assert.True(t, core.IsInvalidOperation(err))

	_, err = svc.Table(ctx, tbl, "label", []string{"y"})
	assert.True(t, core.IsInvalidOperation(err))

	_, err = svc.Table(ctx, tbl, "y", []string{"nope"})
	assert.True(t, core.IsColumnNotFound(err))

	_, err = svc.TableNumeric(ctx, tbl, "nope")
	assert.True(t, core.IsColumnNotFound(err))
}
