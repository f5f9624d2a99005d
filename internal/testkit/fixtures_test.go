package testkit

import (
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalScoresAreCentered(t *testing.T) {
	scores := NormalScores(41, 50, 10)
	mean, err := stats.Mean(scores)
	require.NoError(t, err)
	median, err := stats.Median(scores)
	require.NoError(t, err)

	assert.InDelta(t, 50, mean, 1e-9)
	assert.InDelta(t, 50, median, 1e-9)
	assert.Less(t, scores[0], scores[40])
}

func TestLogNormalScoresAreSkewed(t *testing.T) {
	scores := LogNormalScores(30)
	mean, _ := stats.Mean(scores)
	median, _ := stats.Median(scores)
	assert.Greater(t, mean, median)
}

func TestShuffledIsDeterministic(t *testing.T) {
	values := NormalScores(20, 0, 1)
	a := Shuffled(values, 7)
	b := Shuffled(values, 7)
	assert.Equal(t, a, b)
	assert.ElementsMatch(t, values, a)
}

func TestSurveyTableShape(t *testing.T) {
	tbl := SurveyTable(10, 1)
	assert.Equal(t, 30, tbl.Len())
	assert.Equal(t, []string{"income", "spend", "tenure", "bonus"}, tbl.NumericColumnNames())
	assert.Equal(t, []string{"segment", "member"}, tbl.CategoricalColumnNames())
}
