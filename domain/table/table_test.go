package table

import (
	"math"
	"testing"

	"edakit/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl := New()
	require.NoError(t, tbl.AddNumeric("score", []float64{10, 12, math.NaN(), 13}))
	require.NoError(t, tbl.AddCategorical("city", []string{"b", "a", "b", ""}))
	require.NoError(t, tbl.AddNumeric("age", []float64{30, 20, 30, 40}))
	return tbl
}

func TestAddColumnValidation(t *testing.T) {
	tbl := sampleTable(t)

	err := tbl.AddNumeric("score", []float64{1, 2, 3, 4})
	assert.True(t, core.IsInvalidOperation(err), "duplicate name should fail")

	err = tbl.AddNumeric("short", []float64{1, 2})
	assert.True(t, core.IsInvalidOperation(err), "length mismatch should fail")

	err = tbl.AddCategorical("", []string{"a", "b", "c", "d"})
	assert.True(t, core.IsInvalidOperation(err), "empty name should fail")

	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, 3, tbl.Width())
}

func TestColumnSelection(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, []string{"score", "city", "age"}, tbl.ColumnNames())
	assert.Equal(t, []string{"score", "age"}, tbl.NumericColumnNames())
	assert.Equal(t, []string{"city"}, tbl.CategoricalColumnNames())
	assert.Equal(t, []string{"age"}, tbl.NumericColumnsExcept("score"))

	_, err := tbl.Column("missing")
	assert.True(t, core.IsColumnNotFound(err))

	_, err = tbl.Numeric("city")
	assert.True(t, core.IsInvalidOperation(err))

	values, err := tbl.Numeric("score")
	require.NoError(t, err)
	values[0] = -1
	again, _ := tbl.Numeric("score")
	assert.Equal(t, 10.0, again[0], "Numeric must return a copy")
}

func TestTakeCloneReplace(t *testing.T) {
	tbl := sampleTable(t)

	sub := tbl.Take([]int{3, 0})
	assert.Equal(t, 2, sub.Len())
	scores, _ := sub.Numeric("score")
	assert.Equal(t, []float64{13, 10}, scores)
	labels, _ := sub.Labels("city")
	assert.Equal(t, []string{"", "b"}, labels)

	clone := tbl.Clone()
	tbl.ReplaceWith(sub)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 4, clone.Len())
	assert.Equal(t, []string{"score", "city", "age"}, tbl.ColumnNames())
}

func TestGroupBy(t *testing.T) {
	tbl := sampleTable(t)

	groups, err := tbl.GroupBy("city")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, Group{Key: "a", Rows: []int{1}}, groups[0])
	assert.Equal(t, Group{Key: "b", Rows: []int{0, 2}}, groups[1])

	// numeric keys sort numerically, not lexicographically
	require.NoError(t, tbl.AddNumeric("bucket", []float64{10, 9, 100, math.NaN()}))
	groups, err = tbl.GroupBy("bucket")
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "9", groups[0].Key)
	assert.Equal(t, "10", groups[1].Key)
	assert.Equal(t, "100", groups[2].Key)

	_, err = tbl.GroupBy("nope")
	assert.True(t, core.IsColumnNotFound(err))
}

func TestFromColumns(t *testing.T) {
	src := &Column{Name: "x", Kind: Numeric, Floats: []float64{1, 2}}
	tbl, err := FromColumns(src, &Column{Name: "g", Kind: Categorical, Labels: []string{"a", "b"}})
	require.NoError(t, err)
	src.Floats[0] = 99
	values, _ := tbl.Numeric("x")
	assert.Equal(t, []float64{1, 2}, values)

	_, err = FromColumns(&Column{Name: "bad", Kind: "text"})
	assert.True(t, core.IsInvalidOperation(err))
}
