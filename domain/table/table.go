package table

import (
	"math"
	"sort"
	"strconv"

	"edakit/domain/core"
)

// Kind is the statistical type of a column
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

// Column holds one named sequence of values. Numeric columns store missing
// values as NaN, categorical columns store them as the empty label.
type Column struct {
	Name   string    `json:"name"`
	Kind   Kind      `json:"kind"`
	Floats []float64 `json:"floats,omitempty"`
	Labels []string  `json:"labels,omitempty"`
}

// Len returns the number of values in the column
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// IsMissing reports whether row i holds a missing value
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Floats[i])
	}
	return c.Labels[i] == ""
}

// Label renders row i as a group label; missing values render as "".
func (c *Column) Label(i int) string {
	if c.Kind == Categorical {
		return c.Labels[i]
	}
	if math.IsNaN(c.Floats[i]) {
		return ""
	}
	return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
}

func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Labels != nil {
		out.Labels = append([]string(nil), c.Labels...)
	}
	return out
}

func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Floats = make([]float64, len(rows))
		for i, r := range rows {
			out.Floats[i] = c.Floats[r]
		}
		return out
	}
	out.Labels = make([]string, len(rows))
	for i, r := range rows {
		out.Labels[i] = c.Labels[r]
	}
	return out
}

// Table is an ordered set of named, row-aligned columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates an empty table
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// FromColumns builds a table from pre-built columns
func FromColumns(columns ...*Column) (*Table, error) {
	t := New()
	for _, c := range columns {
		if err := t.add(c.clone()); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddNumeric appends a numeric column. NaN marks a missing value.
func (t *Table) AddNumeric(name string, values []float64) error {
	return t.add(&Column{Name: name, Kind: Numeric, Floats: append([]float64(nil), values...)})
}

// AddCategorical appends a categorical column. "" marks a missing value.
func (t *Table) AddCategorical(name string, values []string) error {
	return t.add(&Column{Name: name, Kind: Categorical, Labels: append([]string(nil), values...)})
}

func (t *Table) add(c *Column) error {
	if c.Name == "" {
		return core.NewInvalidOperationError("column name cannot be empty")
	}
	if c.Kind != Numeric && c.Kind != Categorical {
		return core.NewInvalidOperationError("column %q has unknown kind %q", c.Name, c.Kind)
	}
	if _, exists := t.index[c.Name]; exists {
		return core.NewInvalidOperationError("duplicate column %q", c.Name)
	}
	if len(t.columns) > 0 && c.Len() != t.rows {
		return core.NewInvalidOperationError("column %q has %d rows, table has %d", c.Name, c.Len(), t.rows)
	}
	if len(t.columns) == 0 {
		t.rows = c.Len()
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.rows
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// ColumnNames returns column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumnNames returns the names of numeric columns in table order
func (t *Table) NumericColumnNames() []string {
	var names []string
	for _, c := range t.columns {
		if c.Kind == Numeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// CategoricalColumnNames returns the names of categorical columns in table order
func (t *Table) CategoricalColumnNames() []string {
	var names []string
	for _, c := range t.columns {
		if c.Kind == Categorical {
			names = append(names, c.Name)
		}
	}
	return names
}

// NumericColumnsExcept is the default factor selection: every numeric
// column other than target, in table order.
func (t *Table) NumericColumnsExcept(target string) []string {
	var names []string
	for _, name := range t.NumericColumnNames() {
		if name != target {
			names = append(names, name)
		}
	}
	return names
}

// Column returns the named column. The returned column must not be modified.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	return t.columns[i], nil
}

// Numeric returns a copy of a numeric column's values
func (t *Table) Numeric(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != Numeric {
		return nil, core.NewInvalidOperationError("column %q is %s, numeric required", name, c.Kind)
	}
	return append([]float64(nil), c.Floats...), nil
}

// Labels returns the column rendered as group labels
func (t *Table) Labels(name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.Label(i)
	}
	return out, nil
}

// Columns returns the table's columns in order. They must not be modified.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// Take builds a new table holding the given rows in the given order
func (t *Table) Take(rows []int) *Table {
	out := New()
	out.rows = len(rows)
	for _, c := range t.columns {
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, c.take(rows))
	}
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := New()
	out.rows = t.rows
	for _, c := range t.columns {
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, c.clone())
	}
	return out
}

// ReplaceWith overwrites the receiver's contents with a copy of other
func (t *Table) ReplaceWith(other *Table) {
	c := other.Clone()
	t.columns = c.columns
	t.index = c.index
	t.rows = c.rows
}

// Group is the set of rows sharing one value of a grouping column
type Group struct {
	Key  string
	Rows []int
}

// GroupBy partitions rows by the named column. Groups are ordered by key
// (numerically for numeric columns); rows with a missing key are dropped.
func (t *Table) GroupBy(name string) ([]Group, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]int)
	var groups []Group
	var numericKeys []float64
	for i := 0; i < t.rows; i++ {
		if c.IsMissing(i) {
			continue
		}
		key := c.Label(i)
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, Group{Key: key})
			if c.Kind == Numeric {
				numericKeys = append(numericKeys, c.Floats[i])
			}
		}
		groups[idx].Rows = append(groups[idx].Rows, i)
	}

	if c.Kind == Numeric {
		order := make([]int, len(groups))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return numericKeys[order[a]] < numericKeys[order[b]] })
		sorted := make([]Group, len(groups))
		for i, idx := range order {
			sorted[i] = groups[idx]
		}
		return sorted, nil
	}

	sort.Slice(groups, func(a, b int) bool { return groups[a].Key < groups[b].Key })
	return groups, nil
}
