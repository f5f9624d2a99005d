package api

import (
	"math"

	"edakit/domain/report"
	"edakit/domain/table"
)

// ColumnPayload is the wire form of a column. Missing numeric values travel as null.
type ColumnPayload struct {
	Name   string     `json:"name"`
	Kind   table.Kind `json:"kind"`
	Floats []*float64 `json:"floats,omitempty"`
	Labels []string   `json:"labels,omitempty"`
}

// TablePayload is the wire form of a table
type TablePayload struct {
	Columns []ColumnPayload `json:"columns"`
}

// ToTable decodes the payload
func (p TablePayload) ToTable() (*table.Table, error) {
	columns := make([]*table.Column, len(p.Columns))
	for i, c := range p.Columns {
		col := &table.Column{Name: c.Name, Kind: c.Kind, Labels: c.Labels}
		if c.Kind == table.Numeric {
			col.Floats = make([]float64, len(c.Floats))
			for j, v := range c.Floats {
				col.Floats[j] = math.NaN()
				if v != nil {
					col.Floats[j] = *v
				}
			}
		}
		columns[i] = col
	}
	return table.FromColumns(columns...)
}

// NewTablePayload encodes a table
func NewTablePayload(t *table.Table) TablePayload {
	var p TablePayload
	for _, c := range t.Columns() {
		col := ColumnPayload{Name: c.Name, Kind: c.Kind}
		if c.Kind == table.Numeric {
			col.Floats = make([]*float64, len(c.Floats))
			for j, v := range c.Floats {
				if !math.IsNaN(v) {
					v := v
					col.Floats[j] = &v
				}
			}
		} else {
			col.Labels = append([]string(nil), c.Labels...)
		}
		p.Columns = append(p.Columns, col)
	}
	return p
}

// OutliersRequest asks for an outlier-trimmed copy of a table
type OutliersRequest struct {
	Table  TablePayload `json:"table"`
	Column string       `json:"column"`
	Group  string       `json:"group,omitempty"`
	K      *float64     `json:"k,omitempty"`
}

// OutliersResponse holds the trimmed table and what was removed
type OutliersResponse struct {
	Table   TablePayload          `json:"table"`
	Summary report.OutlierSummary `json:"summary"`
}

// NormalityRequest lists the columns to check; empty means every numeric column
type NormalityRequest struct {
	Table   TablePayload `json:"table"`
	Columns []string     `json:"columns,omitempty"`
	Alpha   *float64     `json:"alpha,omitempty"`
}

// FactorsRequest is shared by the correlation and eta endpoints. Empty factors
// select numeric columns other than target (correlations) or categorical
// columns (eta).
type FactorsRequest struct {
	Table   TablePayload `json:"table"`
	Target  string       `json:"target"`
	Factors []string     `json:"factors,omitempty"`
}

// GroupTestRequest runs a group comparison
type GroupTestRequest struct {
	Table       TablePayload `json:"table"`
	Target      string       `json:"target"`
	Factor      string       `json:"factor"`
	Alternative string       `json:"alternative,omitempty"`
	Method      string       `json:"method,omitempty"`
}

// GroupTestResponse adds the human summary line to a test result
type GroupTestResponse struct {
	report.GroupTestResult
	Message string `json:"message"`
}

// ReportRequest builds and stores a full run
type ReportRequest struct {
	Table         TablePayload `json:"table"`
	Dataset       string       `json:"dataset,omitempty"`
	Target        string       `json:"target"`
	Alpha         *float64     `json:"alpha,omitempty"`
	Method        string       `json:"method,omitempty"`
	OutlierColumn string       `json:"outlier_column,omitempty"`
	OutlierGroup  string       `json:"outlier_group,omitempty"`
	OutlierK      *float64     `json:"outlier_k,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
