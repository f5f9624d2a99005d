package ports

import "edakit/domain/table"

// TableReader loads a dataset into memory
type TableReader interface {
	ReadTable() (*table.Table, error)
}

// TableWriter stores a dataset
type TableWriter interface {
	WriteTable(path string, t *table.Table) error
}
