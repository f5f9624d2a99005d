package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"edakit/domain/table"
	apperrors "edakit/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Writer stores tables as CSV or XLSX, chosen by file extension
type Writer struct {
	// Sheet names the xlsx worksheet; defaults to "Sheet1".
	Sheet string
}

// WriteTable writes t with a header row. Missing values are written as empty cells.
func (w Writer) WriteTable(path string, t *table.Table) error {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return w.writeCSV(path, t)
	}
	return w.writeXLSX(path, t)
}

func (w Writer) writeCSV(path string, t *table.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.IOError("failed to create CSV file", err)
	}
	defer file.Close()

	out := csv.NewWriter(file)
	if err := out.Write(t.ColumnNames()); err != nil {
		return apperrors.IOError("failed to write CSV header", err)
	}
	columns := t.Columns()
	record := make([]string, len(columns))
	for i := 0; i < t.Len(); i++ {
		for j, c := range columns {
			record[j] = c.Label(i)
		}
		if err := out.Write(record); err != nil {
			return apperrors.IOError("failed to write CSV row", err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return apperrors.IOError("failed to flush CSV file", err)
	}
	return nil
}

func (w Writer) writeXLSX(path string, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != f.GetSheetName(0) {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return apperrors.IOError("failed to name sheet", err)
		}
	}

	for j, c := range t.Columns() {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return apperrors.IOError("failed to address header cell", err)
		}
		if err := f.SetCellValue(sheet, cell, c.Name); err != nil {
			return apperrors.IOError("failed to write header", err)
		}
		for i := 0; i < t.Len(); i++ {
			if c.IsMissing(i) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return apperrors.IOError("failed to address cell", err)
			}
			var value interface{} = c.Label(i)
			if c.Kind == table.Numeric {
				value = c.Floats[i]
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return apperrors.IOError("failed to write cell", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.IOError("failed to save Excel file", err)
	}
	return nil
}
