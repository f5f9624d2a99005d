package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"edakit/domain/table"
	"edakit/internal"
	apperrors "edakit/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   Config
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(filePath, DefaultConfig(), nil)
}

// NewDataReaderWithConfig creates a reader with explicit settings
func NewDataReaderWithConfig(filePath string, config Config, logger *internal.Logger) *DataReader {
	return &DataReader{
		filePath: filePath,
		fileType: fileType(filePath),
		config:   config,
		logger:   logger.OrDefault(),
	}
}

func fileType(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return "csv"
	}
	return "xlsx"
}

// ReadTable reads the file into a typed table
func (r *DataReader) ReadTable() (*table.Table, error) {
	raw, err := r.ReadRaw()
	if err != nil {
		return nil, err
	}
	t, err := r.buildTable(raw)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	return t, nil
}

// ReadRaw reads the header row and string cells without typing them
func (r *DataReader) ReadRaw() (*RawData, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, apperrors.IOError(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath), err)
	}

	var rows [][]string
	var err error
	readStart := time.Now()
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	r.logger.Info("[DataReader] %s read in %.2fms (%d rows)", r.filePath, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 || len(rows[0]) == 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s file must have a header row", strings.ToUpper(r.fileType)))
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}
	return &RawData{Headers: headers, Rows: rows[1:]}, nil
}

// readExcelRows reads the configured sheet, or the first one
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.IOError("failed to open Excel file", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.IOError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.IOError("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.IOError("failed to read CSV file", err)
	}
	return rows, nil
}

// buildTable types every column: numeric when each non-missing cell parses
// as a float, categorical otherwise.
func (r *DataReader) buildTable(raw *RawData) (*table.Table, error) {
	t := table.New()
	for j, name := range raw.Headers {
		floats, numeric := r.parseNumeric(raw, j)
		var err error
		if numeric {
			err = t.AddNumeric(name, floats)
		} else {
			err = t.AddCategorical(name, r.parseLabels(raw, j))
		}
		if err != nil {
			return nil, err
		}
	}

	r.logger.Debug("[DataReader] %s typed (%d numeric, %d categorical, %d rows)",
		r.filePath, len(t.NumericColumnNames()), len(t.CategoricalColumnNames()), t.Len())
	return t, nil
}

func (r *DataReader) parseNumeric(raw *RawData, j int) ([]float64, bool) {
	out := make([]float64, len(raw.Rows))
	for i := range raw.Rows {
		cell := strings.TrimSpace(raw.cell(i, j))
		if r.config.isMissing(cell) {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsInf(v, 0) {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (r *DataReader) parseLabels(raw *RawData, j int) []string {
	out := make([]string, len(raw.Rows))
	for i := range raw.Rows {
		cell := strings.TrimSpace(raw.cell(i, j))
		if !r.config.isMissing(cell) {
			out[i] = cell
		}
	}
	return out
}
