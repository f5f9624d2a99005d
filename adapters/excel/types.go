package excel

// RawData is the header and string cells of a sheet before typing
type RawData struct {
	Headers []string
	Rows    [][]string
}

// cell returns row i, column j, or "" for short rows
func (d *RawData) cell(i, j int) string {
	row := d.Rows[i]
	if j >= len(row) {
		return ""
	}
	return row[j]
}
