// Package workbook turns spreadsheet uploads into a plain header/rows table.
package workbook

import "strings"

// Table is the first sheet of a workbook: a header row plus data rows.
// Cell values are raw strings; typing happens later in the invoice pipeline.
type Table struct {
	Headers []string
	Rows    []Row
}

// Row is one data row of the sheet
type Row struct {
	Number int      // 1-based row number in the sheet, header is row 1
	Cells  []string // aligned with Table.Headers
}

// NewTable builds a table from raw sheet rows; the first row is the header.
// Blank rows are skipped and short rows are padded to the header width.
func NewTable(raw [][]string) *Table {
	t := &Table{}
	if len(raw) == 0 {
		return t
	}

	t.Headers = make([]string, len(raw[0]))
	for i, h := range raw[0] {
		t.Headers[i] = strings.TrimSpace(h)
	}
	// Drop trailing empty header cells left by formatted but unused columns
	for len(t.Headers) > 0 && t.Headers[len(t.Headers)-1] == "" {
		t.Headers = t.Headers[:len(t.Headers)-1]
	}

	for i, cells := range raw[1:] {
		if isBlank(cells) {
			continue
		}
		row := Row{Number: i + 2, Cells: make([]string, len(t.Headers))}
		copy(row.Cells, cells)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ColumnIndex returns the position of the named column or -1
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Value returns the cell at idx, or "" when idx is out of range
func (r Row) Value(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return r.Cells[idx]
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
