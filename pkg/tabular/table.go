// Package tabular reads columnar spreadsheet uploads (CSV and Excel) into a
// header-addressed table.
package tabular

import (
	"strings"
)

// Table is a parsed spreadsheet: one header row plus data rows. Row order is
// preserved from the source file.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Column returns the index of the named header, matched case-insensitively
// after trimming, or -1 when absent.
func (t Table) Column(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value of row at the given column index, tolerating
// short rows.
func (t Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
