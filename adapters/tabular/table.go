package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"beqc/domain/core"
)

// Row holds one record's cells keyed by column name
type Row map[string]string

// Table is an ordered-column, string-celled table. Uploaded batches and
// predictor results both travel in this shape; row order is meaningful.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable creates an empty table with the given column order
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols, Rows: []Row{}}
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// HasColumn reports whether a column exists, exact match
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// EnsureColumn appends a column to the order if it is not already present
func (t *Table) EnsureColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// AppendRow adds a row. Cells for unknown columns are dropped so the
// column order stays the single source of truth.
func (t *Table) AppendRow(cells Row) {
	row := make(Row, len(t.Columns))
	for _, c := range t.Columns {
		if v, ok := cells[c]; ok {
			row[c] = v
		}
	}
	t.Rows = append(t.Rows, row)
}

// Cell returns the raw cell value, empty string when absent
func (t *Table) Cell(i int, col string) string {
	if i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][col]
}

// SetCell writes a cell, registering the column if needed
func (t *Table) SetCell(i int, col, value string) {
	if i < 0 || i >= len(t.Rows) {
		return
	}
	t.EnsureColumn(col)
	if t.Rows[i] == nil {
		t.Rows[i] = make(Row)
	}
	t.Rows[i][col] = value
}

// Float parses a cell as float64. The second return is false for missing,
// blank, or unparseable cells.
func (t *Table) Float(i int, col string) (float64, bool) {
	raw := strings.TrimSpace(t.Cell(i, col))
	if raw == "" {
		return 0, false
	}
	// tolerate thousands separators from spreadsheet exports
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SetFloat writes a numeric cell using a compact decimal rendering
func (t *Table) SetFloat(i int, col string, v float64) {
	t.SetCell(i, col, strconv.FormatFloat(v, 'f', -1, 64))
}

// Clone deep-copies the table
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		cp := make(Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// Fingerprint hashes the table contents. Column order and row order are
// part of the identity.
func (t *Table) Fingerprint() core.Hash {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Columns, "\x1f"))
	sb.WriteByte('\x1e')
	for _, row := range t.Rows {
		for _, c := range t.Columns {
			sb.WriteString(row[c])
			sb.WriteByte('\x1f')
		}
		sb.WriteByte('\x1e')
	}
	return core.NewHash([]byte(sb.String()))
}

// Validate checks the minimal shape contract for an uploaded batch
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table has no header row")
	}
	if len(t.Rows) == 0 {
		return core.ErrEmptyTable
	}
	return nil
}
