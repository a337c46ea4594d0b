package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV streams the table as comma-delimited text with a header row.
// Cells are emitted in column order; missing cells become empty fields.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, col := range t.Columns {
			record[j] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeCSV renders the table to an in-memory CSV payload
func EncodeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
