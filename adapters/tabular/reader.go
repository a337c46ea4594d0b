package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Reader handles reading CSV and Excel files into Tables
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader that handles both Excel and CSV files
func NewReader(filePath string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read parses the file into a Table
func (r *Reader) Read() (*Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", r.fileType, err)
	}
	defer f.Close()

	switch r.fileType {
	case "csv":
		return readCSV(f)
	case "xlsx":
		return readExcel(f)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// ReadUpload parses an uploaded file by its original filename extension.
// Accepted extensions are .csv, .xlsx and .xls.
func ReadUpload(rd io.Reader, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(rd)
	case ".xlsx", ".xls":
		return readExcel(rd)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

func readCSV(rd io.Reader) (*Table, error) {
	reader := csv.NewReader(stripBOM(rd))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return fromRawRows(rows, "csv")
}

func readExcel(rd io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel data: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheet = "Sheet1"
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return fromRawRows(rows, "xlsx")
}

// fromRawRows converts raw string rows into a Table. The first row is the
// header; cells beyond the header width are dropped.
func fromRawRows(rows [][]string, kind string) (*Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s data must have at least a header row and one data row", kind)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := NewTable(headers...)
	for i := 1; i < len(rows); i++ {
		row := make(Row, len(headers))
		for j, cell := range rows[i] {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(cell)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	log.WithFields(log.Fields{
		"kind":    kind,
		"columns": len(table.Columns),
		"rows":    table.NumRows(),
	}).Debug("parsed tabular data")

	return table, nil
}

// ParseCSVBytes parses an in-memory CSV payload, used when re-reading a
// stored batch result.
func ParseCSVBytes(data []byte) (*Table, error) {
	return readCSV(bytes.NewReader(data))
}

// stripBOM drops a UTF-8 byte order mark. Excel prepends one when saving
// CSV, which would otherwise end up glued to the first header.
func stripBOM(rd io.Reader) io.Reader {
	br := bufio.NewReader(rd)
	if head, err := br.Peek(3); err == nil && bytes.Equal(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	return br
}
