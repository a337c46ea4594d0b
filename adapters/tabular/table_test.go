package tabular

import (
	"testing"
)

func sampleTable() *Table {
	t := NewTable("SEKTOR", "OUTPUT", "GAJI_UPAH")
	t.AppendRow(Row{"SEKTOR": "S1", "OUTPUT": "100", "GAJI_UPAH": "40"})
	t.AppendRow(Row{"SEKTOR": "S2", "OUTPUT": "250.5", "GAJI_UPAH": ""})
	return t
}

func TestTableFloat(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		name   string
		row    int
		col    string
		want   float64
		wantOK bool
	}{
		{"plain integer", 0, "OUTPUT", 100, true},
		{"decimal", 1, "OUTPUT", 250.5, true},
		{"blank cell", 1, "GAJI_UPAH", 0, false},
		{"non-numeric", 0, "SEKTOR", 0, false},
		{"missing column", 0, "NOPE", 0, false},
		{"row out of range", 9, "OUTPUT", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Float(tt.row, tt.col)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Float(%d, %q) = %v, %v; want %v, %v", tt.row, tt.col, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTableFloatThousandsSeparator(t *testing.T) {
	table := NewTable("OUTPUT")
	table.AppendRow(Row{"OUTPUT": "1,234,567.8"})
	got, ok := table.Float(0, "OUTPUT")
	if !ok || got != 1234567.8 {
		t.Errorf("Float with separators = %v, %v; want 1234567.8, true", got, ok)
	}
}

func TestEnsureColumnAndSetCell(t *testing.T) {
	table := sampleTable()
	table.SetCell(0, "OUTPUT_PRED_MED", "120")

	if !table.HasColumn("OUTPUT_PRED_MED") {
		t.Fatal("SetCell should register the new column")
	}
	if table.Columns[len(table.Columns)-1] != "OUTPUT_PRED_MED" {
		t.Error("new column should append at the end of the order")
	}
	if got := table.Cell(0, "OUTPUT_PRED_MED"); got != "120" {
		t.Errorf("Cell = %q, want 120", got)
	}
	if got := table.Cell(1, "OUTPUT_PRED_MED"); got != "" {
		t.Errorf("untouched row should stay empty, got %q", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	table := sampleTable()
	clone := table.Clone()
	clone.SetCell(0, "OUTPUT", "999")
	clone.EnsureColumn("EXTRA")

	if table.Cell(0, "OUTPUT") != "100" {
		t.Error("mutating the clone changed the original cell")
	}
	if table.HasColumn("EXTRA") {
		t.Error("mutating the clone changed the original columns")
	}
}

func TestFingerprint(t *testing.T) {
	a := sampleTable()
	b := sampleTable()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical tables should fingerprint equal")
	}

	b.SetCell(0, "OUTPUT", "101")
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("changed cell should change the fingerprint")
	}

	c := sampleTable()
	c.Rows[0], c.Rows[1] = c.Rows[1], c.Rows[0]
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("row order is part of the fingerprint")
	}
}

func TestValidate(t *testing.T) {
	empty := &Table{}
	if err := empty.Validate(); err == nil {
		t.Error("headerless table should fail validation")
	}

	headerOnly := NewTable("A")
	if err := headerOnly.Validate(); err == nil {
		t.Error("table without data rows should fail validation")
	}

	if err := sampleTable().Validate(); err != nil {
		t.Errorf("valid table failed validation: %v", err)
	}
}
