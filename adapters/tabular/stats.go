package tabular

import (
	"github.com/montanaflynn/stats"
)

// ColumnSummary describes one column of an uploaded batch for the preview
type ColumnSummary struct {
	Name    string  `json:"name"`
	Numeric bool    `json:"numeric"`
	Min     float64 `json:"min"`
	Median  float64 `json:"median"`
	Max     float64 `json:"max"`
	Missing int     `json:"missing"`
}

// numericThreshold is the share of non-empty cells that must parse as
// numbers before a column is profiled numerically.
const numericThreshold = 0.9

// Summarize profiles every column of the table. Non-numeric columns only
// report their missing-cell count.
func Summarize(t *Table) []ColumnSummary {
	summaries := make([]ColumnSummary, 0, len(t.Columns))
	for _, col := range t.Columns {
		summaries = append(summaries, summarizeColumn(t, col))
	}
	return summaries
}

func summarizeColumn(t *Table, col string) ColumnSummary {
	summary := ColumnSummary{Name: col}

	values := make([]float64, 0, t.NumRows())
	nonEmpty := 0
	for i := range t.Rows {
		raw := t.Cell(i, col)
		if raw == "" {
			summary.Missing++
			continue
		}
		nonEmpty++
		if v, ok := t.Float(i, col); ok {
			values = append(values, v)
		}
	}

	if nonEmpty == 0 || float64(len(values))/float64(nonEmpty) < numericThreshold {
		return summary
	}

	summary.Numeric = true
	// stats errors only fire on empty input, excluded above
	summary.Min, _ = stats.Min(values)
	summary.Median, _ = stats.Median(values)
	summary.Max, _ = stats.Max(values)
	return summary
}
