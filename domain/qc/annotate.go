package qc

import (
	"beqc/adapters/tabular"
	"beqc/domain/survey"
)

// FlagSummary counts flags across a scored table
type FlagSummary struct {
	Under    int `json:"under"`
	Within   int `json:"within"`
	Over     int `json:"over"`
	Unscored int `json:"unscored"`
}

// Total returns the number of rows the summary covers
func (s FlagSummary) Total() int {
	return s.Under + s.Within + s.Over + s.Unscored
}

// OutOfRange returns the count of anomalous rows
func (s FlagSummary) OutOfRange() int {
	return s.Under + s.Over
}

// Add folds one flag into the summary
func (s *FlagSummary) Add(f Flag) {
	switch f {
	case FlagUnder:
		s.Under++
	case FlagWithin:
		s.Within++
	case FlagOver:
		s.Over++
	default:
		s.Unscored++
	}
}

// FlagColumn names the annotation column added for a target
func FlagColumn(target survey.Target) string {
	return string(target) + "_FLAG"
}

// Annotate flags every row of a scored table for one target, appending a
// `{TARGET}_FLAG` column in place. Rows whose actual value or band cannot
// be read are marked unscored rather than failing the table.
func Annotate(t *tabular.Table, target survey.Target) (FlagSummary, error) {
	bc, err := LocateBoundColumns(t.Columns, target)
	if err != nil {
		return FlagSummary{}, err
	}

	var summary FlagSummary
	flagCol := FlagColumn(target)
	t.EnsureColumn(flagCol)
	for i := range t.Rows {
		flag := FlagUnscored
		band, okBand := BandForRow(t, i, bc)
		actual, okActual := t.Float(i, string(target))
		if okBand && okActual {
			flag = Classify(actual, band.Low, band.Up)
		}
		t.SetCell(i, flagCol, string(flag))
		summary.Add(flag)
	}
	return summary, nil
}

// RowFlags extracts per-row flags for one target from an annotated table.
// Missing annotation cells come back as unscored.
func RowFlags(t *tabular.Table, target survey.Target) []Flag {
	flagCol := FlagColumn(target)
	flags := make([]Flag, t.NumRows())
	for i := range t.Rows {
		switch Flag(t.Cell(i, flagCol)) {
		case FlagUnder:
			flags[i] = FlagUnder
		case FlagWithin:
			flags[i] = FlagWithin
		case FlagOver:
			flags[i] = FlagOver
		default:
			flags[i] = FlagUnscored
		}
	}
	return flags
}
