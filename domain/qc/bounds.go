package qc

import (
	"fmt"
	"strings"

	"beqc/adapters/tabular"
	"beqc/domain/core"
	"beqc/domain/survey"
)

// Bound column name fragments. Scoring backends are free to prefix or
// suffix their columns; a column belongs to a target's band when it
// contains the target name and one of these markers, case-insensitively.
const (
	markerLow = "_PRED_LOW"
	markerMed = "_PRED_MED"
	markerUp  = "_PRED_UP"
)

// BoundColumns names the three band columns resolved for a target
type BoundColumns struct {
	Low string
	Med string
	Up  string
}

// LocateBoundColumns finds the band columns for a target in table column
// order, first match per marker. The search is scoped to the target so one
// target's band never answers for another.
func LocateBoundColumns(columns []string, target survey.Target) (BoundColumns, error) {
	var bc BoundColumns
	targetFrag := strings.ToUpper(string(target))
	for _, col := range columns {
		upper := strings.ToUpper(col)
		if !strings.Contains(upper, targetFrag) {
			continue
		}
		switch {
		case bc.Low == "" && strings.Contains(upper, markerLow):
			bc.Low = col
		case bc.Med == "" && strings.Contains(upper, markerMed):
			bc.Med = col
		case bc.Up == "" && strings.Contains(upper, markerUp):
			bc.Up = col
		}
	}
	if bc.Low == "" || bc.Med == "" || bc.Up == "" {
		return BoundColumns{}, fmt.Errorf("%w: %s", core.ErrBoundsNotFound, target)
	}
	return bc, nil
}

// Band is one row's predicted range for a target
type Band struct {
	Low    float64
	Median float64
	Up     float64
}

// BandForRow reads a row's band through resolved bound columns. The bool
// is false when any of the three cells is missing or non-numeric.
func BandForRow(t *tabular.Table, row int, bc BoundColumns) (Band, bool) {
	low, okL := t.Float(row, bc.Low)
	med, okM := t.Float(row, bc.Med)
	up, okU := t.Float(row, bc.Up)
	if !okL || !okM || !okU {
		return Band{}, false
	}
	return Band{Low: low, Median: med, Up: up}, true
}
