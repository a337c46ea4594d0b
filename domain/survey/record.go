package survey

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"beqc/domain/core"
)

// Record is one establishment's reported figures for a QC check
type Record struct {
	Sector    string `json:"sektor"`
	Subsector string `json:"subsektor"`
	MSIC      string `json:"msic_5d"`
	State     string `json:"negeri"`
	District  string `json:"daerah"`
	Target    Target `json:"target"`
	Values    NumMap `json:"values"`
}

// NumMap holds the numeric feature values keyed by column name
type NumMap map[string]float64

// Validate checks the record the way the entry form promises: identity
// fields present, every feature of the target supplied and non-negative,
// employee counts whole numbers.
func (r Record) Validate() error {
	categoricals := map[string]string{
		ColSector:    r.Sector,
		ColSubsector: r.Subsector,
		ColMSIC:      r.MSIC,
		ColState:     r.State,
		ColDistrict:  r.District,
	}
	for _, col := range CategoricalColumns() {
		if strings.TrimSpace(categoricals[col]) == "" {
			return core.NewValidationError(col, "value is required")
		}
	}

	if _, err := ParseTarget(string(r.Target)); err != nil {
		return err
	}

	for _, feature := range r.Target.Features() {
		v, ok := r.Values[feature]
		if !ok {
			return core.NewValidationError(feature, "value is required")
		}
		if err := CheckValue(feature, v); err != nil {
			return err
		}
	}
	return nil
}

// CheckValue enforces the per-column numeric rules
func CheckValue(column string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return core.NewValidationError(column, "value must be a finite number")
	}
	if v < 0 {
		return core.NewValidationError(column, "value must not be negative")
	}
	if column == string(TargetEmployees) && v != math.Trunc(v) {
		return core.NewValidationError(column, "value must be a whole number")
	}
	return nil
}

// ParseValue parses a form field for a column, applying CheckValue rules.
// Employee counts reject fractional text outright rather than rounding.
func ParseValue(column, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, core.NewValidationError(column, "value is required")
	}
	if column == string(TargetEmployees) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, core.NewValidationError(column, "value must be a whole number")
		}
		v := float64(n)
		if err := CheckValue(column, v); err != nil {
			return 0, err
		}
		return v, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, core.NewValidationError(column, "value must be numeric")
	}
	if err := CheckValue(column, v); err != nil {
		return 0, err
	}
	return v, nil
}

// FormatValue renders a numeric cell the way the results table shows it
func FormatValue(column string, v float64) string {
	if column == string(TargetEmployees) {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String summarizes a record for logs
func (r Record) String() string {
	return fmt.Sprintf("%s/%s/%s target=%s", r.Sector, r.Subsector, r.MSIC, r.Target)
}
