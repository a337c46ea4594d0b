package survey

import (
	"fmt"
	"strings"

	"beqc/domain/core"
)

// Target is one of the five survey indicators that gets a predicted range
type Target string

const (
	TargetOutput     Target = "OUTPUT"
	TargetInput      Target = "INPUT"
	TargetValueAdded Target = "NILAI_DITAMBAH"
	TargetWages      Target = "GAJI_UPAH"
	TargetEmployees  Target = "JUMLAH_PEKERJA"
)

// Categorical column names shared by every establishment record
const (
	ColSector    = "SEKTOR"
	ColSubsector = "SUBSEKTOR"
	ColMSIC      = "MSIC_5D"
	ColState     = "NEGERI"
	ColDistrict  = "DAERAH"
)

// ColFixedAssets is the only numeric column that is never itself a target
const ColFixedAssets = "HARTA_TETAP"

// AllTargets returns the targets in their fixed display order
func AllTargets() []Target {
	return []Target{
		TargetOutput,
		TargetInput,
		TargetValueAdded,
		TargetWages,
		TargetEmployees,
	}
}

// featureSets maps each target to the numeric inputs its model consumes.
// The target's own column is last so the reported value travels with the row.
var featureSets = map[Target][]string{
	TargetOutput:     {string(TargetEmployees), ColFixedAssets, string(TargetWages), string(TargetOutput)},
	TargetInput:      {string(TargetEmployees), ColFixedAssets, string(TargetOutput), string(TargetInput)},
	TargetValueAdded: {string(TargetOutput), string(TargetInput), string(TargetEmployees), ColFixedAssets, string(TargetValueAdded)},
	TargetWages:      {string(TargetEmployees), string(TargetOutput), ColFixedAssets, string(TargetWages)},
	TargetEmployees:  {string(TargetOutput), string(TargetInput), string(TargetValueAdded), string(TargetWages), ColFixedAssets, string(TargetEmployees)},
}

var displayNames = map[Target]string{
	TargetOutput:     "Output",
	TargetInput:      "Intermediate Input",
	TargetValueAdded: "Value Added",
	TargetWages:      "Salaries & Wages",
	TargetEmployees:  "Number of Employees",
}

// Features returns the numeric input columns for a target, in form order
func (t Target) Features() []string {
	fs := featureSets[t]
	out := make([]string, len(fs))
	copy(out, fs)
	return out
}

// DisplayName returns the human-readable label for a target
func (t Target) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

func (t Target) String() string { return string(t) }

// IsCount reports whether the target is a whole-number indicator
func (t Target) IsCount() bool {
	return t == TargetEmployees
}

// ParseTarget maps a column name to a Target, case-insensitively
func ParseTarget(s string) (Target, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range AllTargets() {
		if string(t) == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrTargetUnknown, s)
}

// CategoricalColumns returns the identity columns every record carries
func CategoricalColumns() []string {
	return []string{ColSector, ColSubsector, ColMSIC, ColState, ColDistrict}
}
