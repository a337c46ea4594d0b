package qc

// Flag is the tri-state QC verdict for one reported value against its
// predicted range. Both range edges count as within.
type Flag string

const (
	FlagUnder  Flag = "UNDER"
	FlagWithin Flag = "WITHIN"
	FlagOver   Flag = "OVER"
	// FlagUnscored marks rows whose actual value or bounds could not be read
	FlagUnscored Flag = "UNSCORED"
)

// Classify places an actual value against the predicted band
func Classify(actual, low, up float64) Flag {
	switch {
	case actual < low:
		return FlagUnder
	case actual > up:
		return FlagOver
	default:
		return FlagWithin
	}
}

// OutOfRange reports whether the flag marks an anomaly
func (f Flag) OutOfRange() bool {
	return f == FlagUnder || f == FlagOver
}

// Label returns the wording shown in result tables
func (f Flag) Label() string {
	switch f {
	case FlagUnder:
		return "Below range"
	case FlagOver:
		return "Above range"
	case FlagWithin:
		return "Within range"
	default:
		return "Not scored"
	}
}

// CSSClass maps a flag to its presentation class
func (f Flag) CSSClass() string {
	switch f {
	case FlagUnder, FlagOver:
		return "flag-out"
	case FlagWithin:
		return "flag-ok"
	default:
		return "flag-none"
	}
}

func (f Flag) String() string { return string(f) }
