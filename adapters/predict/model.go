package predict

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"beqc/domain/core"
	"beqc/domain/survey"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Head names inside a model file
const (
	HeadLow = "low"
	HeadMed = "med"
	HeadUp  = "up"
)

// Head is one linear quantile regression fitted in log1p space
type Head struct {
	Intercept float64            `json:"intercept"`
	Coef      map[string]float64 `json:"coef"`
}

// Model is the on-disk format for one target's quantile model. Heads are
// keyed low/med/up; when a band head is missing, Sigma synthesizes it
// around the median at a chosen coverage.
type Model struct {
	Target    string          `json:"target"`
	Features  []string        `json:"features"`
	Heads     map[string]Head `json:"heads"`
	Sigma     float64         `json:"sigma,omitempty"`
	TrainedAt string          `json:"trained_at,omitempty"`
}

// ModelFileName returns the file a target's model lives in
func ModelFileName(target survey.Target) string {
	return strings.ToLower(string(target)) + ".qmodel.json"
}

// LoadModel reads and validates one target's model from the model directory
func LoadModel(dir string, target survey.Target) (*Model, error) {
	path := filepath.Join(dir, ModelFileName(target))
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrModelMissing, target)
		}
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}

	var m Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	if err := m.validate(target); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return &m, nil
}

func (m *Model) validate(target survey.Target) error {
	if !strings.EqualFold(m.Target, string(target)) {
		return fmt.Errorf("model is for %q, expected %q", m.Target, target)
	}
	if len(m.Features) == 0 {
		return fmt.Errorf("model has no features")
	}
	med, ok := m.Heads[HeadMed]
	if !ok {
		return fmt.Errorf("model has no median head")
	}
	for _, f := range m.Features {
		if _, ok := med.Coef[f]; !ok {
			return fmt.Errorf("median head missing coefficient for %s", f)
		}
	}
	if m.Sigma < 0 {
		return fmt.Errorf("sigma must not be negative")
	}
	_, hasLow := m.Heads[HeadLow]
	_, hasUp := m.Heads[HeadUp]
	if (!hasLow || !hasUp) && m.Sigma == 0 {
		return fmt.Errorf("model needs low and up heads or a positive sigma")
	}
	return nil
}

// Score evaluates the band for one feature vector. Inputs arrive in raw
// units and are transformed with log1p; outputs return through expm1 and
// are floored at zero. The band edges are kept ordered around the median.
func (m *Model) Score(values survey.NumMap, coverage float64) Band {
	logs := make([]float64, len(m.Features))
	for i, f := range m.Features {
		logs[i] = math.Log1p(values[f])
	}

	med := m.evalHead(m.Heads[HeadMed], logs)

	low, hasLow := m.headValue(HeadLow, logs)
	up, hasUp := m.headValue(HeadUp, logs)
	if !hasLow || !hasUp {
		z := distuv.UnitNormal.Quantile(0.5 + coverage/2)
		if !hasLow {
			low = med - z*m.Sigma
		}
		if !hasUp {
			up = med + z*m.Sigma
		}
	}

	// quantile heads are fitted independently and can cross on odd inputs
	if low > med {
		low = med
	}
	if up < med {
		up = med
	}

	return Band{
		Low: math.Max(0, math.Expm1(low)),
		Med: math.Max(0, math.Expm1(med)),
		Up:  math.Max(0, math.Expm1(up)),
	}
}

func (m *Model) headValue(name string, logs []float64) (float64, bool) {
	head, ok := m.Heads[name]
	if !ok {
		return 0, false
	}
	return m.evalHead(head, logs), true
}

func (m *Model) evalHead(h Head, logs []float64) float64 {
	coefs := make([]float64, len(m.Features))
	for i, f := range m.Features {
		coefs[i] = h.Coef[f]
	}
	return h.Intercept + floats.Dot(coefs, logs)
}

// Band is a scored range in raw units
type Band struct {
	Low float64
	Med float64
	Up  float64
}
