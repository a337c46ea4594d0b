package predict

import (
	"context"

	"beqc/adapters/tabular"
)

// MockPredictor is a programmable scoring backend for testing
type MockPredictor struct {
	Response *tabular.Table // Set this for testing
	Error    error          // Set this to simulate errors

	Calls        int
	LastModelDir string
}

func (m *MockPredictor) Mode() string { return "mock" }

func (m *MockPredictor) Predict(ctx context.Context, table *tabular.Table, modelDir string) (*tabular.Table, error) {
	m.Calls++
	m.LastModelDir = modelDir
	if m.Error != nil {
		return nil, m.Error
	}
	if m.Response != nil {
		return m.Response, nil
	}
	// Default: echo the input back unscored
	return table.Clone(), nil
}
