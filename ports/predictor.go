package ports

import (
	"context"

	"beqc/adapters/tabular"
)

// Predictor scores a table of establishment records against trained
// quantile models. The result carries every input column plus, for each
// target the backend can score, `{TARGET}_PRED_LOW`, `{TARGET}_PRED_MED`
// and `{TARGET}_PRED_UP` columns. Row count and row order are preserved.
type Predictor interface {
	Predict(ctx context.Context, table *tabular.Table, modelDir string) (*tabular.Table, error)

	// Mode names the backend for logs and run records
	Mode() string
}
