package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"beqc/adapters/tabular"
	"beqc/domain/core"
	"beqc/ports"
)

// RemoteConfig configures the external scoring service client
type RemoteConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// NewRemotePredictor creates a client for an external scoring service
func NewRemotePredictor(config RemoteConfig) (ports.Predictor, error) {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("missing scoring service URL")
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &remotePredictor{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   config.Token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type remotePredictor struct {
	baseURL string
	token   string
	client  *http.Client
}

func (c *remotePredictor) Mode() string { return "remote" }

func (c *remotePredictor) Predict(ctx context.Context, table *tabular.Table, modelDir string) (*tabular.Table, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	type reqBody struct {
		ModelDir string         `json:"model_dir"`
		Table    *tabular.Table `json:"table"`
	}
	raw, err := json.Marshal(reqBody{ModelDir: modelDir, Table: table})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/v1/predict"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scoring http %d: %s", resp.StatusCode, string(respRaw))
	}

	type respBody struct {
		Table *tabular.Table `json:"table"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if decoded.Table == nil {
		return nil, fmt.Errorf("scoring response missing table")
	}
	if decoded.Table.NumRows() != table.NumRows() {
		return nil, fmt.Errorf("%w: sent %d rows, got %d",
			core.ErrRowCountDrift, table.NumRows(), decoded.Table.NumRows())
	}
	return decoded.Table, nil
}
