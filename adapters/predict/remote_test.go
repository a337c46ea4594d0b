package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"beqc/adapters/tabular"
)

func TestRemotePredict(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req struct {
			ModelDir string         `json:"model_dir"`
			Table    *tabular.Table `json:"table"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}

		scored := req.Table.Clone()
		scored.EnsureColumn("OUTPUT_PRED_LOW")
		scored.EnsureColumn("OUTPUT_PRED_MED")
		scored.EnsureColumn("OUTPUT_PRED_UP")
		for i := range scored.Rows {
			scored.SetFloat(i, "OUTPUT_PRED_LOW", 100)
			scored.SetFloat(i, "OUTPUT_PRED_MED", 200)
			scored.SetFloat(i, "OUTPUT_PRED_UP", 300)
		}
		json.NewEncoder(w).Encode(map[string]*tabular.Table{"table": scored})
	}))
	defer server.Close()

	p, err := NewRemotePredictor(RemoteConfig{BaseURL: server.URL, Token: "sekret", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}

	result, err := p.Predict(context.Background(), batchTable(), "be_qc_models")
	if err != nil {
		t.Fatalf("Predict error = %v", err)
	}

	if gotAuth != "Bearer sekret" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotPath != "/v1/predict" {
		t.Errorf("path = %q, want /v1/predict", gotPath)
	}
	if !result.HasColumn("OUTPUT_PRED_MED") {
		t.Error("result should carry the scored columns")
	}
	if result.NumRows() != 3 {
		t.Errorf("rows = %d, want 3", result.NumRows())
	}
}

func TestRemotePredictHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model explosion", http.StatusInternalServerError)
	}))
	defer server.Close()

	p, err := NewRemotePredictor(RemoteConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Predict(context.Background(), batchTable(), "models"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestRemotePredictRowDrift(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		short := tabular.NewTable("OUTPUT")
		short.AppendRow(tabular.Row{"OUTPUT": "1"})
		json.NewEncoder(w).Encode(map[string]*tabular.Table{"table": short})
	}))
	defer server.Close()

	p, err := NewRemotePredictor(RemoteConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Predict(context.Background(), batchTable(), "models"); err == nil {
		t.Fatal("expected error when the service drops rows")
	}
}

func TestRemotePredictorRequiresURL(t *testing.T) {
	if _, err := NewRemotePredictor(RemoteConfig{}); err == nil {
		t.Fatal("expected error for missing URL")
	}
}
