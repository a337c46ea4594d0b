package predict

import (
	"context"
	"testing"

	"beqc/adapters/tabular"
	"beqc/domain/qc"
	"beqc/domain/survey"
)

func batchTable() *tabular.Table {
	t := tabular.NewTable("SEKTOR", "JUMLAH_PEKERJA", "HARTA_TETAP", "GAJI_UPAH", "OUTPUT")
	t.AppendRow(tabular.Row{"SEKTOR": "S1", "JUMLAH_PEKERJA": "42", "HARTA_TETAP": "150000", "GAJI_UPAH": "98000", "OUTPUT": "820000"})
	t.AppendRow(tabular.Row{"SEKTOR": "S2", "JUMLAH_PEKERJA": "17", "HARTA_TETAP": "90000", "GAJI_UPAH": "41000", "OUTPUT": "455000"})
	t.AppendRow(tabular.Row{"SEKTOR": "S3", "JUMLAH_PEKERJA": "", "HARTA_TETAP": "90000", "GAJI_UPAH": "41000", "OUTPUT": "455000"})
	return t
}

func outputModel() Model {
	coef := map[string]float64{"JUMLAH_PEKERJA": 0.2, "HARTA_TETAP": 0.3, "GAJI_UPAH": 0.4, "OUTPUT": 0.1}
	return Model{
		Target:   "OUTPUT",
		Features: survey.TargetOutput.Features(),
		Heads: map[string]Head{
			HeadLow: {Intercept: -0.4, Coef: coef},
			HeadMed: {Intercept: 0, Coef: coef},
			HeadUp:  {Intercept: 0.4, Coef: coef},
		},
	}
}

func TestQuantilePredict(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, outputModel())

	input := batchTable()
	p := NewQuantilePredictor(0.90)

	result, err := p.Predict(context.Background(), input, dir)
	if err != nil {
		t.Fatalf("Predict error = %v", err)
	}

	if result.NumRows() != input.NumRows() {
		t.Fatalf("result rows = %d, want %d", result.NumRows(), input.NumRows())
	}

	// row order preserved
	for i := range input.Rows {
		if result.Cell(i, "SEKTOR") != input.Cell(i, "SEKTOR") {
			t.Errorf("row %d reordered: %q vs %q", i, result.Cell(i, "SEKTOR"), input.Cell(i, "SEKTOR"))
		}
	}

	// input never mutated
	if input.HasColumn("OUTPUT_PRED_MED") {
		t.Error("Predict must not mutate its input table")
	}

	for _, col := range []string{"OUTPUT_PRED_LOW", "OUTPUT_PRED_MED", "OUTPUT_PRED_UP"} {
		if !result.HasColumn(col) {
			t.Fatalf("result missing column %s", col)
		}
	}

	// scored rows carry an ordered band
	for _, i := range []int{0, 1} {
		low, okL := result.Float(i, "OUTPUT_PRED_LOW")
		med, okM := result.Float(i, "OUTPUT_PRED_MED")
		up, okU := result.Float(i, "OUTPUT_PRED_UP")
		if !okL || !okM || !okU {
			t.Fatalf("row %d band did not parse", i)
		}
		if !(low <= med && med <= up) {
			t.Errorf("row %d band out of order: %v/%v/%v", i, low, med, up)
		}
	}

	// the row with a blank feature stays unscored
	if got := result.Cell(2, "OUTPUT_PRED_MED"); got != "" {
		t.Errorf("incomplete row should stay unscored, got %q", got)
	}
}

func TestQuantilePredictSkipsUnmodeledTargets(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, outputModel())

	result, err := NewQuantilePredictor(0.90).Predict(context.Background(), batchTable(), dir)
	if err != nil {
		t.Fatalf("Predict error = %v", err)
	}

	if result.HasColumn("GAJI_UPAH_PRED_MED") {
		t.Error("target without a model file must stay unscored")
	}
}

func TestQuantilePredictSkipsTargetsWithMissingColumns(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, outputModel())

	// NILAI_DITAMBAH needs INPUT which this table lacks
	wagesCoef := map[string]float64{"OUTPUT": 0.5, "INPUT": 0.5, "JUMLAH_PEKERJA": 0.1, "HARTA_TETAP": 0.1, "NILAI_DITAMBAH": 0.1}
	writeModel(t, dir, Model{
		Target:   "NILAI_DITAMBAH",
		Features: survey.TargetValueAdded.Features(),
		Heads: map[string]Head{
			HeadLow: {Intercept: -0.3, Coef: wagesCoef},
			HeadMed: {Intercept: 0, Coef: wagesCoef},
			HeadUp:  {Intercept: 0.3, Coef: wagesCoef},
		},
	})

	result, err := NewQuantilePredictor(0.90).Predict(context.Background(), batchTable(), dir)
	if err != nil {
		t.Fatalf("Predict error = %v", err)
	}
	if result.HasColumn("NILAI_DITAMBAH_PRED_MED") {
		t.Error("target with missing feature columns must stay unscored")
	}
	if !result.HasColumn("OUTPUT_PRED_MED") {
		t.Error("the modeled target with complete columns should still score")
	}
}

func TestQuantilePredictFeedsFlagging(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, outputModel())

	result, err := NewQuantilePredictor(0.90).Predict(context.Background(), batchTable(), dir)
	if err != nil {
		t.Fatalf("Predict error = %v", err)
	}

	summary, err := qc.Annotate(result, survey.TargetOutput)
	if err != nil {
		t.Fatalf("Annotate error = %v", err)
	}
	if summary.Total() != result.NumRows() {
		t.Errorf("summary covers %d rows, want %d", summary.Total(), result.NumRows())
	}
	if summary.Unscored != 1 {
		t.Errorf("unscored = %d, want 1 for the incomplete row", summary.Unscored)
	}
}

func TestQuantilePredictEmptyTable(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, outputModel())

	empty := tabular.NewTable("OUTPUT")
	if _, err := NewQuantilePredictor(0.90).Predict(context.Background(), empty, dir); err == nil {
		t.Fatal("expected error for table without rows")
	}
}

func TestMockPredictor(t *testing.T) {
	mock := &MockPredictor{}
	input := batchTable()

	result, err := mock.Predict(context.Background(), input, "models")
	if err != nil {
		t.Fatal(err)
	}
	if mock.Calls != 1 || mock.LastModelDir != "models" {
		t.Errorf("mock bookkeeping = %d calls, dir %q", mock.Calls, mock.LastModelDir)
	}
	if result.NumRows() != input.NumRows() {
		t.Errorf("default echo should preserve rows")
	}
}
