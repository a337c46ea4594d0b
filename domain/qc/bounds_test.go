package qc

import (
	"errors"
	"testing"

	"beqc/adapters/tabular"
	"beqc/domain/core"
	"beqc/domain/survey"
)

func TestLocateBoundColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		target  survey.Target
		want    BoundColumns
		wantErr bool
	}{
		{
			name:    "canonical names",
			columns: []string{"SEKTOR", "OUTPUT", "OUTPUT_PRED_LOW", "OUTPUT_PRED_MED", "OUTPUT_PRED_UP"},
			target:  survey.TargetOutput,
			want:    BoundColumns{Low: "OUTPUT_PRED_LOW", Med: "OUTPUT_PRED_MED", Up: "OUTPUT_PRED_UP"},
		},
		{
			name:    "case insensitive",
			columns: []string{"output_pred_low", "Output_Pred_Med", "OUTPUT_pred_up"},
			target:  survey.TargetOutput,
			want:    BoundColumns{Low: "output_pred_low", Med: "Output_Pred_Med", Up: "OUTPUT_pred_up"},
		},
		{
			name: "prefixed backend names",
			columns: []string{
				"Q_GAJI_UPAH_PRED_LOW_V2", "Q_GAJI_UPAH_PRED_MED_V2", "Q_GAJI_UPAH_PRED_UP_V2",
			},
			target: survey.TargetWages,
			want: BoundColumns{
				Low: "Q_GAJI_UPAH_PRED_LOW_V2",
				Med: "Q_GAJI_UPAH_PRED_MED_V2",
				Up:  "Q_GAJI_UPAH_PRED_UP_V2",
			},
		},
		{
			name: "scoped to the requested target",
			columns: []string{
				"OUTPUT_PRED_LOW", "OUTPUT_PRED_MED", "OUTPUT_PRED_UP",
				"GAJI_UPAH_PRED_LOW", "GAJI_UPAH_PRED_MED", "GAJI_UPAH_PRED_UP",
			},
			target: survey.TargetWages,
			want: BoundColumns{
				Low: "GAJI_UPAH_PRED_LOW",
				Med: "GAJI_UPAH_PRED_MED",
				Up:  "GAJI_UPAH_PRED_UP",
			},
		},
		{
			name:    "other target bands never answer",
			columns: []string{"GAJI_UPAH_PRED_LOW", "GAJI_UPAH_PRED_MED", "GAJI_UPAH_PRED_UP"},
			target:  survey.TargetOutput,
			wantErr: true,
		},
		{
			name:    "partial band is an error",
			columns: []string{"OUTPUT_PRED_LOW", "OUTPUT_PRED_UP"},
			target:  survey.TargetOutput,
			wantErr: true,
		},
		{
			name:    "no predictions at all",
			columns: []string{"SEKTOR", "OUTPUT"},
			target:  survey.TargetOutput,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocateBoundColumns(tt.columns, tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				if !errors.Is(err, core.ErrBoundsNotFound) {
					t.Errorf("error should wrap ErrBoundsNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LocateBoundColumns = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocateBoundColumnsFirstMatchWins(t *testing.T) {
	columns := []string{"OUTPUT_PRED_LOW", "TOTAL_OUTPUT_PRED_LOW", "OUTPUT_PRED_MED", "OUTPUT_PRED_UP"}
	got, err := LocateBoundColumns(columns, survey.TargetOutput)
	if err != nil {
		t.Fatal(err)
	}
	if got.Low != "OUTPUT_PRED_LOW" {
		t.Errorf("Low = %q, want first match in column order", got.Low)
	}
}

func TestBandForRow(t *testing.T) {
	table := tabular.NewTable("OUTPUT", "OUTPUT_PRED_LOW", "OUTPUT_PRED_MED", "OUTPUT_PRED_UP")
	table.AppendRow(tabular.Row{"OUTPUT": "15", "OUTPUT_PRED_LOW": "10", "OUTPUT_PRED_MED": "14", "OUTPUT_PRED_UP": "20"})
	table.AppendRow(tabular.Row{"OUTPUT": "15", "OUTPUT_PRED_LOW": "", "OUTPUT_PRED_MED": "14", "OUTPUT_PRED_UP": "20"})

	bc, err := LocateBoundColumns(table.Columns, survey.TargetOutput)
	if err != nil {
		t.Fatal(err)
	}

	band, ok := BandForRow(table, 0, bc)
	if !ok {
		t.Fatal("row 0 band should parse")
	}
	if band.Low != 10 || band.Median != 14 || band.Up != 20 {
		t.Errorf("band = %+v, want 10/14/20", band)
	}

	if _, ok := BandForRow(table, 1, bc); ok {
		t.Error("row 1 has a blank bound and should not parse")
	}
}

func TestAnnotate(t *testing.T) {
	table := tabular.NewTable("SEKTOR", "OUTPUT", "OUTPUT_PRED_LOW", "OUTPUT_PRED_MED", "OUTPUT_PRED_UP")
	table.AppendRow(tabular.Row{"SEKTOR": "S1", "OUTPUT": "5", "OUTPUT_PRED_LOW": "10", "OUTPUT_PRED_MED": "15", "OUTPUT_PRED_UP": "20"})
	table.AppendRow(tabular.Row{"SEKTOR": "S1", "OUTPUT": "15", "OUTPUT_PRED_LOW": "10", "OUTPUT_PRED_MED": "15", "OUTPUT_PRED_UP": "20"})
	table.AppendRow(tabular.Row{"SEKTOR": "S1", "OUTPUT": "25", "OUTPUT_PRED_LOW": "10", "OUTPUT_PRED_MED": "15", "OUTPUT_PRED_UP": "20"})
	table.AppendRow(tabular.Row{"SEKTOR": "S1", "OUTPUT": "", "OUTPUT_PRED_LOW": "10", "OUTPUT_PRED_MED": "15", "OUTPUT_PRED_UP": "20"})

	summary, err := Annotate(table, survey.TargetOutput)
	if err != nil {
		t.Fatalf("Annotate error = %v", err)
	}

	if summary.Under != 1 || summary.Within != 1 || summary.Over != 1 || summary.Unscored != 1 {
		t.Errorf("summary = %+v, want 1/1/1/1", summary)
	}
	if !table.HasColumn("OUTPUT_FLAG") {
		t.Fatal("Annotate should add the flag column")
	}

	flags := RowFlags(table, survey.TargetOutput)
	want := []Flag{FlagUnder, FlagWithin, FlagOver, FlagUnscored}
	for i, f := range want {
		if flags[i] != f {
			t.Errorf("row %d flag = %v, want %v", i, flags[i], f)
		}
	}
}

func TestAnnotateNoBounds(t *testing.T) {
	table := tabular.NewTable("SEKTOR", "OUTPUT")
	table.AppendRow(tabular.Row{"SEKTOR": "S1", "OUTPUT": "5"})

	if _, err := Annotate(table, survey.TargetOutput); err == nil {
		t.Fatal("Annotate without bound columns should fail")
	}
}
