package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"beqc/adapters/predict"
	"beqc/adapters/tabular"
	"beqc/domain/survey"
	"beqc/internal/lookup"
)

// WriteLookupFixtures writes the two lookup tables for the synthetic
// hierarchy into dir, so a demo environment can serve the cascades.
func WriteLookupFixtures(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create lookup directory: %w", err)
	}

	sectorTable := tabular.NewTable(survey.ColSector, survey.ColSubsector, survey.ColMSIC)
	for _, s := range sectorPool {
		for _, sub := range s.subs {
			for _, code := range sub.codes {
				sectorTable.AppendRow(tabular.Row{
					survey.ColSector:    s.sector,
					survey.ColSubsector: sub.sub,
					survey.ColMSIC:      code,
				})
			}
		}
	}
	if err := writeCSVFile(filepath.Join(dir, lookup.SectorFile), sectorTable); err != nil {
		return err
	}

	geoTable := tabular.NewTable(survey.ColState, survey.ColDistrict)
	for _, g := range geoPool {
		for _, d := range g.districts {
			geoTable.AppendRow(tabular.Row{
				survey.ColState:    g.state,
				survey.ColDistrict: d,
			})
		}
	}
	return writeCSVFile(filepath.Join(dir, lookup.GeoFile), geoTable)
}

// WriteModelFixtures writes one quantile model per target into dir. The
// coefficients mirror the generator's data process closely enough that
// generated batches score with mostly-within flags.
func WriteModelFixtures(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	for _, target := range survey.AllTargets() {
		model := fixtureModel(target)
		raw, err := json.MarshalIndent(model, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal model for %s: %w", target, err)
		}
		path := filepath.Join(dir, predict.ModelFileName(target))
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("failed to write model %s: %w", path, err)
		}
	}
	return nil
}

// fixtureModel builds a median head from hand-set elasticities plus a
// sigma wide enough to absorb the generator's noise. The target's own
// column gets zero weight; it is listed only so the reported value is
// required to be present.
func fixtureModel(target survey.Target) predict.Model {
	elasticities := map[survey.Target]struct {
		intercept float64
		coef      map[string]float64
	}{
		survey.TargetOutput: {1.4, map[string]float64{
			"JUMLAH_PEKERJA": 0.55, "HARTA_TETAP": 0.18, "GAJI_UPAH": 0.52, "OUTPUT": 0,
		}},
		survey.TargetInput: {0.7, map[string]float64{
			"JUMLAH_PEKERJA": 0.1, "HARTA_TETAP": 0.05, "OUTPUT": 0.88, "INPUT": 0,
		}},
		survey.TargetValueAdded: {0.2, map[string]float64{
			"OUTPUT": 0.75, "INPUT": 0.12, "JUMLAH_PEKERJA": 0.08, "HARTA_TETAP": 0.02, "NILAI_DITAMBAH": 0,
		}},
		survey.TargetWages: {9.9, map[string]float64{
			"JUMLAH_PEKERJA": 0.95, "OUTPUT": 0.02, "HARTA_TETAP": 0.01, "GAJI_UPAH": 0,
		}},
		survey.TargetEmployees: {-9.6, map[string]float64{
			"OUTPUT": 0.03, "INPUT": 0, "NILAI_DITAMBAH": 0,
			"GAJI_UPAH": 0.92, "HARTA_TETAP": 0, "JUMLAH_PEKERJA": 0,
		}},
	}

	e := elasticities[target]
	return predict.Model{
		Target:   string(target),
		Features: target.Features(),
		Heads: map[string]predict.Head{
			predict.HeadMed: {Intercept: e.intercept, Coef: e.coef},
		},
		Sigma:     0.45,
		TrainedAt: "2026-05-18",
	}
}

func writeCSVFile(path string, table *tabular.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := tabular.WriteCSV(f, table); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
