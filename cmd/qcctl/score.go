package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"beqc/adapters/predict"
	"beqc/adapters/tabular"
	"beqc/app"
	"beqc/domain/survey"
)

var (
	scoreInput  string
	scoreModels string
	scoreTarget string
	scoreOut    string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a survey extract and write the flagged results",
	Long: `Reads a .csv or .xlsx extract, scores every row with the quantile
models, flags the chosen indicator and writes the result table as CSV.
Uses the same code path as a dashboard batch run, minus the history.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreInput, "input", "", "survey extract to score (.csv or .xlsx)")
	scoreCmd.Flags().StringVar(&scoreModels, "models", "", "model directory (defaults to MODEL_DIR)")
	scoreCmd.Flags().StringVar(&scoreTarget, "target", string(survey.TargetOutput), "indicator to flag")
	scoreCmd.Flags().StringVar(&scoreOut, "out", "batch_qc_results.csv", "output CSV path")
	_ = scoreCmd.MarkFlagRequired("input")
}

func runScore(cmd *cobra.Command, args []string) error {
	target, err := survey.ParseTarget(scoreTarget)
	if err != nil {
		return err
	}

	table, err := tabular.NewReader(scoreInput).Read()
	if err != nil {
		return err
	}

	modelDir := scoreModels
	if modelDir == "" {
		modelDir = cfg.Paths.ModelDir
	}

	service := app.NewQCService(
		predict.NewQuantilePredictor(cfg.Predictor.BandCoverage),
		nil, nil,
		app.Config{ModelDir: modelDir},
	)
	result, summary, err := service.ScoreTable(cmd.Context(), table, target)
	if err != nil {
		return err
	}

	out, err := os.Create(scoreOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", scoreOut, err)
	}
	defer out.Close()
	if err := tabular.WriteCSV(out, result); err != nil {
		return err
	}

	fmt.Printf("Scored %d rows for %s\n", result.NumRows(), target.DisplayName())
	fmt.Printf("  below range:  %d\n", summary.Under)
	fmt.Printf("  within range: %d\n", summary.Within)
	fmt.Printf("  above range:  %d\n", summary.Over)
	fmt.Printf("  not scored:   %d\n", summary.Unscored)
	fmt.Printf("Results written to %s\n", scoreOut)
	return nil
}
