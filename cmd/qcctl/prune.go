package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"beqc/adapters/sqlite"
)

var pruneKeep int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Trim run history to the newest N runs",
	RunE:  runPrune,
}

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", 50, "number of runs to keep")
}

func runPrune(cmd *cobra.Command, args []string) error {
	if pruneKeep < 0 {
		return fmt.Errorf("--keep must not be negative")
	}

	db, err := sqlite.Open(cfg.Paths.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	pruned, err := sqlite.NewRunRepository(db).Prune(cmd.Context(), pruneKeep)
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d runs, kept the newest %d\n", pruned, pruneKeep)
	return nil
}
