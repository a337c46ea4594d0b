package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"beqc/internal/lookup"
)

var (
	lookupDir       string
	lookupSector    string
	lookupSubsector string
	lookupState     string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [sectors|subsectors|msic|states|districts]",
	Short: "Query the classification lookup tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupDir, "dir", "", "lookup directory (defaults to LOOKUP_DIR)")
	lookupCmd.Flags().StringVar(&lookupSector, "sector", "", "sector for subsectors/msic queries")
	lookupCmd.Flags().StringVar(&lookupSubsector, "subsector", "", "subsector for msic queries")
	lookupCmd.Flags().StringVar(&lookupState, "state", "", "state for district queries")
}

func runLookup(cmd *cobra.Command, args []string) error {
	dir := lookupDir
	if dir == "" {
		dir = cfg.Paths.LookupDir
	}
	catalog, err := lookup.Load(dir)
	if err != nil {
		return err
	}

	var values []string
	switch args[0] {
	case "sectors":
		values = catalog.Sectors()
	case "subsectors":
		if lookupSector == "" {
			return fmt.Errorf("subsectors needs --sector")
		}
		values = catalog.Subsectors(lookupSector)
	case "msic":
		if lookupSector == "" || lookupSubsector == "" {
			return fmt.Errorf("msic needs --sector and --subsector")
		}
		values = catalog.MSICCodes(lookupSector, lookupSubsector)
	case "states":
		values = catalog.States()
	case "districts":
		if lookupState == "" {
			return fmt.Errorf("districts needs --state")
		}
		values = catalog.Districts(lookupState)
	default:
		return fmt.Errorf("unknown lookup %q", args[0])
	}

	for _, v := range values {
		fmt.Println(v)
	}
	return nil
}
