package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"beqc/internal/config"
)

var (
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "qcctl",
	Short: "Offline scoring and maintenance for the survey QC dashboard",
	Long: `qcctl drives the QC toolchain without the web dashboard: score survey
extracts against the quantile models, inspect the classification lookups,
generate synthetic demo data, and trim the run history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err == nil {
			log.Debug("loaded .env")
		}
		if verbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}

		var err error
		cfg, err = config.Load()
		return err
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(pruneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
