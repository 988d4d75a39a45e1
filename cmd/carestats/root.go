package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/carestats/internal/config"
)

var (
	cfg        = config.Default()
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "carestats",
	Short: "Resident certification reconciliation for municipal statistics",
	Long: "Reconciles residency and long-term-care certification ledgers at a cutoff date, " +
		"edits and merges registry extracts, and reports aging and certification rates by area.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("CARESTATS_DB_URL"), "Postgres connection string (or set CARESTATS_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&configFile, "config", "", "Path to YAML config file")
	pf.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "CSV encoding: utf-8 or shift_jis")
}

// loadConfig merges the YAML file into cfg. Flags given explicitly on the
// command line take precedence over the file.
func loadConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return nil
	}
	flagged := cfg
	if err := cfg.LoadFromFile(configFile); err != nil {
		return err
	}
	fs := cmd.Flags()
	if fs.Changed("workers") {
		cfg.Workers = flagged.Workers
	}
	if fs.Changed("encoding") {
		cfg.Encoding = flagged.Encoding
	}
	if fs.Changed("include-excluded") {
		cfg.IncludeExcluded = flagged.IncludeExcluded
	}
	return nil
}
