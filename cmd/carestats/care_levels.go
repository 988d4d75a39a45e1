package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/carestats/internal/exitcode"
	"github.com/gyeh/carestats/internal/logging"
	"github.com/gyeh/carestats/internal/stats"
	"github.com/gyeh/carestats/internal/table"
	"github.com/gyeh/carestats/internal/xlsx"
)

var careLevelsFlags struct {
	dir     string
	pattern string
	in      string
	out     string
	xlsx    string
}

var careLevelsCmd = &cobra.Command{
	Use:   "care-levels",
	Short: "Care level distribution of certified elderly residents",
	Long: "Reads one reconciled table (--in with --year) or every yearly table under --dir " +
		"and writes how many certified elderly residents hold each care level, with each level's share of the year.",
	RunE: runCareLevels,
}

func init() {
	f := careLevelsCmd.Flags()
	f.StringVar(&careLevelsFlags.dir, "dir", "", "Directory searched for yearly reconciled tables")
	f.StringVar(&careLevelsFlags.pattern, "pattern", stats.DefaultPattern, "Glob for yearly tables under --dir")
	f.StringVar(&careLevelsFlags.in, "in", "", "Single reconciled table")
	f.IntVar(&cfg.Year, "year", 0, "Year of --in")
	f.StringVar(&careLevelsFlags.out, "out", "care_levels.csv", "Output CSV")
	f.StringVar(&careLevelsFlags.xlsx, "xlsx", "", "Also write an XLSX workbook")
	careLevelsCmd.MarkFlagsMutuallyExclusive("dir", "in")
	careLevelsCmd.MarkFlagsOneRequired("dir", "in")
	careLevelsCmd.MarkFlagsRequiredTogether("in", "year")
	rootCmd.AddCommand(careLevelsCmd)
}

func runCareLevels(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	read := table.ReadOptions{Encoding: cfg.Encoding, Log: log}
	files := yearFiles(log, careLevelsFlags.dir, careLevelsFlags.pattern, careLevelsFlags.in)

	levels, err := stats.CollectCareLevels(ctx, files, read, statsOptions())
	if err != nil {
		log.Error().Err(err).Msg("care levels failed")
		os.Exit(exitcode.ValidationError)
	}

	out := stats.CareLevelsTable(levels)
	if err := table.WriteFile(careLevelsFlags.out, out); err != nil {
		log.Error().Err(err).Msg("write csv failed")
		os.Exit(exitcode.OutputError)
	}
	if careLevelsFlags.xlsx != "" {
		if err := xlsx.WriteFile(careLevelsFlags.xlsx, "care_levels", out); err != nil {
			log.Error().Err(err).Msg("write xlsx failed")
			os.Exit(exitcode.OutputError)
		}
	}

	fmt.Printf("Care levels complete: %d years, %d rows → %s\n", len(files), len(levels), careLevelsFlags.out)
	return nil
}
