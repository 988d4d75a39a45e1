package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/carestats/internal/exitcode"
	"github.com/gyeh/carestats/internal/logging"
	"github.com/gyeh/carestats/internal/stats"
	"github.com/gyeh/carestats/internal/table"
	"github.com/gyeh/carestats/internal/xlsx"
)

var ratesFlags struct {
	dir     string
	pattern string
	in      string
	out     string
	xlsx    string
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Aging and certification rates by district and school zone",
	Long: "Reads one reconciled table (--in with --year) or every yearly table under --dir " +
		"and writes per-area population, elderly and certification rates.",
	RunE: runRates,
}

func init() {
	f := ratesCmd.Flags()
	f.StringVar(&ratesFlags.dir, "dir", "", "Directory searched for yearly reconciled tables")
	f.StringVar(&ratesFlags.pattern, "pattern", stats.DefaultPattern, "Glob for yearly tables under --dir")
	f.StringVar(&ratesFlags.in, "in", "", "Single reconciled table")
	f.IntVar(&cfg.Year, "year", 0, "Year of --in")
	f.StringVar(&ratesFlags.out, "out", "rates.csv", "Output CSV")
	f.StringVar(&ratesFlags.xlsx, "xlsx", "", "Also write an XLSX workbook")
	ratesCmd.MarkFlagsMutuallyExclusive("dir", "in")
	ratesCmd.MarkFlagsOneRequired("dir", "in")
	ratesCmd.MarkFlagsRequiredTogether("in", "year")
	rootCmd.AddCommand(ratesCmd)
}

func runRates(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	opts := statsOptions()
	read := table.ReadOptions{Encoding: cfg.Encoding, Log: log}

	files := yearFiles(log, ratesFlags.dir, ratesFlags.pattern, ratesFlags.in)

	rates, err := stats.Collect(ctx, files, read, opts)
	if err != nil {
		log.Error().Err(err).Msg("rates failed")
		os.Exit(exitcode.ValidationError)
	}

	out := stats.Table(rates)
	if err := table.WriteFile(ratesFlags.out, out); err != nil {
		log.Error().Err(err).Msg("write csv failed")
		os.Exit(exitcode.OutputError)
	}
	if ratesFlags.xlsx != "" {
		if err := xlsx.WriteFile(ratesFlags.xlsx, "rates", out); err != nil {
			log.Error().Err(err).Msg("write xlsx failed")
			os.Exit(exitcode.OutputError)
		}
	}

	fmt.Printf("Rates complete: %d years, %d areas → %s\n", len(files), len(rates), ratesFlags.out)
	return nil
}

// yearFiles resolves --in/--year or --dir/--pattern to the yearly tables to
// read. It exits with a validation error when --dir holds no tables.
func yearFiles(log zerolog.Logger, dir, pattern, in string) []stats.YearFile {
	files := []stats.YearFile{{Year: cfg.Year, Path: in}}
	if dir != "" {
		var err error
		files, err = stats.DiscoverYears(dir, pattern)
		if err != nil {
			log.Error().Err(err).Msg("discover failed")
			os.Exit(exitcode.ValidationError)
		}
		if len(files) == 0 {
			log.Error().Str("dir", dir).Str("pattern", pattern).Msg("no yearly tables found")
			os.Exit(exitcode.ValidationError)
		}
	}
	for _, f := range files {
		log.Info().Int("year", f.Year).Str("file", f.Path).Msg("reading yearly table")
	}
	return files
}

func statsOptions() stats.Options {
	return stats.Options{
		ElderlyAge:     cfg.ElderlyAge,
		LateElderlyAge: cfg.LateElderlyAge,
		CertifiedLabel: cfg.CertifiedLabel,
		ExcludedLabel:  cfg.ExcludedLabel,
	}
}
