package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/carestats/internal/db"
	"github.com/gyeh/carestats/internal/exitcode"
	"github.com/gyeh/carestats/internal/logging"
	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/normalize"
	"github.com/gyeh/carestats/internal/parquetio"
)

var loadFile string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a Parquet status export into Postgres",
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFile, "file", "", "Parquet file written by reconcile --parquet (required)")
	_ = loadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or CARESTATS_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	rows, err := parquetio.ReadAll(loadFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to read parquet file")
		os.Exit(exitcode.ValidationError)
	}
	if len(rows) == 0 {
		log.Error().Str("file", loadFile).Msg("no rows in parquet file")
		os.Exit(exitcode.ValidationError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	run := db.RunRecord{Summary: summarize(rows)}
	if run.LedgerSHA256, err = normalize.FileHash(loadFile); err != nil {
		log.Warn().Err(err).Msg("file hash unavailable")
	}
	n, err := db.SaveRun(ctx, pool, log, run, rows)
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.CopyError)
	}

	fmt.Printf("Load complete: run %s, %d statuses\n", run.Summary.RunID, n)
	return nil
}

// summarize rebuilds run counts from exported rows; the export carries
// one run.
func summarize(rows []*model.ResidentStatusRow) *model.ReconcileSummary {
	s := &model.ReconcileSummary{RunID: rows[0].RunID, Cutoff: model.Date(rows[0].Cutoff)}
	for _, r := range rows {
		s.Residents++
		switch r.Status {
		case cfg.CertifiedLabel:
			s.Eligible++
			s.Certified++
		case cfg.ExcludedLabel:
			s.Excluded++
		default:
			s.Eligible++
			s.NotCertified++
		}
	}
	return s
}
