package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/carestats/internal/db"
	"github.com/gyeh/carestats/internal/exitcode"
	"github.com/gyeh/carestats/internal/logging"
	"github.com/gyeh/carestats/internal/normalize"
	"github.com/gyeh/carestats/internal/parquetio"
	"github.com/gyeh/carestats/internal/reconcile"
	"github.com/gyeh/carestats/internal/table"
	"github.com/gyeh/carestats/internal/xlsx"
)

var storeRun bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Tag every eligible resident with their certification status at the cutoff",
	RunE:  runReconcile,
}

func addLedgerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.LedgerPath, "ledger", "", "Residency ledger CSV (required)")
	f.StringVar(&cfg.CertificationPath, "certs", "", "Certification ledger CSV (required)")
	f.IntVar(&cfg.Year, "year", 0, "Fiscal year of the cutoff date (required)")
	f.IntVar(&cfg.Workers, "workers", 0, "Reconciliation workers (0 = GOMAXPROCS)")
	f.BoolVar(&cfg.IncludeExcluded, "include-excluded", false, "Emit excluded residents with the excluded label")
	_ = cmd.MarkFlagRequired("ledger")
	_ = cmd.MarkFlagRequired("certs")
	_ = cmd.MarkFlagRequired("year")
}

func init() {
	addLedgerFlags(reconcileCmd)
	f := reconcileCmd.Flags()
	f.StringVar(&cfg.OutputPath, "out", "", "Output CSV (default 認定状態・総人口<year>.csv)")
	f.StringVar(&cfg.XLSXPath, "xlsx", "", "Also write an XLSX workbook")
	f.StringVar(&cfg.ParquetPath, "parquet", "", "Also write status rows as Parquet")
	f.BoolVar(&storeRun, "store", false, "Store the run and statuses in Postgres")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	validate := cfg.Validate
	if storeRun {
		validate = cfg.ValidateWithDSN
	}
	if err := validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = fmt.Sprintf("認定状態・総人口%d.csv", cfg.Year)
	}

	in, err := reconcile.ReadInputs(&cfg, log)
	if err != nil {
		exitPipeline(log, err)
	}
	res, err := reconcile.Run(ctx, log, &cfg, in)
	if err != nil {
		exitPipeline(log, err)
	}

	if err := table.WriteFile(cfg.OutputPath, res.Table); err != nil {
		log.Error().Err(err).Msg("write csv failed")
		os.Exit(exitcode.OutputError)
	}
	if cfg.XLSXPath != "" {
		if err := xlsx.WriteFile(cfg.XLSXPath, fmt.Sprintf("%d", cfg.Year), res.Table); err != nil {
			log.Error().Err(err).Msg("write xlsx failed")
			os.Exit(exitcode.OutputError)
		}
	}
	rows := res.Rows(cfg.Labels())
	if cfg.ParquetPath != "" {
		if err := parquetio.WriteFile(cfg.ParquetPath, rows); err != nil {
			log.Error().Err(err).Msg("write parquet failed")
			os.Exit(exitcode.OutputError)
		}
	}

	if storeRun {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()

		run := db.RunRecord{Summary: res.Summary}
		if run.LedgerSHA256, err = normalize.FileHash(cfg.LedgerPath); err != nil {
			log.Warn().Err(err).Msg("ledger hash unavailable")
		}
		if run.CertificationSHA256, err = normalize.FileHash(cfg.CertificationPath); err != nil {
			log.Warn().Err(err).Msg("certification hash unavailable")
		}
		if _, err := db.SaveRun(ctx, pool, log, run, rows); err != nil {
			log.Error().Err(err).Msg("store run failed")
			os.Exit(exitcode.CopyError)
		}
	}

	s := res.Summary
	fmt.Printf("Reconcile complete: %d residents, %d eligible (%d certified, %d not certified), %d excluded → %s (%.1fs)\n",
		s.Residents, s.Eligible, s.Certified, s.NotCertified, s.Excluded, cfg.OutputPath, s.DurationTotal.Seconds())
	return nil
}

// exitPipeline maps a pipeline failure to its exit code.
func exitPipeline(log zerolog.Logger, err error) {
	var pe *reconcile.PipelineError
	if errors.As(err, &pe) {
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("reconcile failed")
		switch pe.Phase {
		case "load":
			os.Exit(exitcode.ValidationError)
		case "output":
			os.Exit(exitcode.OutputError)
		default:
			os.Exit(exitcode.ReconcileError)
		}
	}
	log.Error().Err(err).Msg("reconcile failed")
	os.Exit(exitcode.ReconcileError)
}
