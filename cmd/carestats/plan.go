package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyeh/carestats/internal/exitcode"
	"github.com/gyeh/carestats/internal/logging"
	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/normalize"
	"github.com/gyeh/carestats/internal/reconcile"
)

const sampleReasons = 10

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	addLedgerFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	ledgerSHA, err := normalize.FileHash(cfg.LedgerPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash ledger")
		os.Exit(exitcode.ValidationError)
	}
	certSHA, err := normalize.FileHash(cfg.CertificationPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash certification ledger")
		os.Exit(exitcode.ValidationError)
	}

	in, err := reconcile.ReadInputs(&cfg, log)
	if err != nil {
		exitPipeline(log, err)
	}
	res, err := reconcile.Run(ctx, log, &cfg, in)
	if err != nil {
		exitPipeline(log, err)
	}

	// Reason distribution over the raw ledger.
	reasonCounts := make(map[string]int)
	for i := 0; i < in.Ledger.Len(); i++ {
		reasonCounts[normalize.Reason(in.Ledger.Value(i, model.ColEventReason))]++
	}
	reasons := make([]string, 0, len(reasonCounts))
	for r := range reasonCounts {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasonCounts[reasons[i]] != reasonCounts[reasons[j]] {
			return reasonCounts[reasons[i]] > reasonCounts[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})

	s := res.Summary
	fmt.Println("=== carestats plan ===")
	fmt.Printf("Ledger:         %s\n", cfg.LedgerPath)
	fmt.Printf("  SHA-256:      %s\n", ledgerSHA)
	fmt.Printf("Certifications: %s\n", cfg.CertificationPath)
	fmt.Printf("  SHA-256:      %s\n", certSHA)
	fmt.Printf("Cutoff:         %s\n", s.Cutoff)
	fmt.Println()
	fmt.Printf("Event rows:          %d (%d fields recovered)\n", s.EventRows, s.EventRowsRecovered)
	fmt.Printf("Residents:           %d\n", s.Residents)
	fmt.Printf("  eligible:          %d\n", s.Eligible)
	fmt.Printf("  excluded:          %d\n", s.Excluded)
	fmt.Printf("Certification rows:  %d (%d discarded)\n", s.CertificationRows, s.CertificationDiscarded)
	fmt.Printf("  certified:         %d\n", s.Certified)
	fmt.Printf("  not certified:     %d\n", s.NotCertified)
	fmt.Println()
	fmt.Println("Event reasons:")
	for i, r := range reasons {
		if i == sampleReasons {
			fmt.Printf("  ... %d more\n", len(reasons)-sampleReasons)
			break
		}
		label := r
		if label == "" {
			label = "(blank)"
		}
		mark := ""
		if slices.Contains(cfg.ExcludedReasons, r) {
			mark = " [excluded]"
		}
		fmt.Printf("  %-24s %8d%s\n", label, reasonCounts[r], mark)
	}
	fmt.Println("No output written.")
	return nil
}
