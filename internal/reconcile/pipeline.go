// Package reconcile runs the residency and certification ledgers through
// eligibility filtering and certification matching at a single cutoff.
package reconcile

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/carestats/internal/certification"
	"github.com/gyeh/carestats/internal/config"
	"github.com/gyeh/carestats/internal/eligibility"
	"github.com/gyeh/carestats/internal/ledger"
	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/normalize"
	"github.com/gyeh/carestats/internal/table"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Input is a pair of raw ledger tables.
type Input struct {
	Ledger         *table.Table
	Certifications *table.Table
}

// Result is the outcome of one reconciliation run.
type Result struct {
	RunID   uuid.UUID
	Cutoff  model.Date
	Summary *model.ReconcileSummary
	// Statuses is ordered by resident id. Excluded residents appear only
	// when the run was configured to include them.
	Statuses []model.ResidentStatus
	Table    *table.Table
}

// Rows flattens the statuses into storage rows.
func (r *Result) Rows(labels normalize.Labels) []*model.ResidentStatusRow {
	rows := make([]*model.ResidentStatusRow, len(r.Statuses))
	for i := range r.Statuses {
		rows[i] = normalize.ToStatusRow(&r.Statuses[i], r.RunID, r.Cutoff, labels)
	}
	return rows
}

// ReadInputs reads both ledgers named in cfg.
func ReadInputs(cfg *config.Config, log zerolog.Logger) (Input, error) {
	events, _, err := table.ReadFile(cfg.LedgerPath, table.ReadOptions{
		Types:    ledger.EventColumnTypes,
		Encoding: cfg.Encoding,
		Log:      log.With().Str("ledger", "residency").Logger(),
	})
	if err != nil {
		return Input{}, &PipelineError{Phase: "load", Err: err}
	}
	certs, _, err := table.ReadFile(cfg.CertificationPath, table.ReadOptions{
		Types:    ledger.CertificationColumnTypes,
		Encoding: cfg.Encoding,
		Log:      log.With().Str("ledger", "certification").Logger(),
	})
	if err != nil {
		return Input{}, &PipelineError{Phase: "load", Err: err}
	}
	return Input{Ledger: events, Certifications: certs}, nil
}

// Run executes the full reconciliation: load → eligibility → certification
// → output. It is a pure function of the inputs and cfg's cutoff and rules.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config, in Input) (*Result, error) {
	totalStart := time.Now()
	runID := uuid.New()
	cutoff := cfg.Cutoff()
	log = log.With().Str("run_id", runID.String()).Str("cutoff", cutoff.String()).Logger()
	summary := &model.ReconcileSummary{RunID: runID.String(), Cutoff: cutoff}

	// Phase 1: Load
	start := time.Now()
	events, evStats, err := ledger.LoadEvents(in.Ledger, log)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	certs, certStats, err := ledger.LoadCertifications(in.Certifications, log)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	summary.EventRows = evStats.Rows
	summary.EventRowsRecovered = evStats.Recovered
	summary.CertificationRows = certStats.Rows
	summary.CertificationDiscarded = certStats.Discarded
	summary.DurationLoad = time.Since(start)

	// Phase 2: Eligibility
	start = time.Now()
	log.Info().Int("workers", cfg.Workers).Msg("filtering eligible residents")
	rules := eligibility.NewRules(cutoff, cfg.ExcludedReasons)
	filtered, err := eligibility.FilterAll(ctx, events, rules, cfg.Workers)
	if err != nil {
		return nil, &PipelineError{Phase: "eligibility", Err: err}
	}
	summary.Eligible = len(filtered.Eligible)
	summary.Excluded = len(filtered.Excluded)
	summary.Residents = summary.Eligible + summary.Excluded
	summary.DurationEligibility = time.Since(start)

	// Phase 3: Certification
	start = time.Now()
	withPeriods, dropped := certification.AssignPeriods(certs)
	summary.CertificationDiscarded += dropped
	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("certifications without a computable period")
	}
	statuses, err := tagAll(ctx, certification.NewMatcher(withPeriods), filtered.Eligible, cutoff, cfg.Workers)
	if err != nil {
		return nil, &PipelineError{Phase: "certification", Err: err}
	}
	for _, s := range statuses {
		if s.Status == model.StatusCertified {
			summary.Certified++
		} else {
			summary.NotCertified++
		}
	}
	if cfg.IncludeExcluded {
		for _, e := range filtered.Excluded {
			statuses = append(statuses, model.ResidentStatus{ResidentID: e.ResidentID, Status: model.StatusExcluded, Event: e})
		}
		sort.SliceStable(statuses, func(i, j int) bool { return statuses[i].ResidentID < statuses[j].ResidentID })
	}
	summary.DurationCertification = time.Since(start)

	// Phase 4: Output
	start = time.Now()
	out, err := BuildTable(in, statuses, cfg.DroppedColumns, cfg.Labels())
	if err != nil {
		return nil, &PipelineError{Phase: "output", Err: err}
	}
	summary.DurationOutput = time.Since(start)
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int("residents", summary.Residents).
		Int("eligible", summary.Eligible).
		Int("excluded", summary.Excluded).
		Int("certified", summary.Certified).
		Int("not_certified", summary.NotCertified).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("reconciliation complete")

	return &Result{
		RunID:    runID,
		Cutoff:   cutoff,
		Summary:  summary,
		Statuses: statuses,
		Table:    out,
	}, nil
}

// tagAll matches eligible residents against certifications in contiguous
// chunks, one per worker. eligible holds one event per resident, so chunks
// never split a resident.
func tagAll(ctx context.Context, m *certification.Matcher, eligible []model.ResidencyEvent, cutoff model.Date, workers int) ([]model.ResidentStatus, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(1, min(workers, len(eligible)))
	chunk := (len(eligible) + workers - 1) / workers

	out := make([]model.ResidentStatus, len(eligible))
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(eligible); lo += chunk {
		hi := min(lo+chunk, len(eligible))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			copy(out[lo:hi], m.Tag(eligible[lo:hi], cutoff))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
