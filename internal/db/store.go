package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/carestats/internal/model"
	embedsql "github.com/gyeh/carestats/internal/sql"
)

const copyBatchSize = 1024

// Copier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// RunRecord is the provenance stored alongside a run's statuses.
type RunRecord struct {
	Summary             *model.ReconcileSummary
	LedgerSHA256        string
	CertificationSHA256 string
}

// CopyStatuses streams rows into carestats.resident_status through a
// channel-backed CopyFromSource. Every row must belong to runID.
func CopyStatuses(ctx context.Context, conn Copier, log zerolog.Logger, runID uuid.UUID, rows []*model.ResidentStatusRow) (int64, error) {
	start := time.Now()

	ch := make(chan *model.ResidentStatusRow, copyBatchSize)
	copyCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Producer goroutine: push rows until done or the copy stops reading.
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(ch)
		for _, r := range rows {
			select {
			case ch <- r:
			case <-copyCtx.Done():
				return
			}
		}
	}()

	// Consumer: COPY from channel into the status table
	source := NewChannelSource(ch, runID)
	copied, err := conn.CopyFrom(copyCtx,
		pgx.Identifier{"carestats", "resident_status"},
		model.StatusColumns(),
		source,
	)

	// Unblock and wait for the producer
	cancel()
	<-done
	if err != nil {
		return 0, fmt.Errorf("status copy after %d rows: %w", source.Rows(), err)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows", copied).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(copied)/dur.Seconds()).
		Msg("statuses copied")
	return copied, nil
}

// SaveRun records the run and its statuses in one transaction.
func SaveRun(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, run RunRecord, rows []*model.ResidentStatusRow) (int64, error) {
	s := run.Summary
	runID, err := uuid.Parse(s.RunID)
	if err != nil {
		return 0, fmt.Errorf("parse run id: %w", err)
	}

	var copied int64
	err = WithTx(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, embedsql.InsertRun,
			runID, s.Cutoff.Time(), run.LedgerSHA256, run.CertificationSHA256,
			s.EventRows, s.Residents, s.Eligible, s.Excluded,
			s.CertificationRows, s.CertificationDiscarded, s.Certified, s.NotCertified,
			s.DurationTotal.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		n, err := CopyStatuses(ctx, tx, log, runID, rows)
		copied = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}

// DeleteRun removes a run; its statuses cascade.
func DeleteRun(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) error {
	_, err := pool.Exec(ctx, embedsql.DeleteRun, runID)
	return err
}

// StatusCounts returns the number of stored rows per status label for a run.
func StatusCounts(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) (map[string]int64, error) {
	rows, err := pool.Query(ctx, embedsql.StatusCounts, runID)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
