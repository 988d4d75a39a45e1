package db_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/carestats/internal/db"
	"github.com/gyeh/carestats/internal/model"
)

const (
	testPort     = 15433
	testDB       = "carestatstest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

// Database tests download and start a real Postgres; they only run when
// CARESTATS_PG_TESTS=1.
func TestMain(m *testing.M) {
	if os.Getenv("CARESTATS_PG_TESTS") != "1" {
		os.Exit(m.Run())
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB creates a connection pool on a clean schema with migrations applied.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testDSN == "" {
		t.Skip("set CARESTATS_PG_TESTS=1 to run database tests")
	}
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS carestats CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func int32Ptr(v int32) *int32 { return &v }

func makeRun(n int) (db.RunRecord, []*model.ResidentStatusRow) {
	runID := uuid.New()
	summary := &model.ReconcileSummary{
		RunID:         runID.String(),
		Cutoff:        20200331,
		Residents:     n,
		Eligible:      n,
		Certified:     1,
		NotCertified:  n - 1,
		DurationTotal: 1500 * time.Millisecond,
	}
	rows := make([]*model.ResidentStatusRow, n)
	for i := range rows {
		rows[i] = &model.ResidentStatusRow{
			RunID:      runID.String(),
			Cutoff:     20200331,
			ResidentID: int64(1000 + i),
			SequenceNo: 1,
			EventDate:  20100101,
			District:   "北区",
			BirthYear:  1950,
			Status:     "未認定",
		}
	}
	rows[0].Status = "認定済み"
	rows[0].PeriodStart = int32Ptr(20190401)
	rows[0].PeriodEnd = int32Ptr(20200401)
	rows[0].ValidMonths = int32Ptr(12)
	return db.RunRecord{Summary: summary, LedgerSHA256: "abc"}, rows
}

// ---------- Migration tests ----------

func TestMigrations_Idempotent(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	// Apply again; everything uses IF NOT EXISTS
	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("second migration run should be idempotent: %v", err)
	}

	for _, tbl := range []string{"carestats.reconcile_runs", "carestats.resident_status"} {
		var exists bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema || '.' || table_name = $1)", tbl).
			Scan(&exists)
		if err != nil {
			t.Fatalf("check table %s: %v", tbl, err)
		}
		if !exists {
			t.Errorf("table %s should exist after migrations", tbl)
		}
	}
}

// ---------- Run storage ----------

func TestSaveRun(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	run, rows := makeRun(2500)

	n, err := db.SaveRun(ctx, pool, zerolog.Nop(), run, rows)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if n != 2500 {
		t.Errorf("expected 2500 rows copied, got %d", n)
	}

	runID := uuid.MustParse(run.Summary.RunID)
	counts, err := db.StatusCounts(ctx, pool, runID)
	if err != nil {
		t.Fatalf("StatusCounts: %v", err)
	}
	if counts["認定済み"] != 1 || counts["未認定"] != 2499 {
		t.Errorf("unexpected counts: %v", counts)
	}

	var end time.Time
	var months *int32
	err = pool.QueryRow(ctx,
		"SELECT period_end, valid_months FROM carestats.resident_status WHERE run_id = $1 AND resident_id = 1000", runID).
		Scan(&end, &months)
	if err != nil {
		t.Fatalf("query status: %v", err)
	}
	if end.Format("2006-01-02") != "2020-04-01" {
		t.Errorf("period_end = %s, want 2020-04-01", end.Format("2006-01-02"))
	}
	if months == nil || *months != 12 {
		t.Errorf("valid_months = %v, want 12", months)
	}

	var durationMS int64
	pool.QueryRow(ctx, "SELECT duration_ms FROM carestats.reconcile_runs WHERE run_id = $1", runID).Scan(&durationMS)
	if durationMS != 1500 {
		t.Errorf("duration_ms = %d, want 1500", durationMS)
	}

	if err := db.DeleteRun(ctx, pool, runID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	counts, _ = db.StatusCounts(ctx, pool, runID)
	if len(counts) != 0 {
		t.Errorf("statuses should cascade on delete, got %v", counts)
	}
}

func TestSaveRun_RollsBackOnForeignRow(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	run, rows := makeRun(10)
	rows[5].RunID = uuid.NewString()

	if _, err := db.SaveRun(ctx, pool, zerolog.Nop(), run, rows); err == nil {
		t.Fatal("expected error for row from another run")
	}

	var count int64
	pool.QueryRow(ctx, "SELECT count(*) FROM carestats.reconcile_runs").Scan(&count)
	if count != 0 {
		t.Errorf("expected run insert rolled back, got %d runs", count)
	}
}

// ---------- WithTx ----------

func TestWithTx(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	t.Run("rolls_back_on_error", func(t *testing.T) {
		run, _ := makeRun(1)
		err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
			if _, err := db.CopyStatuses(ctx, tx, zerolog.Nop(), uuid.MustParse(run.Summary.RunID), nil); err != nil {
				return err
			}
			return fmt.Errorf("intentional error")
		})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rolls_back_on_panic", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		db.WithTx(ctx, pool, func(tx pgx.Tx) error {
			panic("intentional panic")
		})
	})
}
