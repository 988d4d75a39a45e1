package parquetio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/carestats/internal/model"
)

func i32(v int32) *int32 { return &v }

func TestWriteThenReadAll(t *testing.T) {
	rows := []*model.ResidentStatusRow{
		{
			RunID: "7f1d6a3e-3b8e-4c55-9a65-0c3a2f1e9b10", Cutoff: 20200331,
			ResidentID: 1002, SequenceNo: 1, EventDate: 20100101, EventReason: "登録",
			District: "北区", BirthYear: 1945, Status: "認定済み",
			PeriodStart: i32(20190401), PeriodEnd: i32(20200401), ValidMonths: i32(12),
		},
		{
			RunID: "7f1d6a3e-3b8e-4c55-9a65-0c3a2f1e9b10", Cutoff: 20200331,
			ResidentID: 1003, SequenceNo: 1, EventDate: 20120101, EventReason: "転入",
			District: "北区", SchoolZone: "緑小", BirthYear: 1980, Status: "未認定",
		},
	}
	path := filepath.Join(t.TempDir(), "status.parquet")
	require.NoError(t, WriteFile(path, rows))

	got, err := ReadAll(path)
	require.NoError(t, err)
	if diff := cmp.Diff(rows, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := ReadAll(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_RejectsForeignSchema(t *testing.T) {
	type other struct {
		Name string `parquet:"name"`
	}
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[other](&buf)
	_, err := w.Write([]other{{Name: "x"}})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "other.parquet")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resident_id")
}
