package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gyeh/carestats/internal/table"
)

func TestWrite(t *testing.T) {
	tbl := table.MustNew([]string{"住民コード_conv", "認定状態", "rate"}, []table.Dtype{table.Int64, table.String, table.Float64})
	require.NoError(t, tbl.Append([]string{"1002", "認定済み", "0.5"}))
	require.NoError(t, tbl.Append([]string{"1003", "未認定", ""}))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "status", tbl))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"status"}, f.GetSheetList())
	rows, err := f.GetRows("status")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"住民コード_conv", "認定状態", "rate"}, rows[0])
	assert.Equal(t, []string{"1002", "認定済み", "0.5"}, rows[1])
	assert.Equal(t, []string{"1003", "未認定"}, rows[2], "trailing blank cells are not written")

	typ, err := f.GetCellType("status", "A2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ, "int columns are numeric")
}
