package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tbl := MustNew([]string{"name", "age", "score"}, []Dtype{String, NullableInt64, Float64})
	for _, r := range [][]string{
		{"a", "10", "1"},
		{"b", "", "3"},
		{"", "30", ""},
		{"b", "20", "5"},
	} {
		require.NoError(t, tbl.Append(r))
	}
	return tbl
}

func column(tbl *Table, col string) []string {
	out := make([]string, tbl.Len())
	for i := range out {
		out[i] = tbl.Value(i, col)
	}
	return out
}

func TestDropColumns(t *testing.T) {
	tbl := sample(t)
	out, err := DropColumns(tbl, []string{"age"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score"}, out.Columns())
	assert.Equal(t, []string{"a", "1"}, out.Row(0))
	assert.Equal(t, 3, len(tbl.Columns()), "input unchanged")

	_, err = DropColumns(tbl, []string{"nope"})
	var unknown *UnknownColumnError
	assert.ErrorAs(t, err, &unknown)
}

func TestHandleMissing_Listwise(t *testing.T) {
	out, err := HandleMissing(sample(t), []string{"age"}, Listwise)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b"}, column(out, "name"))

	out, err = HandleMissing(sample(t), nil, Listwise)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestHandleMissing_Mean(t *testing.T) {
	out, err := HandleMissing(sample(t), nil, Mean)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "20", "30", "20"}, column(out, "age"))
	assert.Equal(t, []string{"1", "3", "3", "5"}, column(out, "score"))
	d, _ := out.Dtype("age")
	assert.Equal(t, NullableInt64, d, "whole-number mean keeps the integer dtype")
	assert.Equal(t, []string{"a", "b", "", "b"}, column(out, "name"), "string columns are not selected by default")
}

func TestHandleMissing_MeanLeavesCompleteColumns(t *testing.T) {
	tbl := MustNew([]string{"住民コード_conv", "生年月日_year"}, []Dtype{Int64, NullableInt64})
	require.NoError(t, tbl.Append([]string{"12345678", "1940"}))
	require.NoError(t, tbl.Append([]string{"23456789", ""}))
	require.NoError(t, tbl.Append([]string{"9007199254740993", "1960"}))

	out, err := HandleMissing(tbl, nil, Mean)
	require.NoError(t, err)
	assert.Equal(t, []string{"12345678", "23456789", "9007199254740993"}, column(out, "住民コード_conv"))
	assert.Equal(t, []string{"1940", "1950", "1960"}, column(out, "生年月日_year"))
	d, _ := out.Dtype("住民コード_conv")
	assert.Equal(t, Int64, d)
	d, _ = out.Dtype("生年月日_year")
	assert.Equal(t, NullableInt64, d)
}

func TestHandleMissing_MeanFractionalWidensToFloat(t *testing.T) {
	tbl := MustNew([]string{"n"}, []Dtype{NullableInt64})
	for _, v := range []string{"1", "", "2000000"} {
		require.NoError(t, tbl.Append([]string{v}))
	}
	out, err := HandleMissing(tbl, nil, Mean)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "1000000.5", "2000000"}, column(out, "n"))
	d, _ := out.Dtype("n")
	assert.Equal(t, Float64, d)
}

func TestHandleMissing_MeanRejectsText(t *testing.T) {
	_, err := HandleMissing(sample(t), []string{"name"}, Mean)
	var ce *CoercionError
	assert.ErrorAs(t, err, &ce)
}

func TestHandleMissing_Mode(t *testing.T) {
	out, err := HandleMissing(sample(t), []string{"name", "age"}, Mode)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "b", "b"}, column(out, "name"))
	assert.Equal(t, []string{"10", "10", "30", "20"}, column(out, "age"), "tie resolves to smallest")
}

func TestHandleMissing_ModeNumericTie(t *testing.T) {
	tbl := MustNew([]string{"n", "s"}, []Dtype{NullableInt64, String})
	for _, r := range [][]string{{"9", "9"}, {"10", "10"}, {"", ""}} {
		require.NoError(t, tbl.Append(r))
	}
	out, err := HandleMissing(tbl, nil, Mode)
	require.NoError(t, err)
	assert.Equal(t, "9", out.Value(2, "n"), "numeric columns compare by value")
	assert.Equal(t, "10", out.Value(2, "s"), "text columns compare lexicographically")
}

func TestScale(t *testing.T) {
	out, err := Scale(sample(t), []string{"score"}, Normalize)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "0.5", "", "1"}, column(out, "score"))

	out, err = Scale(sample(t), []string{"score"}, Standardize)
	require.NoError(t, err)
	assert.Equal(t, []string{"-1", "0", "", "1"}, column(out, "score"))

	constant := MustNew([]string{"x"}, []Dtype{Int64})
	require.NoError(t, constant.Append([]string{"4"}))
	require.NoError(t, constant.Append([]string{"4"}))
	out, err = Scale(constant, nil, Normalize)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "0"}, column(out, "x"))

	_, err = Scale(sample(t), nil, ScaleMethod("log"))
	assert.Error(t, err)
}
