// Package xlsx exports tables as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/carestats/internal/table"
)

// Write renders t as a single sheet with a bold, frozen header row.
// Int and float columns are written as numbers; blanks stay empty.
func Write(w io.Writer, sheet string, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for j, header := range t.Columns() {
		if err := setCellValue(f, sheet, j+1, 1, header); err != nil {
			return err
		}
	}
	if n := len(t.Columns()); n > 0 {
		last, err := excelize.CoordinatesToCellName(n, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	types := t.Dtypes()
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			if v == "" {
				continue
			}
			if err := setCellValue(f, sheet, j+1, i+2, cellValue(v, types[j])); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile writes t to a new workbook at path.
func WriteFile(path, sheet string, t *table.Table) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create xlsx: %w", err)
	}
	if err := Write(out, sheet, t); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func cellValue(v string, d table.Dtype) any {
	switch d {
	case table.Int64, table.NullableInt64:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case table.Float64:
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			return x
		}
	}
	return v
}

func setCellValue(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
