// Package parquetio reads and writes reconciled resident statuses as Parquet.
package parquetio

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/carestats/internal/model"
)

// Write encodes rows to w.
func Write(w io.Writer, rows []*model.ResidentStatusRow) error {
	pw := parquet.NewGenericWriter[model.ResidentStatusRow](w)
	batch := make([]model.ResidentStatusRow, 0, 1024)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := pw.Write(batch); err != nil {
			return fmt.Errorf("write parquet rows: %w", err)
		}
		batch = batch[:0]
		return nil
	}
	for _, r := range rows {
		batch = append(batch, *r)
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// WriteFile creates path and writes rows to it.
func WriteFile(path string, rows []*model.ResidentStatusRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
