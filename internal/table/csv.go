package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const utf8BOM = "\ufeff"

// ReadOptions controls how a CSV extract is parsed.
type ReadOptions struct {
	// Types declares column dtypes; undeclared columns are read as String.
	Types map[string]Dtype
	// Encoding is "utf-8" (default) or "shift_jis".
	Encoding string
	Log      zerolog.Logger
}

// ReadStats reports data-quality recoveries made while reading.
type ReadStats struct {
	Rows int
	// Recovered counts cells replaced by a sentinel and short or long rows repaired.
	Recovered int
}

// ReadFile opens path and reads it with ReadCSV.
func ReadFile(path string, opts ReadOptions) (*Table, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, opts)
}

// ReadCSV parses a header row and records into a Table. Cells that fail
// their declared dtype are replaced with a sentinel ("0" for int, blank
// otherwise) and logged rather than failing the read; registry extracts
// routinely carry blanks.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, ReadStats, error) {
	var stats ReadStats
	dec, err := decoder(r, opts.Encoding)
	if err != nil {
		return nil, stats, err
	}
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("read header: empty file")
		}
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	header = append([]string(nil), header...)
	types := make([]Dtype, len(header))
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		types[i] = opts.Types[header[i]]
	}
	t, err := New(header, types)
	if err != nil {
		return nil, stats, err
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read csv at row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++
		if len(rec) != len(header) {
			stats.Recovered++
			opts.Log.Debug().Int("row", stats.Rows).Int("fields", len(rec)).Msg("repairing row with wrong field count")
		}
		row := make([]string, len(header))
		for j := range header {
			if j >= len(rec) {
				row[j] = sentinel(types[j])
				continue
			}
			v, cerr := coerce(rec[j], types[j])
			if cerr != nil {
				stats.Recovered++
				opts.Log.Debug().
					Int("row", stats.Rows).
					Str("column", header[j]).
					Str("value", rec[j]).
					Msg("value replaced by sentinel")
				v = sentinel(types[j])
			}
			row[j] = v
		}
		t.appendTrusted(row)
	}

	if stats.Recovered > 0 {
		opts.Log.Warn().
			Int("rows", stats.Rows).
			Int("recovered", stats.Recovered).
			Msg("csv contained malformed values")
	}
	return t, stats, nil
}

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "_")) {
	case "", "utf8", "utf_8":
		return r, nil
	case "shift_jis", "sjis", "cp932":
		return transform.NewReader(r, japanese.ShiftJIS.NewDecoder()), nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", encoding)
}

// WriteFile writes t as UTF-8 CSV to path.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes a header row followed by every row of t.
func WriteCSV(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write(t.cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return bw.Flush()
}
