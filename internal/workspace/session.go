// Package workspace holds the working table of one editing session.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/gyeh/carestats/internal/table"
)

// Session is the explicit handle to the table currently being edited.
// Each operation builds a new table and replaces the handle only on success,
// so a failed step leaves the previous state intact.
type Session struct {
	name  string
	table *table.Table
	log   zerolog.Logger
}

// Open reads path into a new session.
func Open(path string, opts table.ReadOptions, log zerolog.Logger) (*Session, error) {
	opts.Log = log
	t, _, err := table.ReadFile(path, opts)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", filepath.Base(path)).Int("rows", t.Len()).Int("columns", len(t.Columns())).Msg("working table opened")
	return &Session{name: filepath.Base(path), table: t, log: log}, nil
}

// New starts a session over an existing table.
func New(name string, t *table.Table, log zerolog.Logger) *Session {
	return &Session{name: name, table: t, log: log}
}

func (s *Session) Name() string { return s.name }
func (s *Session) Table() *table.Table { return s.table }

// DropColumns removes cols from the working table.
func (s *Session) DropColumns(cols []string) error {
	return s.apply("drop_columns", func(t *table.Table) (*table.Table, error) {
		return table.DropColumns(t, cols)
	})
}

// HandleMissing fills or drops blank cells.
func (s *Session) HandleMissing(cols []string, method table.MissingMethod) error {
	return s.apply("missing_"+string(method), func(t *table.Table) (*table.Table, error) {
		return table.HandleMissing(t, cols, method)
	})
}

// Scale rescales numeric columns.
func (s *Session) Scale(cols []string, method table.ScaleMethod) error {
	return s.apply("scale_"+string(method), func(t *table.Table) (*table.Table, error) {
		return table.Scale(t, cols, method)
	})
}

// Append merges other into the working table through the schema reconciler.
func (s *Session) Append(other *table.Table) error {
	return s.apply("append", func(t *table.Table) (*table.Table, error) {
		return table.Concat(t, other)
	})
}

// Save writes the working table as CSV.
func (s *Session) Save(path string) error {
	if err := table.WriteFile(path, s.table); err != nil {
		return fmt.Errorf("save %s: %w", s.name, err)
	}
	s.log.Info().Str("file", path).Int("rows", s.table.Len()).Msg("working table saved")
	return nil
}

func (s *Session) apply(op string, fn func(*table.Table) (*table.Table, error)) error {
	before := s.table.Len()
	next, err := fn(s.table)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.table = next
	s.log.Info().
		Str("op", op).
		Int("rows_before", before).
		Int("rows_after", next.Len()).
		Int("columns", len(next.Columns())).
		Msg("working table updated")
	return nil
}
