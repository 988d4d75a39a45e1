package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/carestats/internal/model"
)

// ChannelSource implements pgx.CopyFromSource over a channel of status rows
// belonging to one run. The channel gives backpressure between the producer
// and the COPY writer.
type ChannelSource struct {
	ch      <-chan *model.ResidentStatusRow
	runID   uuid.UUID
	current *model.ResidentStatusRow
	rows    int64
	err     error
}

// NewChannelSource creates a CopyFromSource that rejects rows from any run
// other than runID.
func NewChannelSource(ch <-chan *model.ResidentStatusRow, runID uuid.UUID) *ChannelSource {
	return &ChannelSource{ch: ch, runID: runID}
}

// Next advances to the next row. Returns false when the channel is closed
// or a row was rejected for a malformed or foreign run id.
func (s *ChannelSource) Next() bool {
	if s.err != nil {
		return false
	}
	row, ok := <-s.ch
	if !ok {
		return false
	}
	id, err := uuid.Parse(row.RunID)
	if err != nil {
		s.err = fmt.Errorf("row %d (resident %d): malformed run id %q: %w", s.rows, row.ResidentID, row.RunID, err)
		return false
	}
	if id != s.runID {
		s.err = fmt.Errorf("row %d (resident %d) belongs to run %s, want %s", s.rows, row.ResidentID, id, s.runID)
		return false
	}
	s.current = row
	s.rows++
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource) Values() ([]any, error) {
	return s.current.CopyValues(s.runID), nil
}

// Err returns the rejection that stopped iteration, if any.
func (s *ChannelSource) Err() error {
	return s.err
}

// Rows returns how many rows have been handed to COPY.
func (s *ChannelSource) Rows() int64 {
	return s.rows
}

var _ pgx.CopyFromSource = (*ChannelSource)(nil)
