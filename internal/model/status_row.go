package model

import (
	"time"

	"github.com/google/uuid"
)

// ResidentStatusRow is the flat, storage-ready form of a ResidentStatus.
// The parquet tags define the export schema; CopyValues feeds COPY.
type ResidentStatusRow struct {
	RunID       string `parquet:"run_id"`
	Cutoff      int32  `parquet:"cutoff"`
	ResidentID  int64  `parquet:"resident_id"`
	SequenceNo  int64  `parquet:"sequence_no"`
	EventDate   int32  `parquet:"event_date"`
	EventReason string `parquet:"event_reason"`
	District    string `parquet:"district"`
	SchoolZone  string `parquet:"school_zone"`
	BirthYear   int32  `parquet:"birth_year"`
	Status      string `parquet:"status"`

	// Certification fields are null when the resident is not certified.
	PeriodStart *int32 `parquet:"period_start,optional"`
	PeriodEnd   *int32 `parquet:"period_end,optional"`
	ValidMonths *int32 `parquet:"valid_months,optional"`
}

// StatusColumns returns the ordered column names for COPY into carestats.resident_status.
func StatusColumns() []string {
	return []string{
		"run_id",
		"cutoff",
		"resident_id",
		"sequence_no",
		"event_date",
		"event_reason",
		"district",
		"school_zone",
		"birth_year",
		"status",
		"period_start",
		"period_end",
		"valid_months",
	}
}

// CopyValues returns the row values in the same order as StatusColumns(),
// suitable for pgx CopyFromSource. Packed dates become DATE values. runID
// is the already-parsed form of r.RunID.
func (r *ResidentStatusRow) CopyValues(runID uuid.UUID) []any {
	return []any{
		runID,
		dateValue(Date(r.Cutoff)),
		r.ResidentID,
		r.SequenceNo,
		dateValue(Date(r.EventDate)),
		r.EventReason,
		r.District,
		r.SchoolZone,
		r.BirthYear,
		r.Status,
		optDateValue(r.PeriodStart),
		optDateValue(r.PeriodEnd),
		r.ValidMonths,
	}
}

func dateValue(d Date) *time.Time {
	if !d.Valid() {
		return nil
	}
	t := d.Time()
	return &t
}

func optDateValue(v *int32) *time.Time {
	if v == nil {
		return nil
	}
	return dateValue(Date(*v))
}
