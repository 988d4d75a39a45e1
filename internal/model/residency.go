package model

// ResidencyEvent is one row of a resident's registry history.
type ResidencyEvent struct {
	ResidentID int64
	// SequenceNo orders events of one resident; higher is more recent.
	SequenceNo int64
	// EventDate is the latest change date (最新異動日); 0 when not applicable.
	EventDate   Date
	EventReason string
	// ExitDate is the date the row stopped covering the resident; 0 while open.
	ExitDate Date
	// DeathDate is 0 unless the row records a death.
	DeathDate          Date
	BecameResidentDate Date

	District   string
	SchoolZone string
	BirthYear  int

	// Row is the index of the source row in the loaded ledger table.
	Row int
}

// IsDeath reports whether the event records a death.
func (e ResidencyEvent) IsDeath() bool { return e.DeathDate != 0 }

// EffectiveDate is the date the event became visible. Rows without a
// change date fall back to the date residency began.
func (e ResidencyEvent) EffectiveDate() Date {
	if e.EventDate != 0 {
		return e.EventDate
	}
	return e.BecameResidentDate
}
