package model

// CertificationRecord is one long-term-care certification decision.
type CertificationRecord struct {
	ResidentID      int64
	ApplicationDate Date
	DecisionDate    Date
	ValidMonths     int

	// Period is derived from the three fields above; it is zero until computed.
	Period Period

	Row int
}

// Period is the inclusive window during which a certification is in force.
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether d falls inside the inclusive window.
func (p Period) Contains(d Date) bool {
	return p.Start != 0 && p.Start <= d && d <= p.End
}

// Status is the outcome of reconciling one resident.
type Status int

const (
	StatusNotCertified Status = iota
	StatusCertified
	// StatusExcluded marks a resident with no eligible residency event at cutoff.
	StatusExcluded
)

func (s Status) String() string {
	switch s {
	case StatusCertified:
		return "certified"
	case StatusNotCertified:
		return "not certified"
	case StatusExcluded:
		return "excluded"
	}
	return "unknown"
}

// ResidentStatus is the reconciled state of one resident as of a cutoff.
type ResidentStatus struct {
	ResidentID int64
	Status     Status
	// Event is the representative residency event. For excluded residents it
	// is the most recent raw event, kept only for reporting.
	Event ResidencyEvent
	// Certification is set only when Status is StatusCertified.
	Certification *CertificationRecord
}
