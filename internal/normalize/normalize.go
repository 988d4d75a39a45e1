package normalize

import (
	"github.com/google/uuid"

	"github.com/gyeh/carestats/internal/model"
)

// Labels maps reconciliation outcomes to the strings written in reports.
type Labels struct {
	Certified    string
	NotCertified string
	Excluded     string
}

// DefaultLabels returns the labels used by the rate reports.
func DefaultLabels() Labels {
	return Labels{
		Certified:    model.LabelCertified,
		NotCertified: model.LabelNotCertified,
		Excluded:     model.LabelExcluded,
	}
}

// Of returns the label for s.
func (l Labels) Of(s model.Status) string {
	switch s {
	case model.StatusCertified:
		return l.Certified
	case model.StatusExcluded:
		return l.Excluded
	}
	return l.NotCertified
}

// ToStatusRow flattens a reconciled resident into a storage row.
// Certification fields stay nil unless the resident is certified.
func ToStatusRow(s *model.ResidentStatus, runID uuid.UUID, cutoff model.Date, labels Labels) *model.ResidentStatusRow {
	r := &model.ResidentStatusRow{
		RunID:       runID.String(),
		Cutoff:      int32(cutoff),
		ResidentID:  s.ResidentID,
		SequenceNo:  s.Event.SequenceNo,
		EventDate:   int32(s.Event.EventDate),
		EventReason: s.Event.EventReason,
		District:    s.Event.District,
		SchoolZone:  s.Event.SchoolZone,
		BirthYear:   int32(s.Event.BirthYear),
		Status:      labels.Of(s.Status),
	}
	if c := s.Certification; c != nil && s.Status == model.StatusCertified {
		r.PeriodStart = int32Ptr(int32(c.Period.Start))
		r.PeriodEnd = int32Ptr(int32(c.Period.End))
		r.ValidMonths = int32Ptr(int32(c.ValidMonths))
	}
	return r
}

func int32Ptr(v int32) *int32 { return &v }
