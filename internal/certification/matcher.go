package certification

import (
	"github.com/gyeh/carestats/internal/model"
)

// Matcher indexes certification records by resident for repeated lookups.
type Matcher struct {
	byResident map[int64][]model.CertificationRecord
}

// NewMatcher indexes records, which must already carry their Period.
func NewMatcher(records []model.CertificationRecord) *Matcher {
	m := &Matcher{byResident: make(map[int64][]model.CertificationRecord)}
	for _, r := range records {
		m.byResident[r.ResidentID] = append(m.byResident[r.ResidentID], r)
	}
	return m
}

// Match returns the certification in force for residentID at cutoff.
// Among windows containing the cutoff the latest-ending wins; remaining
// ties go to the later start, then the later source row.
func (m *Matcher) Match(residentID int64, cutoff model.Date) (model.CertificationRecord, bool) {
	var best model.CertificationRecord
	found := false
	for _, r := range m.byResident[residentID] {
		if !r.Period.Contains(cutoff) {
			continue
		}
		if !found || supersedes(r, best) {
			best, found = r, true
		}
	}
	return best, found
}

func supersedes(a, b model.CertificationRecord) bool {
	if a.Period.End != b.Period.End {
		return a.Period.End > b.Period.End
	}
	if a.Period.Start != b.Period.Start {
		return a.Period.Start > b.Period.Start
	}
	return a.Row > b.Row
}

// Tag assigns a certification status to every eligible resident. Each
// input event yields exactly one status, in input order.
func (m *Matcher) Tag(eligible []model.ResidencyEvent, cutoff model.Date) []model.ResidentStatus {
	out := make([]model.ResidentStatus, len(eligible))
	for i, e := range eligible {
		s := model.ResidentStatus{ResidentID: e.ResidentID, Event: e, Status: model.StatusNotCertified}
		if c, ok := m.Match(e.ResidentID, cutoff); ok {
			s.Status = model.StatusCertified
			s.Certification = &c
		}
		out[i] = s
	}
	return out
}
