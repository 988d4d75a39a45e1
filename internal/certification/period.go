// Package certification derives certification validity windows and matches
// them against eligible residents.
package certification

import (
	"fmt"
	"time"

	"github.com/gyeh/carestats/internal/model"
)

// ComputePeriod returns the inclusive window in which a certification is in
// force. The window starts on the decision date. When application and
// decision fall in the same calendar month the validity is counted from the
// first day of the following month; otherwise from the decision date itself.
// The end day is clamped to the length of the end month.
func ComputePeriod(application, decision model.Date, validMonths int) (model.Period, error) {
	if !application.Valid() || !decision.Valid() {
		return model.Period{}, fmt.Errorf("invalid dates: application=%d decision=%d", application, decision)
	}
	if validMonths < 1 {
		return model.Period{}, fmt.Errorf("valid months must be >= 1, got %d", validMonths)
	}

	base := decision
	if application.Year() == decision.Year() && application.Month() == decision.Month() {
		base = firstOfNextMonth(decision)
	}

	total := int(base.Month()-1) + validMonths
	endYear := base.Year() + total/12
	endMonth := time.Month(total%12 + 1)
	endDay := min(base.Day(), model.DaysIn(endYear, endMonth))

	return model.Period{
		Start: decision,
		End:   model.NewDate(endYear, endMonth, endDay),
	}, nil
}

func firstOfNextMonth(d model.Date) model.Date {
	if d.Month() == time.December {
		return model.NewDate(d.Year()+1, time.January, 1)
	}
	return model.NewDate(d.Year(), d.Month()+1, 1)
}

// AssignPeriods returns a copy of records with Period filled in. Records
// whose period cannot be computed are dropped and counted.
func AssignPeriods(records []model.CertificationRecord) ([]model.CertificationRecord, int) {
	out := make([]model.CertificationRecord, 0, len(records))
	dropped := 0
	for _, r := range records {
		p, err := ComputePeriod(r.ApplicationDate, r.DecisionDate, r.ValidMonths)
		if err != nil {
			dropped++
			continue
		}
		r.Period = p
		out = append(out, r)
	}
	return out, dropped
}
