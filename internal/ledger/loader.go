// Package ledger turns raw registry tables into typed residency events and
// certification records.
package ledger

import (
	"github.com/rs/zerolog"

	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/normalize"
	"github.com/gyeh/carestats/internal/table"
)

// Stats reports how many rows were read and how many needed repair.
type Stats struct {
	Rows int
	// Recovered counts fields replaced by the 0 sentinel.
	Recovered int
	// Discarded counts rows dropped as unusable (certification ledger only).
	Discarded int
}

// LoadEvents converts every row of a residency ledger. Malformed fields
// become the 0 / "" sentinel so the eligibility rules can exclude them;
// only a missing required column is an error.
func LoadEvents(t *table.Table, log zerolog.Logger) ([]model.ResidencyEvent, Stats, error) {
	if err := ValidateEvents(t); err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: t.Len()}
	zoneCol := model.ColSchoolZoneName
	if !t.Has(zoneCol) {
		zoneCol = model.ColLocality
	}

	events := make([]model.ResidencyEvent, t.Len())
	for i := range events {
		date := func(col string) model.Date {
			raw := t.Value(i, col)
			d := normalize.ParseDate(raw)
			if d == 0 && normalize.Digits(raw) != "" && normalize.Digits(raw) != "0" {
				stats.Recovered++
				log.Debug().Int("row", i).Str("column", col).Str("value", raw).Msg("unparseable date treated as unknown")
			}
			return d
		}
		id, _ := normalize.ParseInt(t.Value(i, model.ColResidentID))
		seq, _ := normalize.ParseInt(t.Value(i, model.ColSequenceNo))
		locality := t.Value(i, model.ColLocality)

		events[i] = model.ResidencyEvent{
			ResidentID:         id,
			SequenceNo:         seq,
			EventDate:          date(model.ColEventDate),
			EventReason:        normalize.Reason(t.Value(i, model.ColEventReason)),
			ExitDate:           date(model.ColExitDate),
			DeathDate:          date(model.ColDeathDate),
			BecameResidentDate: date(model.ColBecameResidentDate),
			District:           normalize.District(locality),
			SchoolZone:         normalize.SchoolZone(t.Value(i, zoneCol)),
			BirthYear:          normalize.BirthYear(t.Value(i, model.ColBirthYear)),
			Row:                i,
		}
	}

	ev := log.Info().Int("rows", stats.Rows)
	if stats.Recovered > 0 {
		ev = ev.Int("recovered", stats.Recovered)
	}
	ev.Msg("residency ledger loaded")
	return events, stats, nil
}

// LoadCertifications converts a certification ledger. Rows without an
// application date, a decision date or a positive validity are discarded.
// Period is left zero; see certification.AssignPeriods.
func LoadCertifications(t *table.Table, log zerolog.Logger) ([]model.CertificationRecord, Stats, error) {
	if err := ValidateCertifications(t); err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: t.Len()}
	records := make([]model.CertificationRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id, _ := normalize.ParseInt(t.Value(i, model.ColResidentID))
		months, _ := normalize.ParseInt(t.Value(i, model.ColValidMonths))
		rec := model.CertificationRecord{
			ResidentID:      id,
			ApplicationDate: normalize.ParseDate(t.Value(i, model.ColApplicationDate)),
			DecisionDate:    normalize.ParseDate(t.Value(i, model.ColDecisionDate)),
			ValidMonths:     int(months),
			Row:             i,
		}
		if rec.ResidentID <= 0 || rec.ApplicationDate == 0 || rec.DecisionDate == 0 || rec.ValidMonths < 1 {
			stats.Discarded++
			log.Debug().Int("row", i).Int64("resident_id", rec.ResidentID).Msg("certification row discarded")
			continue
		}
		records = append(records, rec)
	}

	log.Info().
		Int("rows", stats.Rows).
		Int("discarded", stats.Discarded).
		Msg("certification ledger loaded")
	return records, stats, nil
}
