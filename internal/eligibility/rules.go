// Package eligibility decides, per resident and cutoff date, whether the
// resident was present and which residency event represents them.
package eligibility

import (
	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/normalize"
)

// Rules holds the cutoff and the reason codes that never count as present.
type Rules struct {
	Cutoff   model.Date
	excluded map[string]struct{}
}

// NewRules builds Rules for cutoff. Reasons are compared after trimming.
func NewRules(cutoff model.Date, excludedReasons []string) Rules {
	r := Rules{Cutoff: cutoff, excluded: make(map[string]struct{}, len(excludedReasons))}
	for _, reason := range excludedReasons {
		r.excluded[normalize.Reason(reason)] = struct{}{}
	}
	return r
}

// Excludes reports whether reason removes an event from consideration.
func (r Rules) Excludes(reason string) bool {
	_, ok := r.excluded[normalize.Reason(reason)]
	return ok
}

// later orders events by sequence number, then by source row for the
// duplicate sequence numbers some extracts contain.
func later(a, b model.ResidencyEvent) bool {
	if a.SequenceNo != b.SequenceNo {
		return a.SequenceNo > b.SequenceNo
	}
	return a.Row > b.Row
}

// Evaluate returns the event representing one resident at the cutoff, or
// ok=false when the resident is not an eligible resident. events must all
// share one resident id; the slice is not modified.
//
// The steps, in order:
//  1. a death strictly before the cutoff excludes the resident;
//  2. an exit on or before the cutoff supersedes every event up to and
//     including its sequence number;
//  3. events not yet in effect at the cutoff are invisible;
//  4. events with an excluded reason are dropped;
//  5. the highest sequence number among the survivors wins.
func (r Rules) Evaluate(events []model.ResidencyEvent) (model.ResidencyEvent, bool) {
	if len(events) == 0 {
		return model.ResidencyEvent{}, false
	}

	superseding, hasExit := int64(0), false
	for _, e := range events {
		if e.IsDeath() && e.DeathDate < r.Cutoff {
			return model.ResidencyEvent{}, false
		}
		if e.ExitDate != 0 && e.ExitDate <= r.Cutoff {
			if !hasExit || e.SequenceNo > superseding {
				superseding, hasExit = e.SequenceNo, true
			}
		}
	}

	var best model.ResidencyEvent
	found := false
	for _, e := range events {
		if hasExit && e.SequenceNo <= superseding {
			continue
		}
		if d := e.EffectiveDate(); d == 0 || d > r.Cutoff {
			continue
		}
		if r.Excludes(e.EventReason) {
			continue
		}
		if !found || later(e, best) {
			best, found = e, true
		}
	}
	return best, found
}
