package eligibility

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/gyeh/carestats/internal/model"
)

// checkEvery is how many residents a worker evaluates between context checks.
const checkEvery = 1024

// Result is the outcome of filtering a whole ledger at one cutoff.
type Result struct {
	// Eligible holds one representative event per eligible resident,
	// ordered by resident id.
	Eligible []model.ResidencyEvent
	// Excluded holds the latest raw event of every excluded resident,
	// ordered by resident id.
	Excluded []model.ResidencyEvent
	// Skipped counts rows without a usable resident id.
	Skipped int
}

// Group buckets events by resident id. Rows with a non-positive id are
// dropped and counted. The returned ids are sorted.
func Group(events []model.ResidencyEvent) ([]int64, map[int64][]model.ResidencyEvent, int) {
	groups := make(map[int64][]model.ResidencyEvent)
	skipped := 0
	for _, e := range events {
		if e.ResidentID <= 0 {
			skipped++
			continue
		}
		groups[e.ResidentID] = append(groups[e.ResidentID], e)
	}
	ids := make([]int64, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, groups, skipped
}

type outcome struct {
	event    model.ResidencyEvent
	eligible bool
}

// FilterAll evaluates every resident group at rules.Cutoff. Groups are
// independent, so they are sharded across workers (GOMAXPROCS when
// workers <= 0). Each worker writes only its own slots of the outcome
// slice; the input is never modified.
func FilterAll(ctx context.Context, events []model.ResidencyEvent, rules Rules, workers int) (*Result, error) {
	ids, groups, skipped := Group(events)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	outcomes := make([]outcome, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		shard := w
		g.Go(func() error {
			for pos := shard; pos < len(ids); pos += workers {
				if (pos/workers)%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						return fmt.Errorf("eligibility shard %d: %w", shard, err)
					}
				}
				group := groups[ids[pos]]
				if e, ok := rules.Evaluate(group); ok {
					outcomes[pos] = outcome{event: e, eligible: true}
				} else {
					outcomes[pos] = outcome{event: latest(group)}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Skipped: skipped}
	for _, o := range outcomes {
		if o.eligible {
			res.Eligible = append(res.Eligible, o.event)
		} else {
			res.Excluded = append(res.Excluded, o.event)
		}
	}
	return res, nil
}

func latest(group []model.ResidencyEvent) model.ResidencyEvent {
	best := group[0]
	for _, e := range group[1:] {
		if later(e, best) {
			best = e
		}
	}
	return best
}
