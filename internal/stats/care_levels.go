package stats

import (
	"sort"

	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/normalize"
	"github.com/gyeh/carestats/internal/table"
)

// NotApplicableLevel is the secondary assessment result for residents found
// not to need care. It is left out of the distribution.
const NotApplicableLevel = "非該当"

var levelOrder = map[string]int{
	"要支援１":   0,
	"要支援２":   1,
	"要介護１":   2,
	"要介護２":   3,
	"要介護３":   4,
	"要介護４":   5,
	"要介護５":   6,
	"経過的要介護": 7,
	"再調査":    8,
}

// CareLevel is the number of certified elderly residents at one care level
// in one year, and their share of that year's certified elderly.
type CareLevel struct {
	Year  int
	Level string
	Count int
	Share float64
}

// CareLevels tallies certified residents aged opts.ElderlyAge or over by
// their secondary assessment level. Blank and not-applicable levels are
// skipped and do not count toward the shares.
func CareLevels(t *table.Table, year int, opts Options) ([]CareLevel, error) {
	for _, c := range []string{model.ColStatus, model.ColBirthYear, model.ColCareLevelName} {
		if !t.Has(c) {
			return nil, &table.UnknownColumnError{Column: c}
		}
	}

	counts := map[string]int{}
	total := 0
	for i := 0; i < t.Len(); i++ {
		if t.Value(i, model.ColStatus) != opts.CertifiedLabel {
			continue
		}
		if normalize.Age(year, normalize.BirthYear(t.Value(i, model.ColBirthYear))) < opts.ElderlyAge {
			continue
		}
		level := t.Value(i, model.ColCareLevelName)
		if level == "" || level == NotApplicableLevel {
			continue
		}
		counts[level]++
		total++
	}

	out := make([]CareLevel, 0, len(counts))
	for level, n := range counts {
		out = append(out, CareLevel{Year: year, Level: level, Count: n, Share: ratio(n, total)})
	}
	SortCareLevels(out)
	return out, nil
}

// SortCareLevels orders levels by year descending, then from the lightest
// support level to the heaviest care level. Unrecognized levels sort last
// by name.
func SortCareLevels(levels []CareLevel) {
	sort.Slice(levels, func(i, j int) bool {
		a, b := levels[i], levels[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		ra, oka := levelOrder[a.Level]
		rb, okb := levelOrder[b.Level]
		switch {
		case oka && okb:
			return ra < rb
		case oka != okb:
			return oka
		}
		return a.Level < b.Level
	})
}

var careLevelColumns = []string{"year", "care_level", "count", "share"}

// CareLevelsTable renders care levels as a typed table for CSV or XLSX export.
func CareLevelsTable(levels []CareLevel) *table.Table {
	t := table.MustNew(careLevelColumns, []table.Dtype{table.Int64, table.String, table.Int64, table.Float64})
	for _, l := range levels {
		_ = t.Append([]string{itoa(l.Year), l.Level, itoa(l.Count), ftoa(l.Share)})
	}
	return t
}
