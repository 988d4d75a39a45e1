// Package stats computes aging and certification rates by area from
// reconciled resident tables.
package stats

import (
	"sort"
	"strconv"

	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/normalize"
	"github.com/gyeh/carestats/internal/table"
)

// Area kinds.
const (
	KindTotal      = "total"
	KindDistrict   = "district"
	KindSchoolZone = "school_zone"
)

// Options controls how residents are classified.
type Options struct {
	ElderlyAge     int
	LateElderlyAge int
	CertifiedLabel string
	// ExcludedLabel rows are ignored when non-empty.
	ExcludedLabel string
}

// AreaRate holds the counts and rates for one area in one year.
type AreaRate struct {
	Year        int
	Kind        string
	Area        string
	Population  int
	Elderly     int
	LateElderly int
	// Certified counts certified residents among the elderly.
	Certified int

	AgingRate         float64
	CertificationRate float64
	LateElderlyRate   float64
}

func (r *AreaRate) finish() {
	r.AgingRate = ratio(r.Elderly, r.Population)
	r.CertificationRate = ratio(r.Certified, r.Elderly)
	r.LateElderlyRate = ratio(r.LateElderly, r.Elderly)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

type key struct{ kind, area string }

// Rates tallies a reconciled table for year. Rows without an area label
// count toward the total only.
func Rates(t *table.Table, year int, opts Options) ([]AreaRate, error) {
	for _, c := range []string{model.ColStatus, model.ColBirthYear} {
		if !t.Has(c) {
			return nil, &table.UnknownColumnError{Column: c}
		}
	}
	zoneCol := model.ColSchoolZoneName
	if !t.Has(zoneCol) {
		zoneCol = model.ColLocality
	}

	acc := map[key]*AreaRate{}
	add := func(k key, age int, certified bool) {
		r, ok := acc[k]
		if !ok {
			r = &AreaRate{Year: year, Kind: k.kind, Area: k.area}
			acc[k] = r
		}
		r.Population++
		if age >= opts.ElderlyAge {
			r.Elderly++
			if certified {
				r.Certified++
			}
		}
		if age >= opts.LateElderlyAge {
			r.LateElderly++
		}
	}

	for i := 0; i < t.Len(); i++ {
		status := t.Value(i, model.ColStatus)
		if opts.ExcludedLabel != "" && status == opts.ExcludedLabel {
			continue
		}
		age := normalize.Age(year, normalize.BirthYear(t.Value(i, model.ColBirthYear)))
		certified := status == opts.CertifiedLabel

		add(key{KindTotal, ""}, age, certified)
		if d := normalize.District(t.Value(i, model.ColLocality)); d != "" {
			add(key{KindDistrict, d}, age, certified)
		}
		if z := normalize.SchoolZone(t.Value(i, zoneCol)); z != "" {
			add(key{KindSchoolZone, z}, age, certified)
		}
	}

	out := make([]AreaRate, 0, len(acc))
	for _, r := range acc {
		r.finish()
		out = append(out, *r)
	}
	Sort(out)
	return out, nil
}

var kindOrder = map[string]int{KindTotal: 0, KindDistrict: 1, KindSchoolZone: 2}

// Sort orders rates by year descending, then kind, then area name.
func Sort(rates []AreaRate) {
	sort.Slice(rates, func(i, j int) bool {
		a, b := rates[i], rates[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Kind != b.Kind {
			return kindOrder[a.Kind] < kindOrder[b.Kind]
		}
		return a.Area < b.Area
	})
}

var rateColumns = []string{
	"year", "kind", "area", "population", "elderly", "late_elderly", "certified",
	"aging_rate", "certification_rate", "late_elderly_rate",
}

// Table renders rates as a typed table for CSV or XLSX export.
func Table(rates []AreaRate) *table.Table {
	types := []table.Dtype{
		table.Int64, table.String, table.String, table.Int64, table.Int64, table.Int64, table.Int64,
		table.Float64, table.Float64, table.Float64,
	}
	t := table.MustNew(rateColumns, types)
	for _, r := range rates {
		// Every value is well-formed for its dtype.
		_ = t.Append([]string{
			itoa(r.Year), r.Kind, r.Area,
			itoa(r.Population), itoa(r.Elderly), itoa(r.LateElderly), itoa(r.Certified),
			ftoa(r.AgingRate), ftoa(r.CertificationRate), ftoa(r.LateElderlyRate),
		})
	}
	return t
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }
