package reconcile

import (
	"slices"

	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/normalize"
	"github.com/gyeh/carestats/internal/table"
)

var derivedColumns = []string{model.ColPeriodStart, model.ColPeriodEnd, model.ColStatus}

// source maps one output column to the ledger it is copied from.
type source struct {
	fromCerts bool
	col       string
}

// BuildTable assembles the reconciled table. Each status yields one row:
// its representative ledger row, the matched certification's descriptive
// columns, the certification window and a status label. Dropped columns
// are omitted from both ledgers.
func BuildTable(in Input, statuses []model.ResidentStatus, dropped []string, labels normalize.Labels) (*table.Table, error) {
	skip := func(col string) bool {
		return slices.Contains(dropped, col) || slices.Contains(derivedColumns, col)
	}

	var (
		cols  []string
		types []table.Dtype
		srcs  []source
	)
	ledgerTypes := in.Ledger.Dtypes()
	for j, c := range in.Ledger.Columns() {
		if skip(c) {
			continue
		}
		cols = append(cols, c)
		types = append(types, ledgerTypes[j])
		srcs = append(srcs, source{col: c})
	}
	certTypes := in.Certifications.Dtypes()
	for j, c := range in.Certifications.Columns() {
		if skip(c) || c == model.ColResidentID || in.Ledger.Has(c) {
			continue
		}
		d := certTypes[j]
		if d == table.Int64 {
			// Residents without a certification leave these blank.
			d = table.NullableInt64
		}
		cols = append(cols, c)
		types = append(types, d)
		srcs = append(srcs, source{fromCerts: true, col: c})
	}
	cols = append(cols, derivedColumns...)
	types = append(types, table.NullableInt64, table.NullableInt64, table.String)

	out, err := table.New(cols, types)
	if err != nil {
		return nil, err
	}
	for _, s := range statuses {
		row := make([]string, len(cols))
		cert := s.Certification
		for j, src := range srcs {
			switch {
			case !src.fromCerts:
				row[j] = in.Ledger.Value(s.Event.Row, src.col)
			case cert != nil:
				row[j] = in.Certifications.Value(cert.Row, src.col)
			}
		}
		n := len(srcs)
		if cert != nil && s.Status == model.StatusCertified {
			row[n] = cert.Period.Start.Compact()
			row[n+1] = cert.Period.End.Compact()
		}
		row[n+2] = labels.Of(s.Status)
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}
