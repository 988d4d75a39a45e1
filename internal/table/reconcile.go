package table

import (
	"errors"
	"sort"
)

// Align checks that incoming has exactly the column set of base and returns
// a copy of incoming with base's column order and dtypes. Every column is
// coerced; all failing columns are reported together and no table is returned.
func Align(base, incoming *Table) (*Table, error) {
	if err := sameColumns(base, incoming); err != nil {
		return nil, err
	}

	out := MustNew(base.cols, base.types)
	out.rows = make([][]string, len(incoming.rows))
	for i := range out.rows {
		out.rows[i] = make([]string, len(base.cols))
	}

	var errs []error
	for j, col := range base.cols {
		src := incoming.index[col]
		for i, row := range incoming.rows {
			v, err := coerce(row[src], base.types[j])
			if err != nil {
				errs = append(errs, &CoercionError{Column: col, Dtype: base.types[j], Row: i, Value: row[src], Err: err})
				break
			}
			out.rows[i][j] = v
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Concat appends incoming's rows to base after aligning them. Neither input
// is modified.
func Concat(base, incoming *Table) (*Table, error) {
	aligned, err := Align(base, incoming)
	if err != nil {
		return nil, err
	}
	out := base.Clone()
	out.rows = append(out.rows, aligned.rows...)
	return out, nil
}

func sameColumns(base, incoming *Table) error {
	var mismatch SchemaMismatchError
	for _, c := range base.cols {
		if !incoming.Has(c) {
			mismatch.Missing = append(mismatch.Missing, c)
		}
	}
	for _, c := range incoming.cols {
		if !base.Has(c) {
			mismatch.Extra = append(mismatch.Extra, c)
		}
	}
	if len(mismatch.Missing) == 0 && len(mismatch.Extra) == 0 {
		return nil
	}
	sort.Strings(mismatch.Missing)
	sort.Strings(mismatch.Extra)
	return &mismatch
}
