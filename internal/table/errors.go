package table

import (
	"fmt"
	"strings"
)

// SchemaMismatchError reports differing column sets between two tables.
// Missing names columns of the base absent from the incoming table;
// Extra names incoming columns the base does not have.
type SchemaMismatchError struct {
	Missing []string
	Extra   []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected columns: "+strings.Join(e.Extra, ", "))
	}
	return "schema mismatch: " + strings.Join(parts, "; ")
}

// CoercionError reports a cell that could not be converted to a column's dtype.
type CoercionError struct {
	Column string
	Dtype  Dtype
	Row    int
	Value  string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("column %q: cannot coerce %q (row %d) to %s: %v", e.Column, e.Value, e.Row, e.Dtype, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// UnknownColumnError reports a reference to a column the table does not have.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}
