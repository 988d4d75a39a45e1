// Package table is a small in-memory tabular store for registry extracts.
// Cells are held as canonical strings; each column carries a Dtype that
// constrains what those strings may be.
package table

import (
	"fmt"
	"strings"
)

// Dtype is the declared type of a column.
type Dtype int

const (
	String Dtype = iota
	Int64
	// NullableInt64 allows blank cells.
	NullableInt64
	Float64
)

func (d Dtype) String() string {
	switch d {
	case String:
		return "str"
	case Int64:
		return "int"
	case NullableInt64:
		return "Int64"
	case Float64:
		return "float"
	}
	return fmt.Sprintf("Dtype(%d)", int(d))
}

// ParseDtype accepts the names produced by Dtype.String plus a few aliases.
func ParseDtype(s string) (Dtype, error) {
	switch strings.TrimSpace(s) {
	case "str", "string", "object":
		return String, nil
	case "int", "int64":
		return Int64, nil
	case "Int64", "Int8", "nullable-int":
		return NullableInt64, nil
	case "float", "float64":
		return Float64, nil
	}
	return String, fmt.Errorf("unknown dtype %q", s)
}

// Table is an ordered set of named, typed columns. Tables are treated as
// immutable once built; every transform returns a new Table.
type Table struct {
	cols  []string
	types []Dtype
	index map[string]int
	rows  [][]string
}

// New creates an empty table. Column names must be unique.
func New(cols []string, types []Dtype) (*Table, error) {
	if len(cols) != len(types) {
		return nil, fmt.Errorf("table: %d columns but %d dtypes", len(cols), len(types))
	}
	t := &Table{
		cols:  append([]string(nil), cols...),
		types: append([]Dtype(nil), types...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c)
		}
		t.index[c] = i
	}
	return t, nil
}

// MustNew is New for statically known schemas.
func MustNew(cols []string, types []Dtype) *Table {
	t, err := New(cols, types)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string { return append([]string(nil), t.cols...) }

// Dtypes returns a copy of the column dtypes in order.
func (t *Table) Dtypes() []Dtype { return append([]Dtype(nil), t.types...) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Index returns the position of col.
func (t *Table) Index(col string) (int, bool) {
	i, ok := t.index[col]
	return i, ok
}

// Dtype returns the declared type of col.
func (t *Table) Dtype(col string) (Dtype, bool) {
	i, ok := t.index[col]
	if !ok {
		return String, false
	}
	return t.types[i], true
}

// Row returns row i. The slice must not be modified.
func (t *Table) Row(i int) []string { return t.rows[i] }

// Value returns the cell at row i, column col, or "" if the column is absent.
func (t *Table) Value(i int, col string) string {
	j, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.rows[i][j]
}

// Append adds a row after validating each cell against its column dtype.
func (t *Table) Append(values []string) error {
	if len(values) != len(t.cols) {
		return fmt.Errorf("table: row has %d values, want %d", len(values), len(t.cols))
	}
	row := make([]string, len(values))
	for j, v := range values {
		cv, err := coerce(v, t.types[j])
		if err != nil {
			return &CoercionError{Column: t.cols[j], Dtype: t.types[j], Row: len(t.rows), Value: v, Err: err}
		}
		row[j] = cv
	}
	t.rows = append(t.rows, row)
	return nil
}

// appendTrusted adds an already-canonical row without copying.
func (t *Table) appendTrusted(row []string) { t.rows = append(t.rows, row) }

// Clone returns a table sharing no mutable state with t.
func (t *Table) Clone() *Table {
	c := MustNew(t.cols, t.types)
	c.rows = make([][]string, len(t.rows))
	for i, r := range t.rows {
		c.rows[i] = append([]string(nil), r...)
	}
	return c
}

// Select returns a new table containing the given rows in the given order.
func (t *Table) Select(rows []int) *Table {
	c := MustNew(t.cols, t.types)
	c.rows = make([][]string, 0, len(rows))
	for _, i := range rows {
		c.rows = append(c.rows, append([]string(nil), t.rows[i]...))
	}
	return c
}
