package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// MissingMethod selects how HandleMissing treats blank cells.
type MissingMethod string

const (
	Listwise MissingMethod = "listwise"
	Mean     MissingMethod = "mean"
	Mode     MissingMethod = "mode"
)

// ScaleMethod selects the transform applied by Scale.
type ScaleMethod string

const (
	Normalize   ScaleMethod = "normalize"
	Standardize ScaleMethod = "standardize"
)

// DropColumns returns t without the named columns.
func DropColumns(t *Table, cols []string) (*Table, error) {
	drop := make(map[int]bool, len(cols))
	for _, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, &UnknownColumnError{Column: c}
		}
		drop[j] = true
	}
	var keep []int
	var names []string
	var types []Dtype
	for j, c := range t.cols {
		if !drop[j] {
			keep = append(keep, j)
			names = append(names, c)
			types = append(types, t.types[j])
		}
	}
	out := MustNew(names, types)
	out.rows = make([][]string, len(t.rows))
	for i, row := range t.rows {
		r := make([]string, len(keep))
		for k, j := range keep {
			r[k] = row[j]
		}
		out.rows[i] = r
	}
	return out, nil
}

// HandleMissing fills or drops blank cells in cols. An empty cols selects
// every column for listwise and mode, and every numeric column for mean.
func HandleMissing(t *Table, cols []string, method MissingMethod) (*Table, error) {
	switch method {
	case Listwise:
		idx, err := t.resolve(cols, false)
		if err != nil {
			return nil, err
		}
		var keep []int
		for i, row := range t.rows {
			if !anyBlank(row, idx) {
				keep = append(keep, i)
			}
		}
		return t.Select(keep), nil
	case Mean:
		idx, err := t.resolve(cols, true)
		if err != nil {
			return nil, err
		}
		return t.fillMean(idx)
	case Mode:
		idx, err := t.resolve(cols, false)
		if err != nil {
			return nil, err
		}
		out := t.Clone()
		for _, j := range idx {
			m, found := mode(t, j)
			if !found {
				continue
			}
			for _, row := range out.rows {
				if row[j] == "" {
					row[j] = m
				}
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown missing-value method %q", method)
}

// Scale rescales numeric cols; blank cells stay blank. An empty cols selects
// every numeric column. Scaled columns become Float64.
func Scale(t *Table, cols []string, method ScaleMethod) (*Table, error) {
	idx, err := t.resolve(cols, true)
	if err != nil {
		return nil, err
	}
	switch method {
	case Normalize:
		return t.mapNumeric(idx, func(vals []float64, ok []bool) {
			lo, hi := math.Inf(1), math.Inf(-1)
			for i, v := range vals {
				if ok[i] {
					lo, hi = math.Min(lo, v), math.Max(hi, v)
				}
			}
			for i := range vals {
				if !ok[i] {
					continue
				}
				if hi == lo {
					vals[i] = 0
				} else {
					vals[i] = (vals[i] - lo) / (hi - lo)
				}
			}
		})
	case Standardize:
		return t.mapNumeric(idx, func(vals []float64, ok []bool) {
			var sum float64
			var n int
			for i, v := range vals {
				if ok[i] {
					sum += v
					n++
				}
			}
			if n == 0 {
				return
			}
			mean := sum / float64(n)
			var ss float64
			for i, v := range vals {
				if ok[i] {
					ss += (v - mean) * (v - mean)
				}
			}
			std := 0.0
			if n > 1 {
				std = math.Sqrt(ss / float64(n-1))
			}
			for i := range vals {
				if !ok[i] {
					continue
				}
				if std == 0 {
					vals[i] = 0
				} else {
					vals[i] = (vals[i] - mean) / std
				}
			}
		})
	}
	return nil, fmt.Errorf("unknown scaling method %q", method)
}

func (t *Table) resolve(cols []string, numericOnly bool) ([]int, error) {
	if len(cols) == 0 {
		var idx []int
		for j, d := range t.types {
			if !numericOnly || d != String {
				idx = append(idx, j)
			}
		}
		return idx, nil
	}
	idx := make([]int, 0, len(cols))
	for _, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, &UnknownColumnError{Column: c}
		}
		idx = append(idx, j)
	}
	return idx, nil
}

// fillMean replaces blanks in each selected column with the column mean.
// Columns without blanks are left as they are, and an integer column keeps
// its dtype when the mean is a whole number.
func (t *Table) fillMean(idx []int) (*Table, error) {
	out := t.Clone()
	for _, j := range idx {
		vals, ok, err := t.parseColumn(j)
		if err != nil {
			return nil, err
		}
		var sum float64
		var n int
		for i, v := range vals {
			if ok[i] {
				sum += v
				n++
			}
		}
		if n == 0 || n == len(vals) {
			continue
		}
		mean := sum / float64(n)
		fill := formatFloat(mean)
		if t.types[j] == Int64 || t.types[j] == NullableInt64 {
			if mean != math.Trunc(mean) || math.Abs(mean) > 1<<53 {
				for i, row := range out.rows {
					if ok[i] {
						row[j] = formatFloat(vals[i])
					}
				}
				out.types[j] = Float64
			} else {
				fill = strconv.FormatInt(int64(mean), 10)
			}
		}
		for i, row := range out.rows {
			if !ok[i] {
				row[j] = fill
			}
		}
	}
	return out, nil
}

func (t *Table) parseColumn(j int) ([]float64, []bool, error) {
	vals := make([]float64, len(t.rows))
	ok := make([]bool, len(t.rows))
	for i, row := range t.rows {
		if row[j] == "" {
			continue
		}
		f, valid := Float(row[j])
		if !valid {
			return nil, nil, &CoercionError{Column: t.cols[j], Dtype: Float64, Row: i, Value: row[j], Err: fmt.Errorf("not a number")}
		}
		vals[i], ok[i] = f, true
	}
	return vals, ok, nil
}

// mapNumeric parses each selected column as float64, applies fn, and
// returns a copy with those columns rewritten as Float64.
func (t *Table) mapNumeric(idx []int, fn func(vals []float64, ok []bool)) (*Table, error) {
	out := t.Clone()
	for _, j := range idx {
		vals, ok, err := t.parseColumn(j)
		if err != nil {
			return nil, err
		}
		fn(vals, ok)
		for i, row := range out.rows {
			if ok[i] {
				row[j] = formatFloat(vals[i])
			} else {
				row[j] = ""
			}
		}
		out.types[j] = Float64
	}
	return out, nil
}

// mode returns the most frequent non-blank value of column j. Ties resolve
// to the smallest value, compared numerically for numeric columns.
func mode(t *Table, j int) (string, bool) {
	counts := make(map[string]int)
	for _, row := range t.rows {
		if row[j] != "" {
			counts[row[j]]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}
	vals := make([]string, 0, len(counts))
	for v := range counts {
		vals = append(vals, v)
	}
	numeric := t.types[j] != String
	sort.Slice(vals, func(a, b int) bool {
		if counts[vals[a]] != counts[vals[b]] {
			return counts[vals[a]] > counts[vals[b]]
		}
		if numeric {
			fa, _ := Float(vals[a])
			fb, _ := Float(vals[b])
			return fa < fb
		}
		return vals[a] < vals[b]
	})
	return vals[0], true
}

func anyBlank(row []string, idx []int) bool {
	for _, j := range idx {
		if row[j] == "" {
			return true
		}
	}
	return false
}
