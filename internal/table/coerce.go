package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gyeh/carestats/internal/normalize"
)

var errBlank = errors.New("blank value in non-nullable column")

// coerce converts v to the canonical string form of d.
func coerce(v string, d Dtype) (string, error) {
	switch d {
	case String:
		return v, nil
	case Int64, NullableInt64:
		s := normalize.Digits(v)
		if s == "" {
			if d == NullableInt64 {
				return "", nil
			}
			return "", errBlank
		}
		n, ok := normalize.ParseInt(s)
		if !ok {
			return "", fmt.Errorf("not an integer")
		}
		return strconv.FormatInt(n, 10), nil
	case Float64:
		s := normalize.Digits(v)
		if s == "" {
			return "", nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) {
			return "", fmt.Errorf("not a number")
		}
		if math.IsNaN(f) {
			return "", nil
		}
		return formatFloat(f), nil
	}
	return "", fmt.Errorf("unsupported dtype %s", d)
}

// sentinel is the value substituted for an unparseable cell when reading leniently.
func sentinel(d Dtype) string {
	if d == Int64 {
		return "0"
	}
	return ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Float returns the numeric value of a Float64 or integer cell.
func Float(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
