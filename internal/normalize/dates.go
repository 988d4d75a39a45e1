package normalize

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"

	"github.com/gyeh/carestats/internal/model"
)

// Date layouts seen in registry and certification extracts.
var dateFormats = []string{
	"20060102",
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006.01.02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate coerces a free-form date value to a packed Date.
// Full-width digits are accepted, as are float renderings such as
// "20190401.0". It returns 0 for blanks, "0" and anything unparseable.
func ParseDate(s string) model.Date {
	s = Digits(s)
	if s == "" || s == "0" {
		return 0
	}
	if i := strings.IndexByte(s, '.'); i == 8 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOf(t)
		}
	}
	return 0
}

// ParseInt coerces an integer-like value, returning ok=false on failure.
func ParseInt(s string) (int64, bool) {
	s = Digits(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// Digits narrows full-width characters and trims ASCII and ideographic space.
func Digits(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}
