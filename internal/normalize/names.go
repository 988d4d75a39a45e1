package normalize

import (
	"regexp"
	"strings"
)

var (
	districtPattern   = regexp.MustCompile(`^(.*区)`)
	schoolZonePattern = regexp.MustCompile(`^(.*小)`)
)

// District extracts the administrative district (the prefix ending in 区)
// from a locality name. Unmatched names yield "".
func District(locality string) string {
	return firstGroup(districtPattern, locality)
}

// SchoolZone extracts the elementary school zone (the prefix ending in 小).
func SchoolZone(name string) string {
	return firstGroup(schoolZonePattern, name)
}

// Reason trims an event reason name so that padded extracts compare equal.
func Reason(s string) string {
	return strings.TrimSpace(s)
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ""
	}
	return m[1]
}
