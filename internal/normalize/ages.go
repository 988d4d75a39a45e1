package normalize

// BirthYear clamps a parsed birth year to >= 0; unparseable values become 0.
func BirthYear(s string) int {
	v, ok := ParseInt(s)
	if !ok || v < 0 {
		return 0
	}
	return int(v)
}

// Age returns the age reached during year, or -1 when the birth year is unknown.
func Age(year, birthYear int) int {
	if birthYear <= 0 || birthYear > year {
		return -1
	}
	return year - birthYear
}
