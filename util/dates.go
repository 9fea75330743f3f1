package util

import (
	"regexp"
	"strings"
	"time"
)

var trailingYearPattern = regexp.MustCompile(`(\d{4})`)

// ParseLifecycleDate parses the date formats lifecycle sources use:
// YYYY-MM-DD, YYYY-MM (first of the month) and YYYY (January 1st). As a last
// resort a 4-digit year embedded in prose is extracted. The boolean is false
// when no numeric date could be recovered.
func ParseLifecycleDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if match := trailingYearPattern.FindString(s); match != "" {
		if t, err := time.Parse("2006", match); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// DaysUntil returns the number of whole days from now until t. Negative when
// t is in the past.
func DaysUntil(t, now time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}
