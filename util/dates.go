package util

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DayLayout is the calendar-day format used for timeline buckets and date query params.
const DayLayout = "2006-01-02"

// ParseTimestamp parses an advisory date. RFC3339 is tried first, anything else goes
// through dateparse. Values without a zone are read as UTC. The result is always in UTC.
// Returns false for empty or unparseable input, and for purely numeric input, which
// dateparse would otherwise read as a bare year or a unix timestamp.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.Trim(value, "0123456789") == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), true
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// DayOf returns the UTC calendar day of t as YYYY-MM-DD.
func DayOf(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
