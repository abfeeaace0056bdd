package tasks

import (
	"strings"
	"time"
)

// FarFuture is the due time of tasks whose due date is empty or unparseable,
// so that they sort after every dated task.
var FarFuture = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)

// dueLayouts are tried in order; the first match wins.
var dueLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDue parses a due date as entered in the web form: either a date
// ("2025-01-10") or a minute-precision local date-time ("2025-01-10T08:00").
// The result carries no meaningful zone. Anything else yields FarFuture.
//
// A date-only value is midnight of that day, so it sorts before any time on
// the same day.
func ParseDue(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return FarFuture
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return FarFuture
}
