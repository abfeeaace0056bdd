package reminder

import (
	"fmt"
	"strings"
	"time"
)

// JST is the fixed UTC+9 zone reminders are computed in.
var JST = time.FixedZone("JST", 9*60*60)

// zonedLayouts carry an explicit offset ("Z", "+09:00" or "+0900").
var zonedLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04Z0700",
}

// naiveLayouts are interpreted as JST wall clock. Fractional seconds are
// accepted after the seconds field.
var naiveLayouts = []string{
	"2006-01-02",
	"2006-01-02T15",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseDueStrict parses an ISO-8601 date or date-time. Values without an
// offset are taken as JST; values with one are converted to JST.
func ParseDueStrict(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(JST), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, JST); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised due date %q", s)
}
