package util

import (
	"errors"
	"strings"
	"time"
)

// ParseDateRange parses optional start/end filter strings, each either a
// date-only "YYYY-MM-DD" or an RFC3339 timestamp. A date-only end widens to
// an exclusive next-day boundary so the whole end day is included. Reversed
// ranges are swapped; whether the boundary gains a day still follows the end
// input's format.
func ParseDateRange(startStr, endStr *string) (start time.Time, hasStart bool, endExclusive time.Time, hasEnd bool, err error) {
	parse := func(p *string) (t time.Time, ok bool, dateOnly bool, err error) {
		if p == nil {
			return time.Time{}, false, false, nil
		}
		s := strings.TrimSpace(*p)
		if s == "" {
			return time.Time{}, false, false, nil
		}
		if tt, e := time.Parse(time.RFC3339, s); e == nil {
			return tt, true, false, nil
		}
		if tt, e := time.Parse("2006-01-02", s); e == nil {
			return tt, true, true, nil
		}
		return time.Time{}, false, false, errors.New("invalid date format (use YYYY-MM-DD or RFC3339)")
	}

	rawStart, startOk, _, err := parse(startStr)
	if err != nil {
		return time.Time{}, false, time.Time{}, false, err
	}
	rawEnd, endOk, endDateOnly, err := parse(endStr)
	if err != nil {
		return time.Time{}, false, time.Time{}, false, err
	}

	if startOk && endOk && rawEnd.Before(rawStart) {
		rawStart, rawEnd = rawEnd, rawStart
	}

	if startOk {
		start = rawStart
		hasStart = true
	}
	if endOk {
		endExclusive = rawEnd
		if endDateOnly {
			endExclusive = rawEnd.AddDate(0, 0, 1)
		}
		hasEnd = true
	}

	return start, hasStart, endExclusive, hasEnd, nil
}
