package shift

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
)

const minutesPerDay = 24 * 60

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(hm string) (int, error) {
	parts := strings.Split(strings.TrimSpace(hm), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, httperr.ErrBusiness("invalid_time")
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, httperr.ErrBusiness("invalid_time")
	}
	return h*60 + m, nil
}

// Span is the wall-clock length between start and end. An end at or before
// the start wraps to the next day, except identical times which span nothing.
func Span(start, end string) (time.Duration, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e == s {
		return 0, nil
	}
	if e < s {
		e += minutesPerDay
	}
	return time.Duration(e-s) * time.Minute, nil
}

// Worked is the span minus the break, never negative.
func Worked(start, end string, breakMinutes int) (time.Duration, error) {
	if breakMinutes < 0 {
		return 0, httperr.ErrBusiness("invalid_break")
	}
	span, err := Span(start, end)
	if err != nil {
		return 0, err
	}
	worked := span - time.Duration(breakMinutes)*time.Minute
	if worked < 0 {
		return 0, nil
	}
	return worked, nil
}

// Hours returns worked time as a decimal number of hours, two places.
func Hours(start, end string, breakMinutes int) (decimal.Decimal, error) {
	worked, err := Worked(start, end, breakMinutes)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(int64(worked / time.Minute)).
		Div(decimal.NewFromInt(60)).
		Round(2), nil
}

// Overnight reports whether the shift ends on the following day.
func Overnight(start, end string) bool {
	s, err1 := ParseClock(start)
	e, err2 := ParseClock(end)
	return err1 == nil && err2 == nil && e < s
}
