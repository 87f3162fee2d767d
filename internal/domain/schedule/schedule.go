// Package schedule implements the time arithmetic behind the review
// schedule: client UTC-offset handling and local-day window computation.
// Everything here is pure; storage and orchestration live elsewhere.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidOffset is returned when a client-supplied UTC offset is
// malformed, outside the ±18:00 range, or not a 15-minute increment.
var ErrInvalidOffset = errors.New("invalid UTC offset")

// WindowLength is the span of a single review window.
const WindowLength = 24 * time.Hour

const maxOffsetMinutes = 18 * 60

// ParseOffset parses a client-supplied UTC offset into a fixed time zone.
// Accepted forms are "Z" and "±HH:MM". The offset must lie within ±18:00
// and be a multiple of 15 minutes, matching what real-world zones use.
func ParseOffset(s string) (*time.Location, error) {
	if s == "Z" {
		return time.UTC, nil
	}

	if len(s) != 6 || (s[0] != '+' && s[0] != '-') || s[3] != ':' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}

	// Each of the four HH/MM bytes must be an ASCII digit; anything looser
	// (signs, spaces) would slip past strconv's leniency below.
	for _, i := range []int{1, 2, 4, 5} {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
		}
	}

	hours, _ := strconv.Atoi(s[1:3])
	minutes, _ := strconv.Atoi(s[4:6])

	if minutes > 59 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}

	total := hours*60 + minutes
	if total > maxOffsetMinutes || total%15 != 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}

	if s[0] == '-' {
		total = -total
	}

	return time.FixedZone("UTC"+s, total*60), nil
}

// DayWindow returns the boundaries [start, end) of the caller's local
// calendar day containing now: start is the most recent local midnight at
// or before now, end is start plus 24 hours. Both instants are returned
// in UTC.
func DayWindow(now time.Time, loc *time.Location) (start, end time.Time) {
	local := now.In(loc)
	y, m, d := local.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
	return start, start.Add(WindowLength)
}
