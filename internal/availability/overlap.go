// Package availability holds the pure date-range and pricing rules used
// when booking a room.
package availability

import (
	"errors"
	"strings"
	"time"

	"hotel-booking/internal/models"
)

// ErrInvalidRange is returned when a stay does not end after it starts.
var ErrInvalidRange = errors.New("check-out must be after check-in")

// IsOverlapping reports whether [existingStart, existingEnd) and
// [candidateStart, candidateEnd) share any instant. A stay ending on the day
// another begins does not overlap it.
func IsOverlapping(existingStart, existingEnd, candidateStart, candidateEnd time.Time) bool {
	return existingStart.Before(candidateEnd) && candidateStart.Before(existingEnd)
}

// CountOverlaps returns how many of ranges intersect [start, end).
func CountOverlaps(ranges []models.DateRange, start, end time.Time) int {
	n := 0
	for _, r := range ranges {
		if IsOverlapping(r.Start, r.End, start, end) {
			n++
		}
	}
	return n
}

// ValidateRange requires checkIn to be strictly before checkOut.
func ValidateRange(checkIn, checkOut time.Time) error {
	if !checkIn.Before(checkOut) {
		return ErrInvalidRange
	}
	return nil
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

// ParseDate accepts RFC 3339 timestamps and plain calendar dates. Dates
// without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("invalid date: " + s)
}

// ParseRange parses both ends and validates their order.
func ParseRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := ValidateRange(in, out); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}
