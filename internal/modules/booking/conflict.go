package booking

import (
	"errors"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var errBadDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

// DateRange is an inclusive range of calendar days, both ends at UTC midnight.
type DateRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Overlaps reports whether the requested range r conflicts with the existing range b:
// b.Start <= r.Start <= b.End, or b.Start <= r.End <= b.End, or r contains b.
func Overlaps(r, b DateRange) bool {
	within := func(t time.Time) bool {
		return !t.Before(b.Start) && !t.After(b.End)
	}
	return within(r.Start) ||
		within(r.End) ||
		(!b.Start.Before(r.Start) && !b.End.After(r.End))
}

// ParseDate accepts a calendar day or an RFC 3339 timestamp and returns that day at UTC midnight.
// The day of a timestamp is taken in its own offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Days is the number of whole days between start and end.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// QuotePrice charges pricePerDay for each whole day in r, and one day for same-day rentals.
func QuotePrice(pricePerDay float64, r DateRange) float64 {
	total := pricePerDay
	if days := r.Days(); days > 0 {
		total = float64(days) * pricePerDay
	}
	return math.Round(total*100) / 100
}
