package schedule

import (
	"strings"
	"time"
)

// Filter narrows an event collection. Zero-valued fields pass everything
// through; set fields are ANDed together.
type Filter struct {
	Trainer string
	Status  Status
	Source  Source
	// Client matches as a case-insensitive substring.
	Client string
	// Month is an English month name ("March"). Ignored when From/To are set.
	Month string
	// From/To select an inclusive day range when both are non-zero.
	From time.Time
	To   time.Time
}

// Matches reports whether the event satisfies every set predicate.
func (f Filter) Matches(e Event) bool {
	if f.Trainer != "" && e.Trainer != f.Trainer {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	if f.Client != "" && !strings.Contains(strings.ToLower(e.Client), strings.ToLower(f.Client)) {
		return false
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		day := dateOnly(e.Date)
		if day.Before(dateOnly(f.From)) || day.After(dateOnly(f.To)) {
			return false
		}
	} else if f.Month != "" && e.Date.Month().String() != f.Month {
		return false
	}
	return true
}

// Apply returns the events matching the filter, preserving order.
func (f Filter) Apply(events []Event) []Event {
	result := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e) {
			result = append(result, e)
		}
	}
	return result
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
