// Package lifecycle buckets policies by how close their end date is.
package lifecycle

import (
	"time"

	"github.com/a3tai/policy-tracker/internal/dates"
)

// Status is the expiry bucket of a policy.
type Status int

const (
	Active Status = iota
	ExpiringSoon
	Expired
)

// DefaultWindowDays is how many days before the end date a policy counts as
// expiring soon.
const DefaultWindowDays = 30

// String returns the bucket name used in listings.
func (s Status) String() string {
	switch s {
	case ExpiringSoon:
		return "expiring_soon"
	case Expired:
		return "expired"
	default:
		return "active"
	}
}

// Label returns the Turkish heading shown above each bucket.
func (s Status) Label() string {
	switch s {
	case ExpiringSoon:
		return "Yaklaşanlar"
	case Expired:
		return "Süresi Bitenler"
	default:
		return "Güncel Poliçeler"
	}
}

// Classifier assigns a Status to a canonical end date.
type Classifier struct {
	windowDays int
}

// NewClassifier creates a classifier. A non-positive window falls back to
// DefaultWindowDays.
func NewClassifier(windowDays int) *Classifier {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Classifier{windowDays: windowDays}
}

// WindowDays returns the expiring-soon window.
func (c *Classifier) WindowDays() int {
	return c.windowDays
}

// Classify buckets a policy. A missing or unreadable end date means the
// policy has no known expiry and is Active.
func (c *Classifier) Classify(canonicalEnd string, today time.Time) Status {
	end, ok := dates.ParseCanonical(canonicalEnd)
	if !ok {
		return Active
	}

	daysLeft := DaysBetween(today, end)
	switch {
	case daysLeft < 0:
		return Expired
	case daysLeft <= c.windowDays:
		return ExpiringSoon
	default:
		return Active
	}
}

// DaysBetween counts whole calendar days from a to b. Time of day and zone
// are ignored.
func DaysBetween(a, b time.Time) int {
	ca := civil(a)
	cb := civil(b)
	return int(cb.Sub(ca).Hours() / 24)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Buckets holds a listing split into the three groupings. Each slice keeps
// the order of the input.
type Buckets[T any] struct {
	Active       []T `json:"active"`
	ExpiringSoon []T `json:"expiring_soon"`
	Expired      []T `json:"expired"`
}

// Len returns the number of items across all buckets.
func (b Buckets[T]) Len() int {
	return len(b.Active) + len(b.ExpiringSoon) + len(b.Expired)
}

// Of returns the slice for a status.
func (b Buckets[T]) Of(s Status) []T {
	switch s {
	case ExpiringSoon:
		return b.ExpiringSoon
	case Expired:
		return b.Expired
	default:
		return b.Active
	}
}

// Group classifies every item and splits them into buckets. endOf returns
// the canonical end date of an item.
func Group[T any](c *Classifier, items []T, today time.Time, endOf func(T) string) Buckets[T] {
	var b Buckets[T]
	for _, item := range items {
		switch c.Classify(endOf(item), today) {
		case Expired:
			b.Expired = append(b.Expired, item)
		case ExpiringSoon:
			b.ExpiringSoon = append(b.ExpiringSoon, item)
		default:
			b.Active = append(b.Active, item)
		}
	}
	return b
}
