package countdown

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTarget indicates a custom date string that could not be parsed.
var ErrInvalidTarget = errors.New("invalid target date")

// DefaultLabel names the recurring target.
const DefaultLabel = "Boxing Day"

// Kind distinguishes the yearly target from a one-off custom date.
type Kind string

const (
	KindRecurring Kind = "recurring"
	KindCustom    Kind = "custom"
)

// Target is the instant the countdown runs toward.
type Target struct {
	At    time.Time
	Label string
	Kind  Kind
	// Year anchors progress: the recurring year, or the custom instant's year.
	Year int
}

// IsZero reports whether no target has been set.
func (target Target) IsZero() bool {
	return target.At.IsZero()
}

// RecurringDate returns December 26 of year at local midnight in location.
func RecurringDate(year int, location *time.Location) time.Time {
	return time.Date(year, time.December, 26, 0, 0, 0, 0, location)
}

func recurringTarget(year int, location *time.Location) Target {
	return Target{
		At:    RecurringDate(year, location),
		Label: DefaultLabel,
		Kind:  KindRecurring,
		Year:  year,
	}
}

// Layouts without a zone are read in the engine location.
var localLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseTargetTime parses an ISO-8601 date or date-time. Values carrying
// an offset keep it; everything else is local to location.
func ParseTargetTime(value string, location *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("parse target %q: %w", value, ErrInvalidTarget)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return parsed.In(location), nil
	}
	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, location); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse target %q: %w", value, ErrInvalidTarget)
}
