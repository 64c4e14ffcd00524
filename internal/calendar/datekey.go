package calendar

import (
	"fmt"
	"time"
)

// dateKeyLayout is the canonical wire format for calendar days.
const dateKeyLayout = "2006-01-02"

// DateKey identifies a calendar day as a zero-padded YYYY-MM-DD string.
// Two dates are the same day iff their DateKeys are equal; all offer/order
// membership checks and selection comparisons go through this key. Callers
// must supply keys in the exact canonical format; anything else never
// matches.
type DateKey string

// KeyOf returns the DateKey for the calendar day containing t.
func KeyOf(t time.Time) DateKey {
	return DateKey(t.Format(dateKeyLayout))
}

// ParseDateKey validates s against the canonical format and returns it as a
// DateKey. Round-trips through time.Parse so "2024-3-5" or "2024-13-01" are
// rejected, not normalized.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date key %q: %w", s, err)
	}
	if t.Format(dateKeyLayout) != s {
		return "", fmt.Errorf("invalid date key %q: not in canonical YYYY-MM-DD form", s)
	}
	return DateKey(s), nil
}

// Time returns the midnight UTC instant for the key's day.
func (k DateKey) Time() (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", k, err)
	}
	return t, nil
}

// KeySet builds a membership set from raw key strings. Keys are taken as-is:
// anything not in canonical form simply never matches a grid cell.
func KeySet(keys []string) map[DateKey]bool {
	set := make(map[DateKey]bool, len(keys))
	for _, k := range keys {
		set[DateKey(k)] = true
	}
	return set
}
