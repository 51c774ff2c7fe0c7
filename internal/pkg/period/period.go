package period

import (
	"fmt"
	"time"
)

// Month identifies a calendar month. The zero value is invalid.
type Month struct {
	Year int
	Mon  time.Month
}

// Parse reads the "YYYY-MM" wire form used across the API and storage.
func Parse(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return Month{Year: t.Year(), Mon: t.Month()}, nil
}

// Of returns the month containing t.
func Of(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

// Days returns the actual number of calendar days in the month (28-31).
func (m Month) Days() int {
	return time.Date(m.Year, m.Mon+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the last day of the month.
func (m Month) End() time.Time {
	return time.Date(m.Year, m.Mon, m.Days(), 0, 0, 0, 0, time.UTC)
}

// Ended reports whether the month is wholly over at t. The last day
// still counts as running until the next month starts.
func (m Month) Ended(t time.Time) bool {
	return !t.Before(m.Next().Start())
}

func (m Month) Next() Month {
	return Of(m.Start().AddDate(0, 1, 0))
}

func (m Month) Prev() Month {
	return Of(m.Start().AddDate(0, -1, 0))
}

// AddMonths returns the month n months after m.
func (m Month) AddMonths(n int) Month {
	return Of(m.Start().AddDate(0, n, 0))
}

// Compare orders months chronologically: -1, 0 or +1.
func (m Month) Compare(o Month) int {
	switch {
	case m.Year != o.Year:
		if m.Year < o.Year {
			return -1
		}
		return 1
	case m.Mon != o.Mon:
		if m.Mon < o.Mon {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }
func (m Month) After(o Month) bool  { return m.Compare(o) > 0 }

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Mon
}

// MarshalText / UnmarshalText make Month usable directly in JSON payloads
// and as JSONB object keys.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
