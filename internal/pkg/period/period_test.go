package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	m, err := Parse("2025-02")
	require.NoError(t, err)
	assert.Equal(t, 2025, m.Year)
	assert.Equal(t, time.February, m.Mon)
	assert.Equal(t, "2025-02", m.String())

	_, err = Parse("2025-2")
	assert.Error(t, err)
	_, err = Parse("02-2025")
	assert.Error(t, err)
}

func TestDays(t *testing.T) {
	tests := []struct {
		month string
		days  int
	}{
		{"2025-01", 31},
		{"2025-02", 28},
		{"2024-02", 29}, // leap year
		{"2025-04", 30},
		{"2025-12", 31},
	}
	for _, tt := range tests {
		m, err := Parse(tt.month)
		require.NoError(t, err)
		assert.Equal(t, tt.days, m.Days(), tt.month)
	}
}

func TestNextPrev(t *testing.T) {
	m, _ := Parse("2025-12")
	assert.Equal(t, "2026-01", m.Next().String())
	assert.Equal(t, "2025-11", m.Prev().String())

	jan, _ := Parse("2025-01")
	assert.Equal(t, "2024-12", jan.Prev().String())
}

func TestCompare(t *testing.T) {
	a, _ := Parse("2025-03")
	b, _ := Parse("2025-04")
	c, _ := Parse("2026-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, b.Before(c))
	assert.Equal(t, 0, a.Compare(a))
}

func TestStartEndContains(t *testing.T) {
	m, _ := Parse("2025-02")
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), m.Start())
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), m.End())

	assert.True(t, m.Contains(time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestEnded(t *testing.T) {
	m, _ := Parse("2025-06")

	// The whole last day still counts as running.
	assert.False(t, m.Ended(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.False(t, m.Ended(time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)))

	assert.True(t, m.Ended(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, m.Ended(time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)))
}

func TestTextRoundTrip(t *testing.T) {
	m, _ := Parse("2025-07")
	b, err := m.MarshalText()
	require.NoError(t, err)

	var back Month
	require.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, m, back)
}
