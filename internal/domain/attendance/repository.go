package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for per-day attendance marks.
// Only exception days need a stored row; readers treat missing days as
// present.
type AttendanceRepository interface {
	// GetDay retrieves the stored mark for one day, nil when unmarked
	GetDay(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error)

	// ListRange retrieves stored marks with date in [from, to], inclusive
	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceDay, error)

	// UpsertDay inserts or replaces the mark for one day
	UpsertDay(ctx context.Context, day AttendanceDay) error

	// DeleteDay removes a stored mark, reverting the day to the
	// unmarked (present) default
	DeleteDay(ctx context.Context, employeeID string, date time.Time) error
}
