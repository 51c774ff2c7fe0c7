package attendance

import (
	"context"
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Summarize aggregates one employee's marks for one month into
	// category counts, bounded by hire date and asOf
	Summarize(ctx context.Context, employeeID string, month period.Month, asOf time.Time) (Summary, error)

	// SetDay records a direct attendance edit. Paid-leave marks are
	// reserved for the leave subsystem and rejected here.
	SetDay(ctx context.Context, req SetDayRequest) error

	// MonthCalendar materializes the per-day listing for one month,
	// defaulting unmarked days to present
	MonthCalendar(ctx context.Context, employeeID string, month period.Month) (CalendarResponse, error)

	// MarkLeaveDays forces the given days to paid leave. Internal API
	// for the leave service on approval.
	MarkLeaveDays(ctx context.Context, employeeID string, days []time.Time) error

	// RestoreLeaveDays reverts paid-leave marks back to the unmarked
	// default. Internal API for the leave service on cancellation.
	RestoreLeaveDays(ctx context.Context, employeeID string, days []time.Time) error
}
