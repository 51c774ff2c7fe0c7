package advance

import (
	"context"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// AdvanceService owns the lifecycle of special-advance schedules.
type AdvanceService interface {
	// CreateSchedule validates the per-month cap for every covered
	// month and persists a new active schedule
	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)

	// DueForMonth sums the unsettled dues of the employee's active
	// schedules for the month, always from a fresh read
	DueForMonth(ctx context.Context, employeeID string, month period.Month) (int64, error)

	// SettledForMonth replays the committed amounts of an
	// already-settled month for display
	SettledForMonth(ctx context.Context, employeeID string, month period.Month) ([]SettledView, error)

	// DueEmployees lists, across all employees, those with an
	// unsettled scheduled amount for the month. Month close drives
	// its settlement loop off this set.
	DueEmployees(ctx context.Context, month period.Month) ([]string, error)

	// SettleMonth finalizes the month on every active schedule that
	// covers it, redistributing any shortfall onto future months.
	// Months must be settled in order; settling an already-settled
	// month is a no-op returning the committed outcome.
	SettleMonth(ctx context.Context, employeeID string, month period.Month, paidAmount int64) (Outcome, error)

	// ListSchedules returns all of an employee's schedules
	ListSchedules(ctx context.Context, employeeID string) ([]ScheduleResponse, error)
}
