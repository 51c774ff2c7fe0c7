package advance

import (
	"context"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// ScheduleRepository defines data access for special-advance schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, s Schedule) (Schedule, error)
	GetByID(ctx context.Context, id string) (Schedule, error)

	// ListActiveByEmployee retrieves the employee's active schedules.
	// Settlement and redistribution change past reads, so callers must
	// always re-read instead of holding schedules across operations.
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]Schedule, error)

	// ListByEmployee retrieves all schedules regardless of status
	ListByEmployee(ctx context.Context, employeeID string) ([]Schedule, error)

	// ListActiveCovering retrieves every active schedule, any employee,
	// that has an unsettled due for the month
	ListActiveCovering(ctx context.Context, month period.Month) ([]Schedule, error)

	// Update writes the schedule guarded by its revision: the stored
	// row must still carry s.Revision or ErrConcurrencyConflict is
	// returned and nothing is written. On success the stored revision
	// is s.Revision+1.
	Update(ctx context.Context, s Schedule) error
}
