package payroll

import (
	"context"
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// PayrollService orchestrates attendance, the payment ledger, and the
// special-advance ledger into monthly payroll figures.
type PayrollService interface {
	// Compute produces the payroll result for one employee and month.
	// Strictly read-only: open months yield a prorated projection,
	// closed months replay the committed numbers.
	Compute(ctx context.Context, employeeID string, month period.Month, asOf time.Time) (Result, error)

	// CloseMonth finalizes the month for every active employee. The
	// only caller of schedule settlement; idempotent per employee.
	CloseMonth(ctx context.Context, month period.Month) (CloseMonthResponse, error)

	// CloseDuePeriods closes every month that has ended but is not yet
	// closed, oldest first. Run by the scheduler and the close
	// endpoint.
	CloseDuePeriods(ctx context.Context) error

	// MonthStats aggregates figures across all active employees
	MonthStats(ctx context.Context, month period.Month) (MonthStats, error)
}
