package payroll

import (
	"context"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// PeriodRepository tracks which calendar months have been closed.
type PeriodRepository interface {
	// Get returns the period row for the month, ErrPeriodNotFound when
	// the month was never touched
	Get(ctx context.Context, month period.Month) (Period, error)

	// MarkClosed records the close timestamp for the month.
	// ErrMonthAlreadyClosed when the row is already closed.
	MarkClosed(ctx context.Context, month period.Month) error

	// LastClosed returns the most recent closed month,
	// ErrPeriodNotFound when no month was ever closed
	LastClosed(ctx context.Context) (period.Month, error)
}
