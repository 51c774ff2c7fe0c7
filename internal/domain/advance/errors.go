package advance

import (
	"errors"
	"fmt"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

var (
	ErrScheduleNotFound = errors.New("special advance schedule not found")

	// ErrConcurrencyConflict: the schedule's revision changed between
	// read and write. Callers retry from a fresh read.
	ErrConcurrencyConflict = errors.New("schedule was modified concurrently")

	// ErrScheduleCorrupted: the per-month dues no longer sum to the
	// total. Structurally impossible unless redistribution is buggy;
	// fatal, never auto-corrected.
	ErrScheduleCorrupted = errors.New("schedule per-month amounts do not sum to total")

	// ErrOutOfOrderSettlement: a month was settled before an earlier
	// unsettled month of the same schedule.
	ErrOutOfOrderSettlement = errors.New("earlier schedule months must be settled first")

	ErrMonthNotScheduled   = errors.New("month is not part of the schedule")
	ErrMonthlyCapExceeded  = errors.New("monthly withholding cap exceeded")
	ErrOverridesTotalDrift = errors.New("per-month overrides must sum to the total amount")

	// ErrNonPositiveDue: a schedule month would carry a zero or
	// negative amount. A zero-due month never triggers settlement, so
	// it would block every later month of the schedule from closing.
	ErrNonPositiveDue = errors.New("every scheduled month must carry a positive amount")
)

// CapExceededError reports the first month whose proposed withholding,
// on top of commitments already taken, would exceed the salary.
type CapExceededError struct {
	Month     period.Month
	Available int64
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("monthly cap exceeded for %s: at most %d still available", e.Month, e.Available)
}

func (e *CapExceededError) Is(target error) bool {
	return target == ErrMonthlyCapExceeded
}
