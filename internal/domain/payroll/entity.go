package payroll

import (
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/domain/advance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// Result is the full payroll picture for one employee and month.
// Computed on demand, never persisted; closed months reproduce the
// numbers committed at close time.
type Result struct {
	EmployeeID  string
	Month       period.Month
	Open        bool
	// PendingClose: the month has ended but its close has not run yet;
	// the figures are still a projection.
	PendingClose bool

	Summary     attendance.Summary
	DaysInMonth int
	DailyRate   int64

	Gross           int64
	Deductions      int64
	Bonus           int64
	OrdinaryAdvance int64

	SpecialAdvanceDue  int64
	SpecialAdvancePaid int64
	SpecialAdvance     advance.Outcome

	NetPay      int64
	AlreadyPaid int64
	Remaining   int64
}

// Period is one row of the month-close ledger.
type Period struct {
	Month    period.Month
	ClosedAt *time.Time
}

func (p Period) Closed() bool {
	return p.ClosedAt != nil
}

// MonthStats aggregates payroll figures across employees for one month.
type MonthStats struct {
	Month              period.Month
	Employees          int
	TotalGross         int64
	TotalDeductions    int64
	TotalNetPay        int64
	TotalPaid          int64
	TotalRemaining     int64
	TotalSpecialDue    int64
	TotalSpecialPaid   int64
	EmployeesShortfall int
}
