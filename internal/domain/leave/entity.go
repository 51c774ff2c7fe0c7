package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveRequest entity. Days is the whole-day span [StartDate, EndDate];
// half-day leave is represented on the attendance side, not here.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Days       int
	Reason     *string
	Status     RequestStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type RequestStatus string

const (
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Balance is the derived leave position for one employee and year.
// Fractional values come from the 2.5 days/month accrual rate and
// half-day monetization; Available may be negative when over-drawn.
type Balance struct {
	EmployeeID     string
	Year           int
	EligibleMonths int
	Acquired       decimal.Decimal
	Taken          decimal.Decimal
	Monetized      decimal.Decimal
	Available      decimal.Decimal
	// Degraded is set when attendance data was unavailable and every
	// worked month was treated as eligible.
	Degraded bool
}
