package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategorySalary         Category = "salary"
	CategoryAdvance        Category = "advance"
	CategoryBonus          Category = "bonus"
	CategorySpecialAdvance Category = "special_advance"
	CategoryLeaveMonetized Category = "leave_monetized"
	CategoryOther          Category = "other"
)

// Categories lists every valid payment category.
var Categories = []Category{
	CategorySalary,
	CategoryAdvance,
	CategoryBonus,
	CategorySpecialAdvance,
	CategoryLeaveMonetized,
	CategoryOther,
}

// Payment is one append-only ledger entry. Entries are never updated or
// deleted; corrections are new entries.
type Payment struct {
	ID         string
	EmployeeID string
	Category   Category
	Amount     int64
	Date       time.Time
	// Days is set on leave_monetized entries only: the number of leave
	// days the amount bought out.
	Days      *decimal.Decimal
	Note      *string
	CreatedAt time.Time
}
