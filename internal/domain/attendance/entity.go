package attendance

import (
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

type DayCategory string

const (
	CategoryPresent   DayCategory = "present"
	CategoryAbsent    DayCategory = "absent"
	CategoryLate      DayCategory = "late"
	CategoryHalfDay   DayCategory = "half_day"
	CategoryPaidLeave DayCategory = "paid_leave"
)

// Categories lists every valid day category.
var Categories = []DayCategory{
	CategoryPresent,
	CategoryAbsent,
	CategoryLate,
	CategoryHalfDay,
	CategoryPaidLeave,
}

// AttendanceDay is one worker's mark for one calendar day. Days without a
// stored record count as present ("unmarked means present"), so the table
// only holds exceptions plus explicit present marks.
type AttendanceDay struct {
	EmployeeID string
	Date       time.Time
	Category   DayCategory
	UpdatedAt  time.Time
}

// Summary holds per-category day counts for one employee and month.
// Derived from AttendanceDay records, never persisted.
type Summary struct {
	EmployeeID string
	Month      period.Month
	Present    int
	Absent     int
	Late       int
	HalfDay    int
	PaidLeave  int
	Total      int
}
