package attendance

import "errors"

// Attendance domain errors
var (
	ErrPaidLeaveReserved = errors.New("paid leave days are managed by the leave subsystem")
	ErrFutureDate        = errors.New("cannot mark attendance for a future date")
	ErrBeforeHireDate    = errors.New("date is before the employee's hire date")
	ErrUnknownCategory   = errors.New("unknown attendance category")
	ErrDayNotFound       = errors.New("attendance record not found")
)
