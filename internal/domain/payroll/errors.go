package payroll

import "errors"

var (
	ErrPeriodNotFound     = errors.New("payroll period not found")
	ErrMonthAlreadyClosed = errors.New("month is already closed")
	ErrMonthStillRunning  = errors.New("month has not ended yet")
	ErrPriorMonthOpen     = errors.New("an earlier month is still open")
	ErrInvalidPeriod      = errors.New("invalid payroll period")
)
