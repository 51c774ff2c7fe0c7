package payment

import "errors"

var (
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrAdvanceExceedsAvailable  = errors.New("advance exceeds the amount still available this month")
	ErrInsufficientLeaveBalance = errors.New("insufficient leave balance to monetize")
	ErrNonPositiveAmount        = errors.New("payment amount must be positive")
)
