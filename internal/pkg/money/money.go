// Package money holds the arithmetic used at the rounding boundaries of
// payroll computation. Monetary amounts are int64 values in the smallest
// currency unit everywhere in the system; decimal arithmetic appears only
// inside this package, and every result is rounded half-up exactly once.
package money

import "github.com/shopspring/decimal"

// RoundHalfUp rounds d to a whole amount, halves away from zero.
func RoundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// DailyRate is the per-day salary for a month: round(salary / daysInMonth).
func DailyRate(monthlySalary int64, daysInMonth int) int64 {
	return RoundHalfUp(decimal.NewFromInt(monthlySalary).Div(decimal.NewFromInt(int64(daysInMonth))))
}

// Prorate scales a monthly amount by elapsedDays/daysInMonth.
func Prorate(monthlySalary int64, elapsedDays, daysInMonth int) int64 {
	if elapsedDays >= daysInMonth {
		return monthlySalary
	}
	return RoundHalfUp(decimal.NewFromInt(monthlySalary).
		Mul(decimal.NewFromInt(int64(elapsedDays))).
		Div(decimal.NewFromInt(int64(daysInMonth))))
}

// ApplyRate multiplies a whole amount by a fractional rate without rounding;
// callers sum the terms and round once.
func ApplyRate(amount int64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(amount).Mul(rate)
}
