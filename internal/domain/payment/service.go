package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// PaymentService defines business logic for the payment ledger
type PaymentService interface {
	// Record appends a ledger entry. Ordinary advances are capped at
	// salary minus advances already taken minus special-advance dues;
	// a special_advance entry also opens its repayment schedule.
	Record(ctx context.Context, req RecordPaymentRequest) (PaymentResponse, error)

	// ListMonth returns every entry for an employee in a month
	ListMonth(ctx context.Context, employeeID string, month period.Month) ([]PaymentResponse, error)

	// MaxAdvance returns the ordinary-advance amount still available
	// for the month
	MaxAdvance(ctx context.Context, employeeID string, month period.Month) (int64, error)

	// Aggregates consumed by the payroll calculator.
	MonthlyAdvances(ctx context.Context, employeeID string, month period.Month) (int64, error)
	MonthlyBonus(ctx context.Context, employeeID string, month period.Month) (int64, error)
	SalaryPaid(ctx context.Context, employeeID string, month period.Month) (int64, error)
	MonetizedDays(ctx context.Context, employeeID string, year int) (decimal.Decimal, error)
}
