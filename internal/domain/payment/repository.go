package payment

import (
	"context"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// PaymentRepository defines data access for the append-only payment
// ledger. There is deliberately no update or delete.
type PaymentRepository interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)

	// ListByMonth retrieves entries of one category dated in the month
	ListByMonth(ctx context.Context, employeeID string, month period.Month, category Category) ([]Payment, error)

	// ListByYear retrieves entries of one category dated in the year
	ListByYear(ctx context.Context, employeeID string, year int, category Category) ([]Payment, error)

	// ListMonthAll retrieves every entry dated in the month, any category
	ListMonthAll(ctx context.Context, employeeID string, month period.Month) ([]Payment, error)
}
