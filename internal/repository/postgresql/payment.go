package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/database"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

type paymentRepositoryImpl struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) payment.PaymentRepository {
	return &paymentRepositoryImpl{db: db}
}

const paymentColumns = `id, employee_id, category, amount, date, days, note, created_at`

func scanPayment(row pgx.Row) (payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(
		&p.ID,
		&p.EmployeeID,
		&p.Category,
		&p.Amount,
		&p.Date,
		&p.Days,
		&p.Note,
		&p.CreatedAt,
	)
	return p, err
}

// Create implements payment.PaymentRepository.
func (r *paymentRepositoryImpl) Create(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payments (
			id, employee_id, category, amount, date, days, note, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING ` + paymentColumns

	return scanPayment(q.QueryRow(ctx, query,
		p.ID,
		p.EmployeeID,
		p.Category,
		p.Amount,
		p.Date,
		p.Days,
		p.Note,
		p.CreatedAt,
	))
}

// GetByID implements payment.PaymentRepository.
func (r *paymentRepositoryImpl) GetByID(ctx context.Context, id string) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = $1
	`

	p, err := scanPayment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment.Payment{}, payment.ErrPaymentNotFound
		}
		return payment.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// ListByMonth implements payment.PaymentRepository.
func (r *paymentRepositoryImpl) ListByMonth(ctx context.Context, employeeID string, month period.Month, category payment.Category) ([]payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE employee_id = $1 AND category = $2 AND date >= $3 AND date <= $4
		ORDER BY date
	`

	return r.list(ctx, q, query, employeeID, category, month.Start(), month.End())
}

// ListByYear implements payment.PaymentRepository.
func (r *paymentRepositoryImpl) ListByYear(ctx context.Context, employeeID string, year int, category payment.Category) ([]payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE employee_id = $1 AND category = $2 AND EXTRACT(YEAR FROM date) = $3
		ORDER BY date
	`

	return r.list(ctx, q, query, employeeID, category, year)
}

// ListMonthAll implements payment.PaymentRepository.
func (r *paymentRepositoryImpl) ListMonthAll(ctx context.Context, employeeID string, month period.Month) ([]payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, created_at
	`

	return r.list(ctx, q, query, employeeID, month.Start(), month.End())
}

func (r *paymentRepositoryImpl) list(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]payment.Payment, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
