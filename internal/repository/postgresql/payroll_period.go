package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/payroll"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/database"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

type periodRepositoryImpl struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) payroll.PeriodRepository {
	return &periodRepositoryImpl{db: db}
}

// Get implements payroll.PeriodRepository.
func (r *periodRepositoryImpl) Get(ctx context.Context, month period.Month) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month, closed_at
		FROM payroll_periods
		WHERE month = $1
	`

	var monthStr string
	p := payroll.Period{}
	err := q.QueryRow(ctx, query, month.String()).Scan(&monthStr, &p.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get payroll period: %w", err)
	}
	if p.Month, err = period.Parse(monthStr); err != nil {
		return payroll.Period{}, err
	}
	return p, nil
}

// MarkClosed implements payroll.PeriodRepository.
func (r *periodRepositoryImpl) MarkClosed(ctx context.Context, month period.Month) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (month, closed_at)
		VALUES ($1, NOW())
		ON CONFLICT (month) DO UPDATE SET closed_at = NOW()
		WHERE payroll_periods.closed_at IS NULL
	`

	tag, err := q.Exec(ctx, query, month.String())
	if err != nil {
		return fmt.Errorf("failed to mark period closed: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return payroll.ErrMonthAlreadyClosed
	}
	return nil
}

// LastClosed implements payroll.PeriodRepository.
func (r *periodRepositoryImpl) LastClosed(ctx context.Context) (period.Month, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month
		FROM payroll_periods
		WHERE closed_at IS NOT NULL
		ORDER BY month DESC
		LIMIT 1
	`

	var monthStr string
	if err := q.QueryRow(ctx, query).Scan(&monthStr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.Month{}, payroll.ErrPeriodNotFound
		}
		return period.Month{}, fmt.Errorf("failed to get last closed period: %w", err)
	}
	return period.Parse(monthStr)
}
