package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/advance"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/database"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// Schedules store their month maps and report history as JSONB; the
// period.Month text form (YYYY-MM) keys the objects. Writes are guarded
// by the revision column.
type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) advance.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

const scheduleColumns = `id, employee_id, total_amount, start_month, due_amounts, settled_months, status, reports, revision, created_at, updated_at`

func scanSchedule(row pgx.Row) (advance.Schedule, error) {
	var s advance.Schedule
	var startMonth string
	var dueAmounts, settled, reports []byte

	err := row.Scan(
		&s.ID,
		&s.EmployeeID,
		&s.TotalAmount,
		&startMonth,
		&dueAmounts,
		&settled,
		&s.Status,
		&reports,
		&s.Revision,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return advance.Schedule{}, err
	}

	if s.StartMonth, err = period.Parse(startMonth); err != nil {
		return advance.Schedule{}, err
	}
	if err := json.Unmarshal(dueAmounts, &s.DueAmounts); err != nil {
		return advance.Schedule{}, fmt.Errorf("failed to decode due_amounts: %w", err)
	}
	if err := json.Unmarshal(settled, &s.Settled); err != nil {
		return advance.Schedule{}, fmt.Errorf("failed to decode settled_months: %w", err)
	}
	if err := json.Unmarshal(reports, &s.Reports); err != nil {
		return advance.Schedule{}, fmt.Errorf("failed to decode reports: %w", err)
	}
	if s.Settled == nil {
		s.Settled = make(map[period.Month]bool)
	}
	return s, nil
}

func encodeSchedule(s advance.Schedule) (dueAmounts, settled, reports []byte, err error) {
	if dueAmounts, err = json.Marshal(s.DueAmounts); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode due_amounts: %w", err)
	}
	if settled, err = json.Marshal(s.Settled); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode settled_months: %w", err)
	}
	if reports, err = json.Marshal(s.Reports); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode reports: %w", err)
	}
	return dueAmounts, settled, reports, nil
}

// Create implements advance.ScheduleRepository.
func (r *scheduleRepositoryImpl) Create(ctx context.Context, s advance.Schedule) (advance.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	dueAmounts, settled, reports, err := encodeSchedule(s)
	if err != nil {
		return advance.Schedule{}, err
	}

	query := `
		INSERT INTO advance_schedules (
			id, employee_id, total_amount, start_month,
			due_amounts, settled_months, status, reports,
			revision, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10
		)
		RETURNING ` + scheduleColumns

	return scanSchedule(q.QueryRow(ctx, query,
		s.ID,
		s.EmployeeID,
		s.TotalAmount,
		s.StartMonth.String(),
		dueAmounts,
		settled,
		s.Status,
		reports,
		s.CreatedAt,
		s.UpdatedAt,
	))
}

// GetByID implements advance.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByID(ctx context.Context, id string) (advance.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduleColumns + `
		FROM advance_schedules
		WHERE id = $1
	`

	s, err := scanSchedule(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Schedule{}, advance.ErrScheduleNotFound
		}
		return advance.Schedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

// ListActiveByEmployee implements advance.ScheduleRepository.
func (r *scheduleRepositoryImpl) ListActiveByEmployee(ctx context.Context, employeeID string) ([]advance.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduleColumns + `
		FROM advance_schedules
		WHERE employee_id = $1 AND status = $2
		ORDER BY start_month, created_at
	`

	return r.list(ctx, q, query, employeeID, advance.ScheduleStatusActive)
}

// ListByEmployee implements advance.ScheduleRepository.
func (r *scheduleRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]advance.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduleColumns + `
		FROM advance_schedules
		WHERE employee_id = $1
		ORDER BY start_month, created_at
	`

	return r.list(ctx, q, query, employeeID)
}

// ListActiveCovering implements advance.ScheduleRepository.
func (r *scheduleRepositoryImpl) ListActiveCovering(ctx context.Context, month period.Month) ([]advance.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduleColumns + `
		FROM advance_schedules
		WHERE status = $1
			AND due_amounts ? $2
			AND NOT COALESCE((settled_months ->> $2)::boolean, false)
		ORDER BY employee_id, start_month
	`

	return r.list(ctx, q, query, advance.ScheduleStatusActive, month.String())
}

func (r *scheduleRepositoryImpl) list(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]advance.Schedule, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []advance.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// Update implements advance.ScheduleRepository. The WHERE revision
// clause is the optimistic-concurrency check: zero rows affected means
// another writer got there first.
func (r *scheduleRepositoryImpl) Update(ctx context.Context, s advance.Schedule) error {
	q := GetQuerier(ctx, r.db)

	dueAmounts, settled, reports, err := encodeSchedule(s)
	if err != nil {
		return err
	}

	query := `
		UPDATE advance_schedules
		SET due_amounts = $1, settled_months = $2, status = $3, reports = $4,
			revision = revision + 1, updated_at = NOW()
		WHERE id = $5 AND revision = $6
	`

	tag, err := q.Exec(ctx, query, dueAmounts, settled, s.Status, reports, s.ID, s.Revision)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return advance.ErrConcurrencyConflict
	}
	return nil
}
