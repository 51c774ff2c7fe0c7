package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// GetDay implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetDay(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, date, category, updated_at
		FROM attendance_days
		WHERE employee_id = $1 AND date = $2
	`

	var day attendance.AttendanceDay
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&day.EmployeeID,
		&day.Date,
		&day.Category,
		&day.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance day: %w", err)
	}
	return &day, nil
}

// ListRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, date, category, updated_at
		FROM attendance_days
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	var days []attendance.AttendanceDay
	for rows.Next() {
		var day attendance.AttendanceDay
		if err := rows.Scan(&day.EmployeeID, &day.Date, &day.Category, &day.UpdatedAt); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// UpsertDay implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpsertDay(ctx context.Context, day attendance.AttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_days (employee_id, date, category, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, date)
		DO UPDATE SET category = EXCLUDED.category, updated_at = EXCLUDED.updated_at
	`

	if _, err := q.Exec(ctx, query, day.EmployeeID, day.Date, day.Category, day.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert attendance day: %w", err)
	}
	return nil
}

// DeleteDay implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) DeleteDay(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM attendance_days
		WHERE employee_id = $1 AND date = $2
	`

	if _, err := q.Exec(ctx, query, employeeID, date); err != nil {
		return fmt.Errorf("failed to delete attendance day: %w", err)
	}
	return nil
}
