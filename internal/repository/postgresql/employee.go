package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, full_name, national_id, position, phone, monthly_salary, hire_date, status, created_at, updated_at, deleted_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID,
		&e.FullName,
		&e.NationalID,
		&e.Position,
		&e.Phone,
		&e.MonthlySalary,
		&e.HireDate,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.DeletedAt,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetByNationalID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByNationalID(ctx context.Context, nationalID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE national_id = $1 AND deleted_at IS NULL
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, nationalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by national ID: %w", err)
	}
	return e, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, full_name, national_id, position, phone,
			monthly_salary, hire_date, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING ` + employeeColumns

	return scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.FullName,
		newEmployee.NationalID,
		newEmployee.Position,
		newEmployee.Phone,
		newEmployee.MonthlySalary,
		newEmployee.HireDate,
		newEmployee.Status,
		newEmployee.CreatedAt,
		newEmployee.UpdatedAt,
	))
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $1, position = $2, phone = $3, monthly_salary = $4, status = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		emp.FullName,
		emp.Position,
		emp.Phone,
		emp.MonthlySalary,
		emp.Status,
		emp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE status = $1 AND deleted_at IS NULL
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// EarliestHireDate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) EarliestHireDate(ctx context.Context) (time.Time, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT MIN(hire_date)
		FROM employees
		WHERE status = $1 AND deleted_at IS NULL
	`

	var hireDate *time.Time
	if err := q.QueryRow(ctx, query, employee.EmploymentStatusActive).Scan(&hireDate); err != nil {
		return time.Time{}, fmt.Errorf("failed to get earliest hire date: %w", err)
	}
	if hireDate == nil {
		return time.Time{}, employee.ErrEmployeeNotFound
	}
	return *hireDate, nil
}
