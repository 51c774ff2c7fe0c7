package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	now func() time.Time
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
		now:                time.Now,
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToEmployeeResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to parse hire_date: %w", err)
	}

	_, err = s.EmployeeRepository.GetByNationalID(ctx, req.NationalID)
	if err == nil {
		return employee.EmployeeResponse{}, employee.ErrNationalIDExists
	}
	if !errors.Is(err, employee.ErrEmployeeNotFound) && !errors.Is(err, pgx.ErrNoRows) {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check national ID: %w", err)
	}

	emp := employee.Employee{
		ID:            uuid.NewString(),
		FullName:      req.FullName,
		NationalID:    req.NationalID,
		Position:      req.Position,
		Phone:         req.Phone,
		MonthlySalary: req.MonthlySalary,
		HireDate:      hireDate,
		Status:        employee.EmploymentStatusActive,
		CreatedAt:     s.now(),
		UpdatedAt:     s.now(),
	}

	created, err := s.EmployeeRepository.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return employee.ToEmployeeResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.Position != nil {
		emp.Position = req.Position
	}
	if req.Phone != nil {
		emp.Phone = req.Phone
	}
	if req.MonthlySalary != nil {
		emp.MonthlySalary = *req.MonthlySalary
	}
	if req.Status != nil {
		emp.Status = employee.EmploymentStatus(*req.Status)
	}
	emp.UpdatedAt = s.now()

	if err := s.EmployeeRepository.Update(ctx, emp); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee.ToEmployeeResponse(emp), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := s.EmployeeRepository.GetByID(ctx, id); err != nil {
		return err
	}
	return s.EmployeeRepository.Delete(ctx, id)
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.ToEmployeeResponse(emp))
	}
	return responses, nil
}
