package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByNationalID(ctx context.Context, nationalID string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, emp Employee) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]Employee, error)
	// EarliestHireDate returns the oldest hire date among active employees.
	// Returns ErrEmployeeNotFound when there are none.
	EarliestHireDate(ctx context.Context) (time.Time, error)
}
