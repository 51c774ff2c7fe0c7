package leave

import (
	"context"
)

type LeaveService interface {
	// Balance computes the acquired/taken/monetized/available position
	// for one employee and year
	Balance(ctx context.Context, employeeID string, year int) (Balance, error)

	// Create records a leave request and marks the covered days as paid
	// leave. An insufficient balance produces a warning, not an error.
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)

	// Cancel cancels a request and restores its attendance days
	Cancel(ctx context.Context, id string) error

	// List returns an employee's requests, newest first
	List(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
}
