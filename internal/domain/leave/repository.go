package leave

import (
	"context"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	// ListByYear returns requests whose start date falls in the given year
	ListByYear(ctx context.Context, employeeID string, year int) ([]LeaveRequest, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus) error
}
