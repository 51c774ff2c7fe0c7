package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrAlreadyCancelled     = errors.New("leave request is already cancelled")
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
	ErrOverlappingRequest   = errors.New("leave request overlaps an existing request")
)
