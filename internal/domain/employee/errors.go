package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrNationalIDExists      = errors.New("national ID already registered")
	ErrEmployeeAlreadyActive = errors.New("employee is already active")
	ErrEmployeeResigned      = errors.New("employee has resigned")
)
