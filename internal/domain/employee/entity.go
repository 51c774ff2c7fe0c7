package employee

import (
	"time"
)

type Employee struct {
	ID            string
	FullName      string
	NationalID    string
	Position      *string
	Phone         *string
	MonthlySalary int64
	HireDate      time.Time
	Status        EmploymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)
