package employee

import (
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FullName      string  `json:"full_name"`
	NationalID    string  `json:"national_id"`
	Position      *string `json:"position"`
	Phone         *string `json:"phone"`
	MonthlySalary int64   `json:"monthly_salary"`
	HireDate      string  `json:"hire_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}

	if validator.IsEmpty(r.NationalID) {
		errs = append(errs, validator.ValidationError{
			Field:   "national_id",
			Message: "national_id is required",
		})
	}

	if r.MonthlySalary <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "monthly_salary",
			Message: "monthly_salary must be positive, in minor currency units",
		})
	}

	if validator.IsEmpty(r.HireDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	FullName      *string `json:"full_name"`
	Position      *string `json:"position"`
	Phone         *string `json:"phone"`
	MonthlySalary *int64  `json:"monthly_salary"`
	Status        *string `json:"status"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}

	if r.MonthlySalary != nil && *r.MonthlySalary <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "monthly_salary",
			Message: "monthly_salary must be positive, in minor currency units",
		})
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{
		string(EmploymentStatusActive),
		string(EmploymentStatusResigned),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be active or resigned",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	NationalID    string    `json:"national_id"`
	Position      *string   `json:"position,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	MonthlySalary int64     `json:"monthly_salary"`
	HireDate      string    `json:"hire_date"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		FullName:      e.FullName,
		NationalID:    e.NationalID,
		Position:      e.Position,
		Phone:         e.Phone,
		MonthlySalary: e.MonthlySalary,
		HireDate:      e.HireDate.Format("2006-01-02"),
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt,
	}
}
