package leave

import (
	"github.com/malaza-be/payroll-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID string  `json:"employee_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Days       int     `json:"days"`
	Reason     *string `json:"reason,omitempty"`
	Status     string  `json:"status"`
	// Warning is set when the request was accepted despite an
	// insufficient balance.
	Warning string `json:"warning,omitempty"`
}

func ToLeaveRequestResponse(lr LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:         lr.ID,
		EmployeeID: lr.EmployeeID,
		StartDate:  lr.StartDate.Format("2006-01-02"),
		EndDate:    lr.EndDate.Format("2006-01-02"),
		Days:       lr.Days,
		Reason:     lr.Reason,
		Status:     string(lr.Status),
	}
}

type BalanceResponse struct {
	EmployeeID     string `json:"employee_id"`
	Year           int    `json:"year"`
	EligibleMonths int    `json:"eligible_months"`
	Acquired       string `json:"acquired"`
	Taken          string `json:"taken"`
	Monetized      string `json:"monetized"`
	Available      string `json:"available"`
	Degraded       bool   `json:"degraded,omitempty"`
}

func ToBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:     b.EmployeeID,
		Year:           b.Year,
		EligibleMonths: b.EligibleMonths,
		Acquired:       b.Acquired.String(),
		Taken:          b.Taken.String(),
		Monetized:      b.Monetized.String(),
		Available:      b.Available.String(),
		Degraded:       b.Degraded,
	}
}
