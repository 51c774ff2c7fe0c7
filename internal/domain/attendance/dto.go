package attendance

import (
	"github.com/malaza-be/payroll-backend-go/internal/pkg/validator"
)

type SetDayRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Category   string `json:"category"`
}

func (r *SetDayRequest) Validate() error {
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

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	var categories []string
	for _, c := range Categories {
		categories = append(categories, string(c))
	}
	if !validator.IsInSlice(r.Category, categories) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of: present, absent, late, half_day, paid_leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SummaryResponse struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Late       int    `json:"late"`
	HalfDay    int    `json:"half_day"`
	PaidLeave  int    `json:"paid_leave"`
	Total      int    `json:"total"`
}

func ToSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		EmployeeID: s.EmployeeID,
		Month:      s.Month.String(),
		Present:    s.Present,
		Absent:     s.Absent,
		Late:       s.Late,
		HalfDay:    s.HalfDay,
		PaidLeave:  s.PaidLeave,
		Total:      s.Total,
	}
}

type CalendarDay struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Stored   bool   `json:"stored"`
}

type CalendarResponse struct {
	EmployeeID string        `json:"employee_id"`
	Month      string        `json:"month"`
	Days       []CalendarDay `json:"days"`
}
