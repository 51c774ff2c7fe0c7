package payment

import (
	"github.com/shopspring/decimal"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/validator"
)

type RecordPaymentRequest struct {
	EmployeeID string  `json:"employee_id"`
	Category   string  `json:"category"`
	Amount     int64   `json:"amount"`
	Date       string  `json:"date"`
	Note       *string `json:"note,omitempty"`

	// leave_monetized only
	Days *string `json:"days,omitempty"`

	// special_advance only: the repayment schedule to open alongside
	// the disbursement entry
	MonthCount        int              `json:"month_count,omitempty"`
	StartMonth        string           `json:"start_month,omitempty"`
	PerMonthOverrides map[string]int64 `json:"per_month_overrides,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
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

	var categories []string
	for _, c := range Categories {
		categories = append(categories, string(c))
	}
	if !validator.IsInSlice(r.Category, categories) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of: salary, advance, bonus, special_advance, leave_monetized, other",
		})
	}

	if r.Amount <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive, in minor currency units",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Category == string(CategoryLeaveMonetized) {
		if r.Days == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "days",
				Message: "days is required for leave_monetized payments",
			})
		} else if d, err := decimal.NewFromString(*r.Days); err != nil || d.LessThanOrEqual(decimal.Zero) {
			// Day counts carry halves (half-days, 2.5/month accrual),
			// so they validate as decimals, not integers.
			errs = append(errs, validator.ValidationError{
				Field:   "days",
				Message: "days must be a positive number of leave days",
			})
		}
	}

	if r.Category == string(CategorySpecialAdvance) {
		if r.MonthCount < 1 {
			errs = append(errs, validator.ValidationError{
				Field:   "month_count",
				Message: "month_count must be at least 1 for special_advance payments",
			})
		}
		// StartMonth is optional; it defaults to the month after the
		// disbursement date.
		if r.StartMonth != "" && !validator.IsValidMonth(r.StartMonth) {
			errs = append(errs, validator.ValidationError{
				Field:   "start_month",
				Message: "start_month must be in YYYY-MM format",
			})
		}
		for m := range r.PerMonthOverrides {
			if !validator.IsValidMonth(m) {
				errs = append(errs, validator.ValidationError{
					Field:   "per_month_overrides",
					Message: "override keys must be in YYYY-MM format",
				})
				break
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PaymentResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Category   string  `json:"category"`
	Amount     int64   `json:"amount"`
	Date       string  `json:"date"`
	Days       *string `json:"days,omitempty"`
	Note       *string `json:"note,omitempty"`
	// ScheduleID is set when a special_advance entry opened a
	// repayment schedule.
	ScheduleID string `json:"schedule_id,omitempty"`
}

func ToPaymentResponse(p Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Category:   string(p.Category),
		Amount:     p.Amount,
		Date:       p.Date.Format("2006-01-02"),
		Note:       p.Note,
	}
	if p.Days != nil {
		s := p.Days.String()
		resp.Days = &s
	}
	return resp
}
