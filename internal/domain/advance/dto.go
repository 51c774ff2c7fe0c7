package advance

import (
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/validator"
)

type CreateScheduleRequest struct {
	EmployeeID  string `json:"employee_id"`
	TotalAmount int64  `json:"total_amount"`
	StartMonth  string `json:"start_month"`
	MonthCount  int    `json:"month_count"`
	// PerMonthOverrides replaces the default equal split; when set it
	// must cover exactly the scheduled months and sum to TotalAmount.
	PerMonthOverrides map[string]int64 `json:"per_month_overrides,omitempty"`
}

func (r *CreateScheduleRequest) Validate() error {
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

	if r.TotalAmount <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "total_amount",
			Message: "total_amount must be positive, in minor currency units",
		})
	}

	if !validator.IsValidMonth(r.StartMonth) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_month",
			Message: "start_month must be in YYYY-MM format",
		})
	}

	if r.MonthCount < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "month_count",
			Message: "month_count must be at least 1",
		})
	}

	for m, amount := range r.PerMonthOverrides {
		if !validator.IsValidMonth(m) {
			errs = append(errs, validator.ValidationError{
				Field:   "per_month_overrides",
				Message: "override keys must be in YYYY-MM format",
			})
			break
		}
		if amount <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "per_month_overrides",
				Message: "override amounts must be positive",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReportResponse struct {
	ID           string   `json:"id"`
	Month        string   `json:"month"`
	Shortfall    int64    `json:"shortfall"`
	TargetMonths []string `json:"target_months"`
	Reason       string   `json:"reason"`
	CreatedAt    string   `json:"created_at"`
}

type ScheduleResponse struct {
	ID            string           `json:"id"`
	EmployeeID    string           `json:"employee_id"`
	TotalAmount   int64            `json:"total_amount"`
	StartMonth    string           `json:"start_month"`
	DueAmounts    map[string]int64 `json:"due_amounts"`
	SettledMonths []string         `json:"settled_months"`
	Status        string           `json:"status"`
	Reports       []ReportResponse `json:"reports,omitempty"`
}

func ToScheduleResponse(s Schedule) ScheduleResponse {
	resp := ScheduleResponse{
		ID:          s.ID,
		EmployeeID:  s.EmployeeID,
		TotalAmount: s.TotalAmount,
		StartMonth:  s.StartMonth.String(),
		DueAmounts:  make(map[string]int64, len(s.DueAmounts)),
		Status:      string(s.Status),
	}
	for m, due := range s.DueAmounts {
		resp.DueAmounts[m.String()] = due
	}
	for _, m := range s.Months() {
		if s.Settled[m] {
			resp.SettledMonths = append(resp.SettledMonths, m.String())
		}
	}
	for _, r := range s.Reports {
		rr := ReportResponse{
			ID:        r.ID,
			Month:     r.Month.String(),
			Shortfall: r.Shortfall,
			Reason:    r.Reason,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		for _, tm := range r.TargetMonths {
			rr.TargetMonths = append(rr.TargetMonths, tm.String())
		}
		resp.Reports = append(resp.Reports, rr)
	}
	return resp
}

// SettledView replays the committed numbers of an already-settled month.
type SettledView struct {
	Month   period.Month
	Paid    int64
	Reports []Report
}
