package payroll

import (
	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
)

type ResultResponse struct {
	EmployeeID   string `json:"employee_id"`
	Month        string `json:"month"`
	Open         bool   `json:"open"`
	PendingClose bool   `json:"pending_close,omitempty"`

	Attendance  attendance.SummaryResponse `json:"attendance"`
	DaysInMonth int                        `json:"days_in_month"`
	DailyRate   int64                      `json:"daily_rate"`

	Gross           int64 `json:"gross"`
	Deductions      int64 `json:"deductions"`
	Bonus           int64 `json:"bonus"`
	OrdinaryAdvance int64 `json:"ordinary_advance"`

	SpecialAdvanceDue     int64    `json:"special_advance_due"`
	SpecialAdvancePaid    int64    `json:"special_advance_paid"`
	SpecialAdvanceOutcome string   `json:"special_advance_outcome"`
	Shortfall             int64    `json:"shortfall,omitempty"`
	ReportIDs             []string `json:"report_ids,omitempty"`

	NetPay      int64 `json:"net_pay"`
	AlreadyPaid int64 `json:"already_paid"`
	Remaining   int64 `json:"remaining"`
}

func ToResultResponse(r Result) ResultResponse {
	return ResultResponse{
		EmployeeID:            r.EmployeeID,
		Month:                 r.Month.String(),
		Open:                  r.Open,
		PendingClose:          r.PendingClose,
		Attendance:            attendance.ToSummaryResponse(r.Summary),
		DaysInMonth:           r.DaysInMonth,
		DailyRate:             r.DailyRate,
		Gross:                 r.Gross,
		Deductions:            r.Deductions,
		Bonus:                 r.Bonus,
		OrdinaryAdvance:       r.OrdinaryAdvance,
		SpecialAdvanceDue:     r.SpecialAdvanceDue,
		SpecialAdvancePaid:    r.SpecialAdvancePaid,
		SpecialAdvanceOutcome: string(r.SpecialAdvance.Kind),
		Shortfall:             r.SpecialAdvance.Shortfall,
		ReportIDs:             r.SpecialAdvance.ReportIDs,
		NetPay:                r.NetPay,
		AlreadyPaid:           r.AlreadyPaid,
		Remaining:             r.Remaining,
	}
}

type MonthStatsResponse struct {
	Month              string `json:"month"`
	Employees          int    `json:"employees"`
	TotalGross         int64  `json:"total_gross"`
	TotalDeductions    int64  `json:"total_deductions"`
	TotalNetPay        int64  `json:"total_net_pay"`
	TotalPaid          int64  `json:"total_paid"`
	TotalRemaining     int64  `json:"total_remaining"`
	TotalSpecialDue    int64  `json:"total_special_due"`
	TotalSpecialPaid   int64  `json:"total_special_paid"`
	EmployeesShortfall int    `json:"employees_shortfall"`
}

func ToMonthStatsResponse(s MonthStats) MonthStatsResponse {
	return MonthStatsResponse{
		Month:              s.Month.String(),
		Employees:          s.Employees,
		TotalGross:         s.TotalGross,
		TotalDeductions:    s.TotalDeductions,
		TotalNetPay:        s.TotalNetPay,
		TotalPaid:          s.TotalPaid,
		TotalRemaining:     s.TotalRemaining,
		TotalSpecialDue:    s.TotalSpecialDue,
		TotalSpecialPaid:   s.TotalSpecialPaid,
		EmployeesShortfall: s.EmployeesShortfall,
	}
}

type CloseMonthResponse struct {
	Month     string `json:"month"`
	Employees int    `json:"employees"`
	Settled   int    `json:"settled"`
	Reported  int    `json:"reported"`
}
