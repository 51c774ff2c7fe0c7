package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/payroll"
	"github.com/malaza-be/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	ComputePayroll(w http.ResponseWriter, r *http.Request)
	GetMonthStats(w http.ResponseWriter, r *http.Request)
	CloseMonth(w http.ResponseWriter, r *http.Request)
	ClosePeriods(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	month, ok := monthParam(r)
	if employeeID == "" || !ok {
		response.BadRequest(w, "Employee ID and month (YYYY-MM) are required", nil)
		return
	}

	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "as_of must be in YYYY-MM-DD format", nil)
			return
		}
		asOf = parsed
	}

	result, err := h.payrollService.Compute(r.Context(), employeeID, month, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.ToResultResponse(result))
}

func (h *payrollHandlerImpl) GetMonthStats(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(r)
	if !ok {
		response.BadRequest(w, "Month (YYYY-MM) is required", nil)
		return
	}

	stats, err := h.payrollService.MonthStats(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.ToMonthStatsResponse(stats))
}

func (h *payrollHandlerImpl) CloseMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(r)
	if !ok {
		response.BadRequest(w, "Month (YYYY-MM) is required", nil)
		return
	}

	result, err := h.payrollService.CloseMonth(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Month closed", result)
}

func (h *payrollHandlerImpl) ClosePeriods(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.CloseDuePeriods(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Due periods closed", nil)
}
