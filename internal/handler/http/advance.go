package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/advance"
	"github.com/malaza-be/payroll-backend-go/internal/handler/http/response"
)

type AdvanceHandler interface {
	CreateSchedule(w http.ResponseWriter, r *http.Request)
	ListSchedules(w http.ResponseWriter, r *http.Request)
	GetDue(w http.ResponseWriter, r *http.Request)
}

type advanceHandlerImpl struct {
	advanceService advance.AdvanceService
}

func NewAdvanceHandler(advanceService advance.AdvanceService) AdvanceHandler {
	return &advanceHandlerImpl{advanceService: advanceService}
}

func (h *advanceHandlerImpl) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req advance.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.advanceService.CreateSchedule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule created", result)
}

func (h *advanceHandlerImpl) ListSchedules(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.advanceService.ListSchedules(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) GetDue(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	month, ok := monthParam(r)
	if employeeID == "" || !ok {
		response.BadRequest(w, "Employee ID and month (YYYY-MM) are required", nil)
		return
	}

	due, err := h.advanceService.DueForMonth(r.Context(), employeeID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"due": due})
}
