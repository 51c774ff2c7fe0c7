package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
	"github.com/malaza-be/payroll-backend-go/internal/handler/http/response"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

type AttendanceHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetCalendar(w http.ResponseWriter, r *http.Request)
	SetDay(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// monthParam parses the {month} URL segment.
func monthParam(r *http.Request) (period.Month, bool) {
	m, err := period.Parse(chi.URLParam(r, "month"))
	return m, err == nil
}

func (h *attendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.attendanceService.Summarize(r.Context(), employeeID, month, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToSummaryResponse(summary))
}

func (h *attendanceHandlerImpl) GetCalendar(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	month, ok := monthParam(r)
	if employeeID == "" || !ok {
		response.BadRequest(w, "Employee ID and month (YYYY-MM) are required", nil)
		return
	}

	calendar, err := h.attendanceService.MonthCalendar(r.Context(), employeeID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, calendar)
}

func (h *attendanceHandlerImpl) SetDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.SetDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.attendanceService.SetDay(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance day recorded", nil)
}
