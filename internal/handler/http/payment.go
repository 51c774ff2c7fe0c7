package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/handler/http/response"
)

type PaymentHandler interface {
	RecordPayment(w http.ResponseWriter, r *http.Request)
	ListMonth(w http.ResponseWriter, r *http.Request)
	GetMaxAdvance(w http.ResponseWriter, r *http.Request)
}

type paymentHandlerImpl struct {
	paymentService payment.PaymentService
}

func NewPaymentHandler(paymentService payment.PaymentService) PaymentHandler {
	return &paymentHandlerImpl{paymentService: paymentService}
}

func (h *paymentHandlerImpl) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req payment.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.paymentService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment recorded", result)
}

func (h *paymentHandlerImpl) ListMonth(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	month, ok := monthParam(r)
	if employeeID == "" || !ok {
		response.BadRequest(w, "Employee ID and month (YYYY-MM) are required", nil)
		return
	}

	result, err := h.paymentService.ListMonth(r.Context(), employeeID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *paymentHandlerImpl) GetMaxAdvance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	month, ok := monthParam(r)
	if employeeID == "" || !ok {
		response.BadRequest(w, "Employee ID and month (YYYY-MM) are required", nil)
		return
	}

	available, err := h.paymentService.MaxAdvance(r.Context(), employeeID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"max_advance": available})
}
