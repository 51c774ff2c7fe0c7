package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/malaza-be/payroll-backend-go/internal/domain/advance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/domain/leave"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payroll"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNationalIDExists):
		Conflict(w, "National ID already registered")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrPaidLeaveReserved):
		BadRequest(w, "Paid leave days are managed by the leave subsystem", nil)
	case errors.Is(err, attendance.ErrFutureDate),
		errors.Is(err, attendance.ErrBeforeHireDate),
		errors.Is(err, attendance.ErrUnknownCategory):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAlreadyCancelled):
		Conflict(w, "Leave request is already cancelled")
	case errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrOverlappingRequest):
		BadRequest(w, err.Error(), nil)

	// Payment domain errors
	case errors.Is(err, payment.ErrPaymentNotFound):
		NotFound(w, "Payment not found")
	case errors.Is(err, payment.ErrAdvanceExceedsAvailable),
		errors.Is(err, payment.ErrInsufficientLeaveBalance),
		errors.Is(err, payment.ErrNonPositiveAmount):
		BadRequest(w, err.Error(), nil)

	// Advance domain errors
	case errors.Is(err, advance.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, advance.ErrMonthlyCapExceeded),
		errors.Is(err, advance.ErrOverridesTotalDrift),
		errors.Is(err, advance.ErrNonPositiveDue),
		errors.Is(err, advance.ErrMonthNotScheduled):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, advance.ErrOutOfOrderSettlement),
		errors.Is(err, advance.ErrConcurrencyConflict):
		Conflict(w, err.Error())
	case errors.Is(err, advance.ErrScheduleCorrupted):
		// Must reach operators loudly; the schedule needs manual
		// inspection, not a retry.
		slog.Error("schedule corruption detected", "error", err)
		InternalServerError(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrMonthAlreadyClosed),
		errors.Is(err, payroll.ErrPriorMonthOpen):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrMonthStillRunning),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
