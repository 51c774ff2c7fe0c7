package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malaza-be/payroll-backend-go/internal/config"
	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/domain/leave"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

var half = decimal.NewFromFloat(0.5)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	paymentRepo       payment.PaymentRepository
	attendanceService attendance.AttendanceService
	policy            config.PayrollConfig
	now               func() time.Time
}

func NewLeaveService(
	requestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	paymentRepo payment.PaymentRepository,
	attendanceService attendance.AttendanceService,
	policy config.PayrollConfig,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		LeaveRequestRepository: requestRepo,
		EmployeeRepository:     employeeRepo,
		paymentRepo:            paymentRepo,
		attendanceService:      attendanceService,
		policy:                 policy,
		now:                    time.Now,
	}
}

// Balance implements leave.LeaveService.
//
// A month accrues leave only when effective presence (present +
// paid leave + late + half the half-days) reaches the minimum-presence
// threshold. Acquired days are capped at the annual ceiling.
func (l *LeaveServiceImpl) Balance(ctx context.Context, employeeID string, year int) (leave.Balance, error) {
	emp, err := l.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get employee: %w", err)
	}

	balance := leave.Balance{
		EmployeeID: employeeID,
		Year:       year,
	}

	now := l.now()
	first := period.Month{Year: year, Mon: time.January}
	if hire := period.Of(emp.HireDate); hire.After(first) {
		first = hire
	}
	last := period.Month{Year: year, Mon: time.December}
	if current := period.Of(now); current.Before(last) {
		last = current
	}

	for m := first; !m.After(last); m = m.Next() {
		summary, err := l.attendanceService.Summarize(ctx, employeeID, m, now)
		if err != nil {
			// Attendance store unavailable: degrade to counting every
			// worked month as eligible rather than failing the balance.
			slog.Warn("attendance unavailable, treating worked months as eligible",
				"employee_id", employeeID, "month", m.String(), "error", err)
			balance.Degraded = true
			balance.EligibleMonths++
			continue
		}

		effective := decimal.NewFromInt(int64(summary.Present + summary.PaidLeave + summary.Late)).
			Add(half.Mul(decimal.NewFromInt(int64(summary.HalfDay))))
		if effective.GreaterThanOrEqual(l.policy.MinPresenceDays) {
			balance.EligibleMonths++
		}
	}

	balance.Acquired = l.policy.AccrualPerMonth.Mul(decimal.NewFromInt(int64(balance.EligibleMonths)))
	if balance.Acquired.GreaterThan(l.policy.LeaveCeilingDays) {
		balance.Acquired = l.policy.LeaveCeilingDays
	}

	requests, err := l.LeaveRequestRepository.ListByYear(ctx, employeeID, year)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	balance.Taken = decimal.Zero
	for _, req := range requests {
		if req.Status == leave.RequestStatusCancelled {
			continue
		}
		balance.Taken = balance.Taken.Add(decimal.NewFromInt(int64(req.Days)))
	}

	monetized, err := l.paymentRepo.ListByYear(ctx, employeeID, year, payment.CategoryLeaveMonetized)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to list monetized payments: %w", err)
	}
	balance.Monetized = decimal.Zero
	for _, p := range monetized {
		if p.Days != nil {
			balance.Monetized = balance.Monetized.Add(*p.Days)
		}
	}

	// Negative available is a valid, displayable over-drawn state.
	balance.Available = balance.Acquired.Sub(balance.Taken).Sub(balance.Monetized)

	return balance, nil
}

// Create implements leave.LeaveService.
func (l *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end_date: %w", err)
	}
	if end.Before(start) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	if _, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	existing, err := l.LeaveRequestRepository.ListByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	for _, other := range existing {
		if other.Status == leave.RequestStatusCancelled {
			continue
		}
		if !start.After(other.EndDate) && !end.Before(other.StartDate) {
			return leave.LeaveRequestResponse{}, leave.ErrOverlappingRequest
		}
	}

	days := int(end.Sub(start).Hours()/24) + 1

	var warning string
	balance, err := l.Balance(ctx, req.EmployeeID, start.Year())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if balance.Available.LessThan(decimal.NewFromInt(int64(days))) {
		warning = fmt.Sprintf("insufficient leave balance: %s days available, %d requested", balance.Available, days)
	}

	request := leave.LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     req.Reason,
		Status:     leave.RequestStatusApproved,
		CreatedAt:  l.now(),
		UpdatedAt:  l.now(),
	}

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	if err := l.attendanceService.MarkLeaveDays(ctx, req.EmployeeID, spanDays(start, end)); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to mark leave days: %w", err)
	}

	resp := leave.ToLeaveRequestResponse(created)
	resp.Warning = warning
	return resp, nil
}

// Cancel implements leave.LeaveService.
func (l *LeaveServiceImpl) Cancel(ctx context.Context, id string) error {
	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request.Status == leave.RequestStatusCancelled {
		return leave.ErrAlreadyCancelled
	}

	if err := l.LeaveRequestRepository.UpdateStatus(ctx, id, leave.RequestStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel leave request: %w", err)
	}

	if err := l.attendanceService.RestoreLeaveDays(ctx, request.EmployeeID, spanDays(request.StartDate, request.EndDate)); err != nil {
		return fmt.Errorf("failed to restore leave days: %w", err)
	}

	return nil
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, employeeID string) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.LeaveRequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToLeaveRequestResponse(r))
	}
	return responses, nil
}

func spanDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
