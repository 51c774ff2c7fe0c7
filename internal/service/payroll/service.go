package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/config"
	"github.com/malaza-be/payroll-backend-go/internal/domain/advance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payroll"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/money"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

type PayrollServiceImpl struct {
	periodRepo        payroll.PeriodRepository
	employeeRepo      employee.EmployeeRepository
	attendanceService attendance.AttendanceService
	paymentService    payment.PaymentService
	advanceService    advance.AdvanceService
	policy            config.PayrollConfig
	now               func() time.Time
}

func NewPayrollService(
	periodRepo payroll.PeriodRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceService attendance.AttendanceService,
	paymentService payment.PaymentService,
	advanceService advance.AdvanceService,
	policy config.PayrollConfig,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		periodRepo:        periodRepo,
		employeeRepo:      employeeRepo,
		attendanceService: attendanceService,
		paymentService:    paymentService,
		advanceService:    advanceService,
		policy:            policy,
		now:               time.Now,
	}
}

// Compute implements payroll.PayrollService.
//
// Read-only in every branch: open months produce a prorated projection
// and never touch the ledger; closed months replay the figures
// committed at close time.
func (p *PayrollServiceImpl) Compute(ctx context.Context, employeeID string, month period.Month, asOf time.Time) (payroll.Result, error) {
	emp, err := p.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.Result{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if asOf.IsZero() {
		asOf = p.now()
	}

	closed, err := p.isClosed(ctx, month)
	if err != nil {
		return payroll.Result{}, err
	}

	result := payroll.Result{
		EmployeeID:  employeeID,
		Month:       month,
		Open:        !closed,
		DaysInMonth: month.Days(),
	}
	// A month that has ended but was never closed is still a
	// projection; the flag tells callers the figures are not final.
	if !closed && month.Ended(asOf) {
		result.PendingClose = true
	}

	result.Summary, err = p.attendanceService.Summarize(ctx, employeeID, month, asOf)
	if err != nil {
		return payroll.Result{}, err
	}

	// Months wholly before the hire month have no payable days.
	if month.Before(period.Of(emp.HireDate)) {
		result.SpecialAdvance = advance.Outcome{Kind: advance.OutcomeNone}
		return result, nil
	}

	result.DailyRate = money.DailyRate(emp.MonthlySalary, result.DaysInMonth)
	result.Gross = p.grossPay(emp.MonthlySalary, month, asOf, closed)
	result.Deductions = p.deductions(result.Summary, result.DailyRate)

	result.Bonus, err = p.paymentService.MonthlyBonus(ctx, employeeID, month)
	if err != nil {
		return payroll.Result{}, err
	}
	result.OrdinaryAdvance, err = p.paymentService.MonthlyAdvances(ctx, employeeID, month)
	if err != nil {
		return payroll.Result{}, err
	}

	availableAfterOrdinary := result.Gross - result.Deductions + result.Bonus - result.OrdinaryAdvance

	if closed {
		err = p.replaySettled(ctx, &result)
	} else {
		err = p.projectSpecialAdvance(ctx, &result, availableAfterOrdinary)
	}
	if err != nil {
		return payroll.Result{}, err
	}

	result.NetPay = availableAfterOrdinary - result.SpecialAdvancePaid
	if result.NetPay < 0 {
		result.NetPay = 0
	}

	result.AlreadyPaid, err = p.paymentService.SalaryPaid(ctx, employeeID, month)
	if err != nil {
		return payroll.Result{}, err
	}
	result.Remaining = result.NetPay - result.AlreadyPaid
	if result.Remaining < 0 {
		result.Remaining = 0
	}

	return result, nil
}

func (p *PayrollServiceImpl) isClosed(ctx context.Context, month period.Month) (bool, error) {
	row, err := p.periodRepo.Get(ctx, month)
	if errors.Is(err, payroll.ErrPeriodNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get payroll period: %w", err)
	}
	return row.Closed(), nil
}

// grossPay prorates the salary by elapsed days for a running month and
// pays it in full for a finished one.
func (p *PayrollServiceImpl) grossPay(salary int64, month period.Month, asOf time.Time, closed bool) int64 {
	if closed || month.Ended(asOf) {
		return salary
	}
	if asOf.Before(month.Start()) {
		return 0
	}
	return money.Prorate(salary, asOf.Day(), month.Days())
}

// deductions sums the per-category charges against the rounded daily
// rate, rounding the total exactly once.
func (p *PayrollServiceImpl) deductions(summary attendance.Summary, dailyRate int64) int64 {
	total := money.ApplyRate(int64(summary.Absent)*dailyRate, p.policy.AbsenceRate).
		Add(money.ApplyRate(int64(summary.Late)*dailyRate, p.policy.LateRate)).
		Add(money.ApplyRate(int64(summary.HalfDay)*dailyRate, p.policy.HalfDayRate))
	return money.RoundHalfUp(total)
}

// projectSpecialAdvance fills the open-month projection. Never settles.
func (p *PayrollServiceImpl) projectSpecialAdvance(ctx context.Context, result *payroll.Result, available int64) error {
	due, err := p.advanceService.DueForMonth(ctx, result.EmployeeID, result.Month)
	if err != nil {
		return err
	}
	result.SpecialAdvanceDue = due
	if due == 0 {
		result.SpecialAdvance = advance.Outcome{Kind: advance.OutcomeNone}
		return nil
	}

	paid := due
	if available < due {
		paid = available
	}
	if paid < 0 {
		paid = 0
	}
	result.SpecialAdvancePaid = paid

	if paid < due {
		result.SpecialAdvance = advance.Outcome{
			Kind:      advance.OutcomeProjectedShortfall,
			Shortfall: due - paid,
		}
	} else {
		result.SpecialAdvance = advance.Outcome{Kind: advance.OutcomeSettledInFull}
	}
	return nil
}

// replaySettled fills a closed month's figures from the committed
// schedule state.
func (p *PayrollServiceImpl) replaySettled(ctx context.Context, result *payroll.Result) error {
	views, err := p.advanceService.SettledForMonth(ctx, result.EmployeeID, result.Month)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		result.SpecialAdvance = advance.Outcome{Kind: advance.OutcomeNone}
		return nil
	}

	outcome := advance.Outcome{Kind: advance.OutcomeSettledInFull}
	for _, view := range views {
		result.SpecialAdvancePaid += view.Paid
		for _, report := range view.Reports {
			outcome.Kind = advance.OutcomeCommittedShortfall
			outcome.Shortfall += report.Shortfall
			outcome.ReportIDs = append(outcome.ReportIDs, report.ID)
		}
	}
	result.SpecialAdvanceDue = result.SpecialAdvancePaid + outcome.Shortfall
	result.SpecialAdvance = outcome
	return nil
}

// CloseMonth implements payroll.PayrollService. The only settlement
// caller in the system.
func (p *PayrollServiceImpl) CloseMonth(ctx context.Context, month period.Month) (payroll.CloseMonthResponse, error) {
	now := p.now()
	if !month.Ended(now) {
		return payroll.CloseMonthResponse{}, payroll.ErrMonthStillRunning
	}

	row, err := p.periodRepo.Get(ctx, month)
	if err != nil && !errors.Is(err, payroll.ErrPeriodNotFound) {
		return payroll.CloseMonthResponse{}, fmt.Errorf("failed to get payroll period: %w", err)
	}
	if err == nil && row.Closed() {
		return payroll.CloseMonthResponse{}, payroll.ErrMonthAlreadyClosed
	}

	if err := p.requirePriorClosed(ctx, month); err != nil {
		return payroll.CloseMonthResponse{}, err
	}

	employees, err := p.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.CloseMonthResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	// The ledger knows who still owes for the month; everyone else
	// closes without a settlement write.
	owing, err := p.advanceService.DueEmployees(ctx, month)
	if err != nil {
		return payroll.CloseMonthResponse{}, fmt.Errorf("failed to list employees owing: %w", err)
	}
	owingSet := make(map[string]bool, len(owing))
	for _, id := range owing {
		owingSet[id] = true
	}

	resp := payroll.CloseMonthResponse{Month: month.String()}
	for _, emp := range employees {
		if period.Of(emp.HireDate).After(month) {
			continue
		}
		resp.Employees++

		if !owingSet[emp.ID] {
			continue
		}

		// The pre-close projection; Compute never mutates, so the
		// month is still formally open here.
		result, err := p.Compute(ctx, emp.ID, month, now)
		if err != nil {
			return resp, fmt.Errorf("failed to compute payroll for %s: %w", emp.ID, err)
		}

		outcome, err := p.advanceService.SettleMonth(ctx, emp.ID, month, result.SpecialAdvancePaid)
		if err != nil {
			return resp, fmt.Errorf("failed to settle %s for %s: %w", month, emp.ID, err)
		}
		switch outcome.Kind {
		case advance.OutcomeSettledInFull:
			resp.Settled++
		case advance.OutcomeCommittedShortfall:
			resp.Reported++
		}
	}

	if err := p.periodRepo.MarkClosed(ctx, month); err != nil {
		return resp, fmt.Errorf("failed to mark period closed: %w", err)
	}

	slog.Info("payroll month closed",
		"month", month.String(),
		"employees", resp.Employees,
		"settled", resp.Settled,
		"reported", resp.Reported)

	return resp, nil
}

// requirePriorClosed enforces the oldest-first close order: settling
// month M before M-1 would redistribute onto months M-1's close still
// expects to touch.
func (p *PayrollServiceImpl) requirePriorClosed(ctx context.Context, month period.Month) error {
	earliest, err := p.earliestMonth(ctx)
	if err != nil || earliest.IsZero() {
		return err
	}
	prev := month.Prev()
	if prev.Before(earliest) {
		return nil
	}
	closed, err := p.isClosed(ctx, prev)
	if err != nil {
		return err
	}
	if !closed {
		return payroll.ErrPriorMonthOpen
	}
	return nil
}

func (p *PayrollServiceImpl) earliestMonth(ctx context.Context) (period.Month, error) {
	hire, err := p.employeeRepo.EarliestHireDate(ctx)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return period.Month{}, nil
	}
	if err != nil {
		return period.Month{}, fmt.Errorf("failed to get earliest hire date: %w", err)
	}
	return period.Of(hire), nil
}

// CloseDuePeriods implements payroll.PayrollService.
func (p *PayrollServiceImpl) CloseDuePeriods(ctx context.Context) error {
	start, err := p.closeCursor(ctx)
	if err != nil || start.IsZero() {
		return err
	}

	now := p.now()
	for m := start; m.Ended(now); m = m.Next() {
		if _, err := p.CloseMonth(ctx, m); err != nil {
			if errors.Is(err, payroll.ErrMonthAlreadyClosed) {
				continue
			}
			return err
		}
	}
	return nil
}

// closeCursor finds the first month that may still need closing: the
// month after the last closed one, or the earliest hire month when
// nothing was ever closed.
func (p *PayrollServiceImpl) closeCursor(ctx context.Context) (period.Month, error) {
	last, err := p.periodRepo.LastClosed(ctx)
	if err == nil {
		return last.Next(), nil
	}
	if !errors.Is(err, payroll.ErrPeriodNotFound) {
		return period.Month{}, fmt.Errorf("failed to get last closed period: %w", err)
	}
	return p.earliestMonth(ctx)
}

// MonthStats implements payroll.PayrollService.
func (p *PayrollServiceImpl) MonthStats(ctx context.Context, month period.Month) (payroll.MonthStats, error) {
	employees, err := p.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.MonthStats{}, fmt.Errorf("failed to list employees: %w", err)
	}

	stats := payroll.MonthStats{Month: month}
	now := p.now()
	for _, emp := range employees {
		if period.Of(emp.HireDate).After(month) {
			continue
		}
		result, err := p.Compute(ctx, emp.ID, month, now)
		if err != nil {
			return payroll.MonthStats{}, err
		}
		stats.Employees++
		stats.TotalGross += result.Gross
		stats.TotalDeductions += result.Deductions
		stats.TotalNetPay += result.NetPay
		stats.TotalPaid += result.AlreadyPaid
		stats.TotalRemaining += result.Remaining
		stats.TotalSpecialDue += result.SpecialAdvanceDue
		stats.TotalSpecialPaid += result.SpecialAdvancePaid
		if result.SpecialAdvance.Shortfall > 0 {
			stats.EmployeesShortfall++
		}
	}
	return stats, nil
}
