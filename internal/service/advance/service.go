package advance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/malaza-be/payroll-backend-go/internal/domain/advance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// settleRetries bounds optimistic-concurrency retries on schedule
// writes before giving up.
const settleRetries = 3

type AdvanceServiceImpl struct {
	advance.ScheduleRepository
	employee.EmployeeRepository
	paymentRepo payment.PaymentRepository
	now         func() time.Time

	// Settlement is a read-modify-write over one employee's schedules,
	// so concurrent settles for the same employee are serialized here.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAdvanceService(
	scheduleRepo advance.ScheduleRepository,
	employeeRepo employee.EmployeeRepository,
	paymentRepo payment.PaymentRepository,
) *AdvanceServiceImpl {
	return &AdvanceServiceImpl{
		ScheduleRepository: scheduleRepo,
		EmployeeRepository: employeeRepo,
		paymentRepo:        paymentRepo,
		now:                time.Now,
		locks:              make(map[string]*sync.Mutex),
	}
}

func (a *AdvanceServiceImpl) employeeLock(employeeID string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, ok := a.locks[employeeID]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[employeeID] = lock
	}
	return lock
}

// CreateSchedule implements advance.AdvanceService.
func (a *AdvanceServiceImpl) CreateSchedule(ctx context.Context, req advance.CreateScheduleRequest) (advance.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.ScheduleResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return advance.ScheduleResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	startMonth, err := period.Parse(req.StartMonth)
	if err != nil {
		return advance.ScheduleResponse{}, err
	}

	months := make([]period.Month, req.MonthCount)
	for i := range months {
		months[i] = startMonth.AddMonths(i)
	}

	dueAmounts, err := splitTotal(req.TotalAmount, months, req.PerMonthOverrides)
	if err != nil {
		return advance.ScheduleResponse{}, err
	}
	if err := checkPositiveDues(dueAmounts); err != nil {
		return advance.ScheduleResponse{}, err
	}

	if err := a.validateMonthlyCaps(ctx, emp, months, dueAmounts); err != nil {
		return advance.ScheduleResponse{}, err
	}

	schedule := advance.Schedule{
		ID:          uuid.NewString(),
		EmployeeID:  req.EmployeeID,
		TotalAmount: req.TotalAmount,
		StartMonth:  startMonth,
		DueAmounts:  dueAmounts,
		Settled:     make(map[period.Month]bool),
		Status:      advance.ScheduleStatusActive,
		CreatedAt:   a.now(),
		UpdatedAt:   a.now(),
	}
	if err := schedule.CheckTotal(); err != nil {
		return advance.ScheduleResponse{}, err
	}

	created, err := a.ScheduleRepository.Create(ctx, schedule)
	if err != nil {
		return advance.ScheduleResponse{}, fmt.Errorf("failed to create schedule: %w", err)
	}

	slog.Info("special advance schedule created",
		"schedule_id", created.ID,
		"employee_id", created.EmployeeID,
		"total", created.TotalAmount,
		"months", len(created.DueAmounts))

	return advance.ToScheduleResponse(created), nil
}

// splitTotal distributes total over months: an explicit override map
// must cover exactly the scheduled months and preserve the total; the
// default split is floor(total/n) with the remainder on the last month.
func splitTotal(total int64, months []period.Month, overrides map[string]int64) (map[period.Month]int64, error) {
	dueAmounts := make(map[period.Month]int64, len(months))

	if len(overrides) > 0 {
		var sum int64
		for _, m := range months {
			amount, ok := overrides[m.String()]
			if !ok {
				return nil, advance.ErrOverridesTotalDrift
			}
			dueAmounts[m] = amount
			sum += amount
		}
		if len(overrides) != len(months) || sum != total {
			return nil, advance.ErrOverridesTotalDrift
		}
		return dueAmounts, nil
	}

	n := int64(len(months))
	perMonth := total / n
	for i, m := range months {
		if i == len(months)-1 {
			dueAmounts[m] = total - perMonth*(n-1)
		} else {
			dueAmounts[m] = perMonth
		}
	}
	return dueAmounts, nil
}

// checkPositiveDues rejects any month that would open at zero or less.
func checkPositiveDues(dueAmounts map[period.Month]int64) error {
	for _, amount := range dueAmounts {
		if amount <= 0 {
			return advance.ErrNonPositiveDue
		}
	}
	return nil
}

// validateMonthlyCaps rejects the schedule if any covered month's
// proposed withholding, on top of ordinary advances already taken and
// existing special-advance commitments, exceeds the monthly salary.
func (a *AdvanceServiceImpl) validateMonthlyCaps(ctx context.Context, emp employee.Employee, months []period.Month, proposed map[period.Month]int64) error {
	existing, err := a.ScheduleRepository.ListActiveByEmployee(ctx, emp.ID)
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}

	for _, m := range months {
		advances, err := a.paymentRepo.ListByMonth(ctx, emp.ID, m, payment.CategoryAdvance)
		if err != nil {
			return fmt.Errorf("failed to list advances for %s: %w", m, err)
		}
		var committed int64
		for _, p := range advances {
			committed += p.Amount
		}
		for _, s := range existing {
			if err := s.CheckTotal(); err != nil {
				return err
			}
			if due, ok := s.DueAmounts[m]; ok && !s.IsSettled(m) {
				committed += due
			}
		}
		if committed+proposed[m] > emp.MonthlySalary {
			return &advance.CapExceededError{
				Month:     m,
				Available: max64(0, emp.MonthlySalary-committed),
			}
		}
	}
	return nil
}

// DueForMonth implements advance.AdvanceService.
//
// Always re-reads persisted schedules: redistribution rewrites past
// months, so a cached copy can be stale.
func (a *AdvanceServiceImpl) DueForMonth(ctx context.Context, employeeID string, month period.Month) (int64, error) {
	schedules, err := a.ScheduleRepository.ListActiveByEmployee(ctx, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to list schedules: %w", err)
	}

	var due int64
	for _, s := range schedules {
		if err := s.CheckTotal(); err != nil {
			return 0, err
		}
		if amount, ok := s.DueAmounts[month]; ok && !s.IsSettled(month) {
			due += amount
		}
	}
	return due, nil
}

// DueEmployees implements advance.AdvanceService.
func (a *AdvanceServiceImpl) DueEmployees(ctx context.Context, month period.Month) ([]string, error) {
	schedules, err := a.ScheduleRepository.ListActiveCovering(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	seen := make(map[string]bool, len(schedules))
	var employeeIDs []string
	for _, s := range schedules {
		if err := s.CheckTotal(); err != nil {
			return nil, err
		}
		if !seen[s.EmployeeID] {
			seen[s.EmployeeID] = true
			employeeIDs = append(employeeIDs, s.EmployeeID)
		}
	}
	sort.Strings(employeeIDs)
	return employeeIDs, nil
}

// SettledForMonth implements advance.AdvanceService.
func (a *AdvanceServiceImpl) SettledForMonth(ctx context.Context, employeeID string, month period.Month) ([]advance.SettledView, error) {
	schedules, err := a.ScheduleRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	var views []advance.SettledView
	for _, s := range schedules {
		if err := s.CheckTotal(); err != nil {
			return nil, err
		}
		if !s.IsSettled(month) {
			continue
		}
		view := advance.SettledView{
			Month: month,
			// Settlement rewrites the month's due to the amount
			// actually withheld, so this is the committed figure.
			Paid: s.DueAmounts[month],
		}
		for _, r := range s.Reports {
			if r.Month == month {
				view.Reports = append(view.Reports, r)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// SettleMonth implements advance.AdvanceService.
func (a *AdvanceServiceImpl) SettleMonth(ctx context.Context, employeeID string, month period.Month, paidAmount int64) (advance.Outcome, error) {
	lock := a.employeeLock(employeeID)
	lock.Lock()
	defer lock.Unlock()

	var outcome advance.Outcome
	var err error
	for attempt := 0; attempt < settleRetries; attempt++ {
		outcome, err = a.settleOnce(ctx, employeeID, month, paidAmount)
		if !errors.Is(err, advance.ErrConcurrencyConflict) {
			return outcome, err
		}
		slog.Warn("schedule settle conflicted, retrying from fresh read",
			"employee_id", employeeID, "month", month.String(), "attempt", attempt+1)
	}
	return advance.Outcome{}, err
}

func (a *AdvanceServiceImpl) settleOnce(ctx context.Context, employeeID string, month period.Month, paidAmount int64) (advance.Outcome, error) {
	schedules, err := a.ScheduleRepository.ListActiveByEmployee(ctx, employeeID)
	if err != nil {
		return advance.Outcome{}, fmt.Errorf("failed to list schedules: %w", err)
	}

	var covering []advance.Schedule
	for _, s := range schedules {
		if err := s.CheckTotal(); err != nil {
			return advance.Outcome{}, err
		}
		if _, ok := s.DueAmounts[month]; ok {
			covering = append(covering, s)
		}
	}
	if len(covering) == 0 {
		return a.committedOutcome(ctx, employeeID, month)
	}

	// Months must close oldest-first: redistribution targets future
	// unsettled months, and an out-of-order settle would target a
	// month that is already final.
	for _, s := range covering {
		for _, m := range s.Months() {
			if m.Before(month) && !s.IsSettled(m) {
				return advance.Outcome{}, advance.ErrOutOfOrderSettlement
			}
		}
	}

	outcome := advance.Outcome{Kind: advance.OutcomeSettledInFull}
	remaining := paidAmount
	alreadySettled := true

	for _, s := range covering {
		if s.IsSettled(month) {
			continue
		}
		alreadySettled = false

		due := s.DueAmounts[month]
		pay := min64(remaining, due)
		remaining -= pay

		s.Settled[month] = true

		if pay < due {
			shortfall := due - pay
			s.DueAmounts[month] = pay
			report := a.redistribute(&s, month, shortfall)
			outcome.Kind = advance.OutcomeCommittedShortfall
			outcome.Shortfall += shortfall
			outcome.ReportIDs = append(outcome.ReportIDs, report.ID)
		}

		if s.AllSettled() {
			s.Status = advance.ScheduleStatusCompleted
		}

		if err := s.CheckTotal(); err != nil {
			return advance.Outcome{}, err
		}
		if err := a.ScheduleRepository.Update(ctx, s); err != nil {
			return advance.Outcome{}, err
		}

		slog.Info("schedule month settled",
			"schedule_id", s.ID,
			"employee_id", employeeID,
			"month", month.String(),
			"paid", pay,
			"shortfall", due-pay,
			"status", s.Status)
	}

	if alreadySettled {
		// Second settle of a finalized month is a no-op; replay the
		// committed outcome instead of mutating anything.
		return a.committedOutcome(ctx, employeeID, month)
	}

	return outcome, nil
}

// redistribute spreads a settled month's shortfall onto the schedule's
// future unsettled months: floor(shortfall/k) on the first k-1, the
// remainder on the last so the total is preserved exactly. With no
// future months, one new month is appended after the schedule's last.
func (a *AdvanceServiceImpl) redistribute(s *advance.Schedule, month period.Month, shortfall int64) advance.Report {
	future := s.UnsettledAfter(month)

	if len(future) == 0 {
		next := s.LastMonth().Next()
		s.DueAmounts[next] = shortfall
		future = []period.Month{next}
	} else {
		k := int64(len(future))
		perMonth := shortfall / k
		for _, m := range future[:len(future)-1] {
			s.DueAmounts[m] += perMonth
		}
		s.DueAmounts[future[len(future)-1]] += shortfall - perMonth*(k-1)
	}

	report := advance.Report{
		ID:           uuid.NewString(),
		Month:        month,
		Shortfall:    shortfall,
		TargetMonths: future,
		Reason:       fmt.Sprintf("unpaid withholding of %d carried forward from %s", shortfall, month),
		CreatedAt:    a.now(),
	}
	s.Reports = append(s.Reports, report)
	return report
}

// committedOutcome reconstructs the outcome of an already-finalized
// month from the persisted schedules.
func (a *AdvanceServiceImpl) committedOutcome(ctx context.Context, employeeID string, month period.Month) (advance.Outcome, error) {
	schedules, err := a.ScheduleRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return advance.Outcome{}, fmt.Errorf("failed to list schedules: %w", err)
	}

	outcome := advance.Outcome{Kind: advance.OutcomeNone}
	for _, s := range schedules {
		if !s.IsSettled(month) {
			continue
		}
		if outcome.Kind == advance.OutcomeNone {
			outcome.Kind = advance.OutcomeSettledInFull
		}
		for _, r := range s.Reports {
			if r.Month == month {
				outcome.Kind = advance.OutcomeCommittedShortfall
				outcome.Shortfall += r.Shortfall
				outcome.ReportIDs = append(outcome.ReportIDs, r.ID)
			}
		}
	}
	return outcome, nil
}

// ListSchedules implements advance.AdvanceService.
func (a *AdvanceServiceImpl) ListSchedules(ctx context.Context, employeeID string) ([]advance.ScheduleResponse, error) {
	schedules, err := a.ScheduleRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	responses := make([]advance.ScheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		if err := s.CheckTotal(); err != nil {
			return nil, err
		}
		responses = append(responses, advance.ToScheduleResponse(s))
	}
	return responses, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
