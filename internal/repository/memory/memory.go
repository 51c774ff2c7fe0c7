// Package memory provides in-memory repository implementations backing
// the service test suites. They honor the same contracts as the
// PostgreSQL repositories, including the revision guard on schedule
// writes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/domain/advance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/domain/leave"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payroll"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

// EmployeeRepository is an in-memory employee.EmployeeRepository.
type EmployeeRepository struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]employee.Employee)}
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	emp, ok := r.employees[id]
	if !ok || emp.DeletedAt != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *EmployeeRepository) GetByNationalID(_ context.Context, nationalID string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, emp := range r.employees {
		if emp.NationalID == nationalID && emp.DeletedAt == nil {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *EmployeeRepository) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *EmployeeRepository) Update(_ context.Context, emp employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[emp.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	r.employees[emp.ID] = emp
	return nil
}

func (r *EmployeeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	emp, ok := r.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	now := time.Now()
	emp.DeletedAt = &now
	r.employees[id] = emp
	return nil
}

func (r *EmployeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.Status == employee.EmploymentStatusActive && emp.DeletedAt == nil {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EmployeeRepository) EarliestHireDate(_ context.Context) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var earliest time.Time
	for _, emp := range r.employees {
		if emp.Status != employee.EmploymentStatusActive || emp.DeletedAt != nil {
			continue
		}
		if earliest.IsZero() || emp.HireDate.Before(earliest) {
			earliest = emp.HireDate
		}
	}
	if earliest.IsZero() {
		return time.Time{}, employee.ErrEmployeeNotFound
	}
	return earliest, nil
}

// AttendanceRepository is an in-memory attendance.AttendanceRepository.
type AttendanceRepository struct {
	mu   sync.Mutex
	days map[string]attendance.AttendanceDay
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{days: make(map[string]attendance.AttendanceDay)}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "/" + date.Format("2006-01-02")
}

func (r *AttendanceRepository) GetDay(_ context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day, ok := r.days[dayKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	return &day, nil
}

func (r *AttendanceRepository) ListRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.AttendanceDay
	for _, day := range r.days {
		if day.EmployeeID != employeeID {
			continue
		}
		if day.Date.Before(from) || day.Date.After(to) {
			continue
		}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *AttendanceRepository) UpsertDay(_ context.Context, day attendance.AttendanceDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days[dayKey(day.EmployeeID, day.Date)] = day
	return nil
}

func (r *AttendanceRepository) DeleteDay(_ context.Context, employeeID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.days, dayKey(employeeID, date))
	return nil
}

// LeaveRequestRepository is an in-memory leave.LeaveRequestRepository.
type LeaveRequestRepository struct {
	mu       sync.Mutex
	requests map[string]leave.LeaveRequest
}

func NewLeaveRequestRepository() *LeaveRequestRepository {
	return &LeaveRequestRepository{requests: make(map[string]leave.LeaveRequest)}
}

func (r *LeaveRequestRepository) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.ID] = request
	return request, nil
}

func (r *LeaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

func (r *LeaveRequestRepository) ListByEmployee(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, request := range r.requests {
		if request.EmployeeID == employeeID {
			out = append(out, request)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *LeaveRequestRepository) ListByYear(_ context.Context, employeeID string, year int) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, request := range r.requests {
		if request.EmployeeID == employeeID && request.StartDate.Year() == year {
			out = append(out, request)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *LeaveRequestRepository) UpdateStatus(_ context.Context, id string, status leave.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	request.Status = status
	request.UpdatedAt = time.Now()
	r.requests[id] = request
	return nil
}

// PaymentRepository is an in-memory payment.PaymentRepository.
type PaymentRepository struct {
	mu      sync.Mutex
	entries []payment.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

func (r *PaymentRepository) Create(_ context.Context, p payment.Payment) (payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, p)
	return p, nil
}

func (r *PaymentRepository) GetByID(_ context.Context, id string) (payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.entries {
		if p.ID == id {
			return p, nil
		}
	}
	return payment.Payment{}, payment.ErrPaymentNotFound
}

func (r *PaymentRepository) ListByMonth(_ context.Context, employeeID string, month period.Month, category payment.Category) ([]payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payment.Payment
	for _, p := range r.entries {
		if p.EmployeeID == employeeID && p.Category == category && month.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PaymentRepository) ListByYear(_ context.Context, employeeID string, year int, category payment.Category) ([]payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payment.Payment
	for _, p := range r.entries {
		if p.EmployeeID == employeeID && p.Category == category && p.Date.Year() == year {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PaymentRepository) ListMonthAll(_ context.Context, employeeID string, month period.Month) ([]payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payment.Payment
	for _, p := range r.entries {
		if p.EmployeeID == employeeID && month.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ScheduleRepository is an in-memory advance.ScheduleRepository. Reads
// return deep copies so callers mutate private snapshots, and Update
// enforces the same revision guard as the PostgreSQL implementation.
type ScheduleRepository struct {
	mu        sync.Mutex
	schedules map[string]advance.Schedule

	// FailUpdates fails that many Update calls with
	// ErrConcurrencyConflict before letting writes through.
	FailUpdates int
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{schedules: make(map[string]advance.Schedule)}
}

func cloneSchedule(s advance.Schedule) advance.Schedule {
	c := s
	c.DueAmounts = make(map[period.Month]int64, len(s.DueAmounts))
	for m, due := range s.DueAmounts {
		c.DueAmounts[m] = due
	}
	c.Settled = make(map[period.Month]bool, len(s.Settled))
	for m, done := range s.Settled {
		c.Settled[m] = done
	}
	c.Reports = append([]advance.Report(nil), s.Reports...)
	return c
}

func (r *ScheduleRepository) Create(_ context.Context, s advance.Schedule) (advance.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Revision = 1
	r.schedules[s.ID] = cloneSchedule(s)
	return cloneSchedule(s), nil
}

func (r *ScheduleRepository) GetByID(_ context.Context, id string) (advance.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok {
		return advance.Schedule{}, advance.ErrScheduleNotFound
	}
	return cloneSchedule(s), nil
}

func (r *ScheduleRepository) listByEmployee(employeeID string, activeOnly bool) []advance.Schedule {
	var out []advance.Schedule
	for _, s := range r.schedules {
		if s.EmployeeID != employeeID {
			continue
		}
		if activeOnly && s.Status != advance.ScheduleStatusActive {
			continue
		}
		out = append(out, cloneSchedule(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartMonth != out[j].StartMonth {
			return out[i].StartMonth.Before(out[j].StartMonth)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *ScheduleRepository) ListActiveByEmployee(_ context.Context, employeeID string) ([]advance.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listByEmployee(employeeID, true), nil
}

func (r *ScheduleRepository) ListByEmployee(_ context.Context, employeeID string) ([]advance.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listByEmployee(employeeID, false), nil
}

func (r *ScheduleRepository) ListActiveCovering(_ context.Context, month period.Month) ([]advance.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []advance.Schedule
	for _, s := range r.schedules {
		if s.Status != advance.ScheduleStatusActive {
			continue
		}
		if _, ok := s.DueAmounts[month]; ok && !s.Settled[month] {
			out = append(out, cloneSchedule(s))
		}
	}
	return out, nil
}

func (r *ScheduleRepository) Update(_ context.Context, s advance.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailUpdates > 0 {
		r.FailUpdates--
		return advance.ErrConcurrencyConflict
	}
	stored, ok := r.schedules[s.ID]
	if !ok {
		return advance.ErrScheduleNotFound
	}
	if stored.Revision != s.Revision {
		return advance.ErrConcurrencyConflict
	}
	s.Revision++
	r.schedules[s.ID] = cloneSchedule(s)
	return nil
}

// PeriodRepository is an in-memory payroll.PeriodRepository.
type PeriodRepository struct {
	mu      sync.Mutex
	periods map[period.Month]payroll.Period
}

func NewPeriodRepository() *PeriodRepository {
	return &PeriodRepository{periods: make(map[period.Month]payroll.Period)}
}

func (r *PeriodRepository) Get(_ context.Context, month period.Month) (payroll.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.periods[month]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return row, nil
}

func (r *PeriodRepository) MarkClosed(_ context.Context, month period.Month) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.periods[month]; ok && row.Closed() {
		return payroll.ErrMonthAlreadyClosed
	}
	now := time.Now()
	r.periods[month] = payroll.Period{Month: month, ClosedAt: &now}
	return nil
}

func (r *PeriodRepository) LastClosed(_ context.Context) (period.Month, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last period.Month
	for m, row := range r.periods {
		if !row.Closed() {
			continue
		}
		if last.IsZero() || m.After(last) {
			last = m
		}
	}
	if last.IsZero() {
		return period.Month{}, payroll.ErrPeriodNotFound
	}
	return last, nil
}
