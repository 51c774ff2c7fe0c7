package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	now func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		now:                  time.Now,
	}
}

// truncateDay normalizes a timestamp to midnight UTC so day keys
// compare by date only.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Summarize implements attendance.AttendanceService.
//
// Days are counted in [max(hire date, month start), min(asOf, month
// end)]; an unmarked day counts as present. An empty range yields a
// zero summary, never an error.
func (a *AttendanceServiceImpl) Summarize(ctx context.Context, employeeID string, month period.Month, asOf time.Time) (attendance.Summary, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to get employee: %w", err)
	}

	summary := attendance.Summary{
		EmployeeID: employeeID,
		Month:      month,
	}

	if asOf.IsZero() {
		asOf = a.now()
	}

	from := truncateDay(month.Start())
	if hire := truncateDay(emp.HireDate); hire.After(from) {
		from = hire
	}
	to := truncateDay(month.End())
	if cutoff := truncateDay(asOf); cutoff.Before(to) {
		to = cutoff
	}
	if to.Before(from) {
		return summary, nil
	}

	marks, err := a.AttendanceRepository.ListRange(ctx, employeeID, from, to)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list attendance range: %w", err)
	}

	byDay := make(map[time.Time]attendance.DayCategory, len(marks))
	for _, mark := range marks {
		byDay[truncateDay(mark.Date)] = mark.Category
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		category, ok := byDay[day]
		if !ok {
			category = attendance.CategoryPresent
		}
		switch category {
		case attendance.CategoryPresent:
			summary.Present++
		case attendance.CategoryAbsent:
			summary.Absent++
		case attendance.CategoryLate:
			summary.Late++
		case attendance.CategoryHalfDay:
			summary.HalfDay++
		case attendance.CategoryPaidLeave:
			summary.PaidLeave++
		default:
			return attendance.Summary{}, fmt.Errorf("%w: %s", attendance.ErrUnknownCategory, category)
		}
		summary.Total++
	}

	return summary, nil
}

// SetDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SetDay(ctx context.Context, req attendance.SetDayRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fmt.Errorf("failed to parse date: %w", err)
	}
	date = truncateDay(date)

	category := attendance.DayCategory(req.Category)
	if category == attendance.CategoryPaidLeave {
		return attendance.ErrPaidLeaveReserved
	}

	if date.After(truncateDay(a.now())) {
		return attendance.ErrFutureDate
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if date.Before(truncateDay(emp.HireDate)) {
		return attendance.ErrBeforeHireDate
	}

	stored, err := a.AttendanceRepository.GetDay(ctx, req.EmployeeID, date)
	if err != nil {
		return fmt.Errorf("failed to get attendance day: %w", err)
	}
	if stored != nil && stored.Category == attendance.CategoryPaidLeave {
		return attendance.ErrPaidLeaveReserved
	}

	return a.AttendanceRepository.UpsertDay(ctx, attendance.AttendanceDay{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Category:   category,
		UpdatedAt:  a.now(),
	})
}

// MonthCalendar implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MonthCalendar(ctx context.Context, employeeID string, month period.Month) (attendance.CalendarResponse, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.CalendarResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	resp := attendance.CalendarResponse{
		EmployeeID: employeeID,
		Month:      month.String(),
	}

	from := truncateDay(month.Start())
	if hire := truncateDay(emp.HireDate); hire.After(from) {
		from = hire
	}
	to := truncateDay(month.End())
	if today := truncateDay(a.now()); today.Before(to) {
		to = today
	}
	if to.Before(from) {
		return resp, nil
	}

	marks, err := a.AttendanceRepository.ListRange(ctx, employeeID, from, to)
	if err != nil {
		return attendance.CalendarResponse{}, fmt.Errorf("failed to list attendance range: %w", err)
	}

	byDay := make(map[time.Time]attendance.DayCategory, len(marks))
	for _, mark := range marks {
		byDay[truncateDay(mark.Date)] = mark.Category
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		category, stored := byDay[day]
		if !stored {
			category = attendance.CategoryPresent
		}
		resp.Days = append(resp.Days, attendance.CalendarDay{
			Date:     day.Format("2006-01-02"),
			Category: string(category),
			Stored:   stored,
		})
	}

	return resp, nil
}

// MarkLeaveDays implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkLeaveDays(ctx context.Context, employeeID string, days []time.Time) error {
	for _, day := range days {
		err := a.AttendanceRepository.UpsertDay(ctx, attendance.AttendanceDay{
			EmployeeID: employeeID,
			Date:       truncateDay(day),
			Category:   attendance.CategoryPaidLeave,
			UpdatedAt:  a.now(),
		})
		if err != nil {
			return fmt.Errorf("failed to mark leave day %s: %w", day.Format("2006-01-02"), err)
		}
	}
	return nil
}

// RestoreLeaveDays implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RestoreLeaveDays(ctx context.Context, employeeID string, days []time.Time) error {
	for _, day := range days {
		date := truncateDay(day)
		stored, err := a.AttendanceRepository.GetDay(ctx, employeeID, date)
		if err != nil {
			return fmt.Errorf("failed to get attendance day: %w", err)
		}
		// Only revert days the leave subsystem actually holds.
		if stored == nil || stored.Category != attendance.CategoryPaidLeave {
			continue
		}
		if err := a.AttendanceRepository.DeleteDay(ctx, employeeID, date); err != nil {
			return fmt.Errorf("failed to restore leave day %s: %w", date.Format("2006-01-02"), err)
		}
	}
	return nil
}
