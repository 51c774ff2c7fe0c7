package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malaza-be/payroll-backend-go/internal/config"
	"github.com/malaza-be/payroll-backend-go/internal/domain/attendance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/domain/leave"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
	"github.com/malaza-be/payroll-backend-go/internal/repository/memory"
	attendancesvc "github.com/malaza-be/payroll-backend-go/internal/service/attendance"
)

const testEmployeeID = "f0a4c9be-11d2-4c3a-9d80-5b2d34bd7001"

func testPolicy() config.PayrollConfig {
	return config.PayrollConfig{
		AbsenceRate:      decimal.NewFromInt(1),
		LateRate:         decimal.RequireFromString("0.25"),
		HalfDayRate:      decimal.RequireFromString("0.5"),
		AccrualPerMonth:  decimal.RequireFromString("2.5"),
		LeaveCeilingDays: decimal.NewFromInt(30),
		MinPresenceDays:  decimal.NewFromInt(15),
	}
}

type leaveFixture struct {
	svc            *LeaveServiceImpl
	attendanceRepo *memory.AttendanceRepository
	paymentRepo    *memory.PaymentRepository
}

func newLeaveFixture(t *testing.T, hire, now time.Time, policy config.PayrollConfig) *leaveFixture {
	t.Helper()

	employeeRepo := memory.NewEmployeeRepository()
	attendanceRepo := memory.NewAttendanceRepository()
	leaveRepo := memory.NewLeaveRequestRepository()
	paymentRepo := memory.NewPaymentRepository()

	_, err := employeeRepo.Create(context.Background(), employee.Employee{
		ID:            testEmployeeID,
		FullName:      "Lala Andriamahefa",
		NationalID:    "301031234567",
		MonthlySalary: 500_000,
		HireDate:      hire,
		Status:        employee.EmploymentStatusActive,
	})
	require.NoError(t, err)

	attendanceService := attendancesvc.NewAttendanceService(attendanceRepo, employeeRepo)
	svc := NewLeaveService(leaveRepo, employeeRepo, paymentRepo, attendanceService, policy)
	svc.now = func() time.Time { return now }

	return &leaveFixture{
		svc:            svc,
		attendanceRepo: attendanceRepo,
		paymentRepo:    paymentRepo,
	}
}

func (f *leaveFixture) markDays(t *testing.T, category attendance.DayCategory, days ...time.Time) {
	t.Helper()
	for _, day := range days {
		err := f.attendanceRepo.UpsertDay(context.Background(), attendance.AttendanceDay{
			EmployeeID: testEmployeeID,
			Date:       day,
			Category:   category,
			UpdatedAt:  day,
		})
		require.NoError(t, err)
	}
}

func datesIn(month period.Month, count int) []time.Time {
	days := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		days = append(days, month.Start().AddDate(0, 0, i))
	}
	return days
}

func TestLeaveService_Balance_AccruesPerEligibleMonth(t *testing.T) {
	ctx := context.Background()
	hire := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	f := newLeaveFixture(t, hire, now, testPolicy())

	balance, err := f.svc.Balance(ctx, testEmployeeID, 2025)
	require.NoError(t, err)

	// Six fully-present months at 2.5 days each.
	assert.Equal(t, 6, balance.EligibleMonths)
	assert.True(t, balance.Acquired.Equal(decimal.NewFromInt(15)), balance.Acquired)
	assert.True(t, balance.Available.Equal(decimal.NewFromInt(15)), balance.Available)
	assert.False(t, balance.Degraded)
}

func TestLeaveService_Balance_PresenceThreshold(t *testing.T) {
	ctx := context.Background()
	hire := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	t.Run("effective presence of 14 is not eligible", func(t *testing.T) {
		f := newLeaveFixture(t, hire, now, testPolicy())
		// March has 31 days; 17 absences leave 14 present.
		f.markDays(t, attendance.CategoryAbsent, datesIn(period.Month{Year: 2025, Mon: time.March}, 17)...)

		balance, err := f.svc.Balance(ctx, testEmployeeID, 2025)
		require.NoError(t, err)
		assert.Equal(t, 5, balance.EligibleMonths)
		assert.True(t, balance.Acquired.Equal(decimal.RequireFromString("12.5")), balance.Acquired)
	})

	t.Run("effective presence of exactly 15 is eligible", func(t *testing.T) {
		f := newLeaveFixture(t, hire, now, testPolicy())
		f.markDays(t, attendance.CategoryAbsent, datesIn(period.Month{Year: 2025, Mon: time.March}, 16)...)

		balance, err := f.svc.Balance(ctx, testEmployeeID, 2025)
		require.NoError(t, err)
		assert.Equal(t, 6, balance.EligibleMonths)
	})

	t.Run("half days count half toward presence", func(t *testing.T) {
		f := newLeaveFixture(t, hire, now, testPolicy())
		// April, 30 days: 14 absent + 2 half days leaves 14 present and
		// an effective presence of exactly 15.
		april := period.Month{Year: 2025, Mon: time.April}
		f.markDays(t, attendance.CategoryAbsent, datesIn(april, 14)...)
		f.markDays(t, attendance.CategoryHalfDay,
			april.Start().AddDate(0, 0, 14), april.Start().AddDate(0, 0, 15))

		balance, err := f.svc.Balance(ctx, testEmployeeID, 2025)
		require.NoError(t, err)
		assert.Equal(t, 6, balance.EligibleMonths)
	})
}

func TestLeaveService_Balance_CapsAtCeiling(t *testing.T) {
	ctx := context.Background()
	hire := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC)
	policy := testPolicy()
	policy.AccrualPerMonth = decimal.NewFromInt(3)
	f := newLeaveFixture(t, hire, now, policy)

	balance, err := f.svc.Balance(ctx, testEmployeeID, 2025)
	require.NoError(t, err)

	assert.Equal(t, 12, balance.EligibleMonths)
	assert.True(t, balance.Acquired.Equal(decimal.NewFromInt(30)), balance.Acquired)
}

func TestLeaveService_Balance_DeductsMonetizedDays(t *testing.T) {
	ctx := context.Background()
	hire := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	f := newLeaveFixture(t, hire, now, testPolicy())

	days := decimal.RequireFromString("2.5")
	_, err := f.paymentRepo.Create(ctx, payment.Payment{
		ID:         "m-1",
		EmployeeID: testEmployeeID,
		Category:   payment.CategoryLeaveMonetized,
		Amount:     40_000,
		Date:       time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Days:       &days,
	})
	require.NoError(t, err)

	balance, err := f.svc.Balance(ctx, testEmployeeID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Monetized.Equal(days), balance.Monetized)
	assert.True(t, balance.Available.Equal(decimal.RequireFromString("12.5")), balance.Available)
}

func TestLeaveService_Create_MarksDaysAndCountsTaken(t *testing.T) {
	ctx := context.Background()
	hire := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	f := newLeaveFixture(t, hire, now, testPolicy())

	resp, err := f.svc.Create(ctx, leave.CreateLeaveRequest{
		EmployeeID: testEmployeeID,
		StartDate:  "2025-06-10",
		EndDate:    "2025-06-12",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, "approved", resp.Status)
	assert.Empty(t, resp.Warning)

	for day := 10; day <= 12; day++ {
		stored, err := f.attendanceRepo.GetDay(ctx, testEmployeeID, time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, attendance.CategoryPaidLeave, stored.Category)
	}

	balance, err := f.svc.Balance(ctx, testEmployeeID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Taken.Equal(decimal.NewFromInt(3)), balance.Taken)
	assert.True(t, balance.Available.Equal(decimal.NewFromInt(12)), balance.Available)
}

func TestLeaveService_Create_WarnsOnInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	hire := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
	f := newLeaveFixture(t, hire, now, testPolicy())

	// One eligible month has accrued 2.5 days; a five-day request is
	// accepted with a warning and leaves the balance over-drawn.
	resp, err := f.svc.Create(ctx, leave.CreateLeaveRequest{
		EmployeeID: testEmployeeID,
		StartDate:  "2025-05-05",
		EndDate:    "2025-05-09",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Warning)

	balance, err := f.svc.Balance(ctx, testEmployeeID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Available.Equal(decimal.RequireFromString("-2.5")), balance.Available)
}

func TestLeaveService_Create_RejectsOverlap(t *testing.T) {
	ctx := context.Background()
	hire := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	f := newLeaveFixture(t, hire, now, testPolicy())

	_, err := f.svc.Create(ctx, leave.CreateLeaveRequest{
		EmployeeID: testEmployeeID,
		StartDate:  "2025-06-10",
		EndDate:    "2025-06-12",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, leave.CreateLeaveRequest{
		EmployeeID: testEmployeeID,
		StartDate:  "2025-06-12",
		EndDate:    "2025-06-14",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
}

func TestLeaveService_Cancel_RestoresDays(t *testing.T) {
	ctx := context.Background()
	hire := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	f := newLeaveFixture(t, hire, now, testPolicy())

	resp, err := f.svc.Create(ctx, leave.CreateLeaveRequest{
		EmployeeID: testEmployeeID,
		StartDate:  "2025-06-10",
		EndDate:    "2025-06-12",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, resp.ID))

	for day := 10; day <= 12; day++ {
		stored, err := f.attendanceRepo.GetDay(ctx, testEmployeeID, time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Nil(t, stored)
	}

	balance, err := f.svc.Balance(ctx, testEmployeeID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Taken.IsZero(), balance.Taken)

	assert.ErrorIs(t, f.svc.Cancel(ctx, resp.ID), leave.ErrAlreadyCancelled)
}

// failingAttendance simulates an unavailable attendance store.
type failingAttendance struct{}

func (failingAttendance) Summarize(context.Context, string, period.Month, time.Time) (attendance.Summary, error) {
	return attendance.Summary{}, errors.New("attendance store unavailable")
}

func (failingAttendance) SetDay(context.Context, attendance.SetDayRequest) error { return nil }

func (failingAttendance) MonthCalendar(context.Context, string, period.Month) (attendance.CalendarResponse, error) {
	return attendance.CalendarResponse{}, nil
}

func (failingAttendance) MarkLeaveDays(context.Context, string, []time.Time) error { return nil }

func (failingAttendance) RestoreLeaveDays(context.Context, string, []time.Time) error { return nil }

func TestLeaveService_Balance_DegradesWithoutAttendance(t *testing.T) {
	ctx := context.Background()
	hire := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	employeeRepo := memory.NewEmployeeRepository()
	_, err := employeeRepo.Create(ctx, employee.Employee{
		ID:            testEmployeeID,
		FullName:      "Lala Andriamahefa",
		NationalID:    "301031234567",
		MonthlySalary: 500_000,
		HireDate:      hire,
		Status:        employee.EmploymentStatusActive,
	})
	require.NoError(t, err)

	svc := NewLeaveService(memory.NewLeaveRequestRepository(), employeeRepo, memory.NewPaymentRepository(), failingAttendance{}, testPolicy())
	svc.now = func() time.Time { return now }

	balance, err := svc.Balance(ctx, testEmployeeID, 2025)
	require.NoError(t, err)

	// Every worked month counts as eligible when attendance is down.
	assert.True(t, balance.Degraded)
	assert.Equal(t, 6, balance.EligibleMonths)
	assert.True(t, balance.Acquired.Equal(decimal.NewFromInt(15)), balance.Acquired)
}
