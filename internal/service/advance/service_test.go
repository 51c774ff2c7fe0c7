package advance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malaza-be/payroll-backend-go/internal/domain/advance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
	"github.com/malaza-be/payroll-backend-go/internal/repository/memory"
)

const testEmployeeID = "2d8f2f64-9e05-4f3c-8a10-3c1f8ab0a001"

type advanceFixture struct {
	svc          *AdvanceServiceImpl
	scheduleRepo *memory.ScheduleRepository
	employeeRepo *memory.EmployeeRepository
	paymentRepo  *memory.PaymentRepository
}

func newAdvanceFixture(t *testing.T) *advanceFixture {
	t.Helper()

	scheduleRepo := memory.NewScheduleRepository()
	employeeRepo := memory.NewEmployeeRepository()
	paymentRepo := memory.NewPaymentRepository()

	_, err := employeeRepo.Create(context.Background(), employee.Employee{
		ID:            testEmployeeID,
		FullName:      "Hery Rakoto",
		NationalID:    "101011234567",
		MonthlySalary: 500_000,
		HireDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        employee.EmploymentStatusActive,
	})
	require.NoError(t, err)

	svc := NewAdvanceService(scheduleRepo, employeeRepo, paymentRepo)
	svc.now = func() time.Time { return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) }

	return &advanceFixture{
		svc:          svc,
		scheduleRepo: scheduleRepo,
		employeeRepo: employeeRepo,
		paymentRepo:  paymentRepo,
	}
}

func month(t *testing.T, s string) period.Month {
	t.Helper()
	m, err := period.Parse(s)
	require.NoError(t, err)
	return m
}

func TestAdvanceService_CreateSchedule_EqualSplit(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	resp, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(300_000), resp.TotalAmount)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, map[string]int64{
		"2025-01": 100_000,
		"2025-02": 100_000,
		"2025-03": 100_000,
	}, resp.DueAmounts)
}

func TestAdvanceService_CreateSchedule_RemainderOnLastMonth(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	resp, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 100_001,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(33_333), resp.DueAmounts["2025-01"])
	assert.Equal(t, int64(33_333), resp.DueAmounts["2025-02"])
	assert.Equal(t, int64(33_335), resp.DueAmounts["2025-03"])
}

func TestAdvanceService_CreateSchedule_Overrides(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	resp, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
		PerMonthOverrides: map[string]int64{
			"2025-01": 50_000,
			"2025-02": 100_000,
			"2025-03": 150_000,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(50_000), resp.DueAmounts["2025-01"])
	assert.Equal(t, int64(150_000), resp.DueAmounts["2025-03"])
}

func TestAdvanceService_CreateSchedule_OverridesMustSumToTotal(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
		PerMonthOverrides: map[string]int64{
			"2025-01": 50_000,
			"2025-02": 100_000,
			"2025-03": 100_000,
		},
	})

	assert.ErrorIs(t, err, advance.ErrOverridesTotalDrift)
}

func TestAdvanceService_CreateSchedule_RejectsZeroDueMonths(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	// A total below the month count floors the leading months to zero;
	// a zero-due month would never settle and block every later one.
	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 2,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	assert.ErrorIs(t, err, advance.ErrNonPositiveDue)

	_, err = f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 100_000,
		StartMonth:  "2025-01",
		MonthCount:  2,
		PerMonthOverrides: map[string]int64{
			"2025-01": 0,
			"2025-02": 100_000,
		},
	})
	assert.ErrorIs(t, err, advance.ErrNonPositiveDue)
}

func TestAdvanceService_CreateSchedule_CapExceededNamesFirstMonth(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	// An ordinary advance already committed for February eats into that
	// month's headroom.
	_, err := f.paymentRepo.Create(ctx, payment.Payment{
		ID:         "p-1",
		EmployeeID: testEmployeeID,
		Category:   payment.CategoryAdvance,
		Amount:     450_000,
		Date:       time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})

	require.ErrorIs(t, err, advance.ErrMonthlyCapExceeded)
	var capErr *advance.CapExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, month(t, "2025-02"), capErr.Month)
	assert.Equal(t, int64(50_000), capErr.Available)
}

func TestAdvanceService_CreateSchedule_CapCountsExistingSchedules(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 900_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 900_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})

	require.ErrorIs(t, err, advance.ErrMonthlyCapExceeded)
	var capErr *advance.CapExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, month(t, "2025-01"), capErr.Month)
	assert.Equal(t, int64(200_000), capErr.Available)
}

func TestAdvanceService_DueForMonth_SumsActiveSchedules(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	for _, total := range []int64{90_000, 150_000} {
		_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
			EmployeeID:  testEmployeeID,
			TotalAmount: total,
			StartMonth:  "2025-01",
			MonthCount:  3,
		})
		require.NoError(t, err)
	}

	due, err := f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(80_000), due)
}

func TestAdvanceService_DueEmployees_SkipsSettledSchedules(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	otherID := "9c41be77-1d0a-4e52-b6c8-55f20cd0a002"
	_, err := f.employeeRepo.Create(ctx, employee.Employee{
		ID:            otherID,
		FullName:      "Lala Andrianina",
		NationalID:    "101019876543",
		MonthlySalary: 400_000,
		HireDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        employee.EmploymentStatusActive,
	})
	require.NoError(t, err)

	for _, id := range []string{testEmployeeID, otherID} {
		_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
			EmployeeID:  id,
			TotalAmount: 90_000,
			StartMonth:  "2025-01",
			MonthCount:  3,
		})
		require.NoError(t, err)
	}

	owing, err := f.svc.DueEmployees(ctx, month(t, "2025-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{testEmployeeID, otherID}, owing)

	_, err = f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 30_000)
	require.NoError(t, err)

	owing, err = f.svc.DueEmployees(ctx, month(t, "2025-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{otherID}, owing)

	// A month no schedule covers owes nothing.
	owing, err = f.svc.DueEmployees(ctx, month(t, "2025-06"))
	require.NoError(t, err)
	assert.Empty(t, owing)
}

func TestAdvanceService_SettleMonth_InFull(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	require.NoError(t, err)

	outcome, err := f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 100_000)
	require.NoError(t, err)
	assert.Equal(t, advance.OutcomeSettledInFull, outcome.Kind)
	assert.Zero(t, outcome.Shortfall)

	due, err := f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-01"))
	require.NoError(t, err)
	assert.Zero(t, due)

	// Future months untouched.
	due, err = f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-02"))
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), due)
}

func TestAdvanceService_SettleMonth_ShortfallRedistributes(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	require.NoError(t, err)

	outcome, err := f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 60_000)
	require.NoError(t, err)
	assert.Equal(t, advance.OutcomeCommittedShortfall, outcome.Kind)
	assert.Equal(t, int64(40_000), outcome.Shortfall)
	assert.Len(t, outcome.ReportIDs, 1)

	febDue, err := f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-02"))
	require.NoError(t, err)
	assert.Equal(t, int64(120_000), febDue)

	marDue, err := f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-03"))
	require.NoError(t, err)
	assert.Equal(t, int64(120_000), marDue)

	// The settled month is rewritten to what was actually withheld, so
	// the per-month dues still sum to the original total.
	schedules, err := f.svc.ListSchedules(ctx, testEmployeeID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, int64(60_000), schedules[0].DueAmounts["2025-01"])
}

func TestAdvanceService_SettleMonth_ShortfallRemainderOnLastMonth(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 30_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	require.NoError(t, err)

	_, err = f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 9_995)
	require.NoError(t, err)

	febDue, err := f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-02"))
	require.NoError(t, err)
	marDue, err := f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-03"))
	require.NoError(t, err)

	assert.Equal(t, int64(10_002), febDue)
	assert.Equal(t, int64(10_003), marDue)
}

func TestAdvanceService_SettleMonth_NoFutureMonthAppendsOne(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 100_000,
		StartMonth:  "2025-01",
		MonthCount:  1,
	})
	require.NoError(t, err)

	outcome, err := f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 40_000)
	require.NoError(t, err)
	assert.Equal(t, advance.OutcomeCommittedShortfall, outcome.Kind)
	assert.Equal(t, int64(60_000), outcome.Shortfall)

	febDue, err := f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-02"))
	require.NoError(t, err)
	assert.Equal(t, int64(60_000), febDue)

	schedules, err := f.svc.ListSchedules(ctx, testEmployeeID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "active", schedules[0].Status)
	require.Len(t, schedules[0].Reports, 1)
	assert.Equal(t, []string{"2025-02"}, schedules[0].Reports[0].TargetMonths)
}

func TestAdvanceService_SettleMonth_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	require.NoError(t, err)

	first, err := f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 60_000)
	require.NoError(t, err)

	// A second settle of the same month must not redistribute again,
	// whatever amount it claims.
	second, err := f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 100_000)
	require.NoError(t, err)
	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Shortfall, second.Shortfall)
	assert.Equal(t, first.ReportIDs, second.ReportIDs)

	febDue, err := f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-02"))
	require.NoError(t, err)
	assert.Equal(t, int64(120_000), febDue)
}

func TestAdvanceService_SettleMonth_OutOfOrderRejected(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	require.NoError(t, err)

	_, err = f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-02"), 100_000)
	assert.ErrorIs(t, err, advance.ErrOutOfOrderSettlement)
}

func TestAdvanceService_SettleMonth_NoScheduleIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	outcome, err := f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 50_000)
	require.NoError(t, err)
	assert.Equal(t, advance.OutcomeNone, outcome.Kind)
}

func TestAdvanceService_SettleMonth_RetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	require.NoError(t, err)

	f.scheduleRepo.FailUpdates = 1
	outcome, err := f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 100_000)
	require.NoError(t, err)
	assert.Equal(t, advance.OutcomeSettledInFull, outcome.Kind)
}

func TestAdvanceService_SettleMonth_GivesUpAfterRetries(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	require.NoError(t, err)

	f.scheduleRepo.FailUpdates = settleRetries
	_, err = f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 100_000)
	assert.ErrorIs(t, err, advance.ErrConcurrencyConflict)
}

func TestAdvanceService_SettleMonth_CompletesSchedule(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 200_000,
		StartMonth:  "2025-01",
		MonthCount:  2,
	})
	require.NoError(t, err)

	for _, m := range []string{"2025-01", "2025-02"} {
		_, err := f.svc.SettleMonth(ctx, testEmployeeID, month(t, m), 100_000)
		require.NoError(t, err)
	}

	schedules, err := f.svc.ListSchedules(ctx, testEmployeeID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "completed", schedules[0].Status)
	assert.ElementsMatch(t, []string{"2025-01", "2025-02"}, schedules[0].SettledMonths)
}

func TestAdvanceService_SettledForMonth_ReplaysCommittedFigures(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	_, err := f.svc.CreateSchedule(ctx, advance.CreateScheduleRequest{
		EmployeeID:  testEmployeeID,
		TotalAmount: 300_000,
		StartMonth:  "2025-01",
		MonthCount:  3,
	})
	require.NoError(t, err)

	_, err = f.svc.SettleMonth(ctx, testEmployeeID, month(t, "2025-01"), 60_000)
	require.NoError(t, err)

	views, err := f.svc.SettledForMonth(ctx, testEmployeeID, month(t, "2025-01"))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(60_000), views[0].Paid)
	require.Len(t, views[0].Reports, 1)
	assert.Equal(t, int64(40_000), views[0].Reports[0].Shortfall)
}

func TestAdvanceService_CorruptedScheduleSurfaces(t *testing.T) {
	ctx := context.Background()
	f := newAdvanceFixture(t)

	// Simulate a drifted row: dues no longer sum to the total.
	_, err := f.scheduleRepo.Create(ctx, advance.Schedule{
		ID:          "corrupt",
		EmployeeID:  testEmployeeID,
		TotalAmount: 100_000,
		StartMonth:  month(t, "2025-01"),
		DueAmounts:  map[period.Month]int64{month(t, "2025-01"): 60_000},
		Settled:     map[period.Month]bool{},
		Status:      advance.ScheduleStatusActive,
	})
	require.NoError(t, err)

	_, err = f.svc.DueForMonth(ctx, testEmployeeID, month(t, "2025-01"))
	assert.ErrorIs(t, err, advance.ErrScheduleCorrupted)
}
