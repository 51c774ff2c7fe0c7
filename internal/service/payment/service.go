package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/malaza-be/payroll-backend-go/internal/domain/advance"
	"github.com/malaza-be/payroll-backend-go/internal/domain/employee"
	"github.com/malaza-be/payroll-backend-go/internal/domain/leave"
	"github.com/malaza-be/payroll-backend-go/internal/domain/payment"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/database"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
	"github.com/malaza-be/payroll-backend-go/internal/repository/postgresql"
)

type PaymentServiceImpl struct {
	db *database.DB
	payment.PaymentRepository
	employee.EmployeeRepository
	advanceService advance.AdvanceService
	leaveService   leave.LeaveService
	now            func() time.Time
}

func NewPaymentService(
	db *database.DB,
	paymentRepo payment.PaymentRepository,
	employeeRepo employee.EmployeeRepository,
	advanceService advance.AdvanceService,
	leaveService leave.LeaveService,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		db:                 db,
		PaymentRepository:  paymentRepo,
		EmployeeRepository: employeeRepo,
		advanceService:     advanceService,
		leaveService:       leaveService,
		now:                time.Now,
	}
}

// Record implements payment.PaymentService.
func (p *PaymentServiceImpl) Record(ctx context.Context, req payment.RecordPaymentRequest) (payment.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return payment.PaymentResponse{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return payment.PaymentResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}
	month := period.Of(date)

	if _, err := p.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return payment.PaymentResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	entry := payment.Payment{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		Category:   payment.Category(req.Category),
		Amount:     req.Amount,
		Date:       date,
		Note:       req.Note,
		CreatedAt:  p.now(),
	}

	switch entry.Category {
	case payment.CategoryAdvance:
		available, err := p.MaxAdvance(ctx, req.EmployeeID, month)
		if err != nil {
			return payment.PaymentResponse{}, err
		}
		if req.Amount > available {
			return payment.PaymentResponse{}, fmt.Errorf("%w: at most %d available in %s",
				payment.ErrAdvanceExceedsAvailable, available, month)
		}

	case payment.CategoryLeaveMonetized:
		days, err := decimal.NewFromString(*req.Days)
		if err != nil || !days.IsPositive() {
			return payment.PaymentResponse{}, fmt.Errorf("invalid days value: %q", *req.Days)
		}
		balance, err := p.leaveService.Balance(ctx, req.EmployeeID, date.Year())
		if err != nil {
			return payment.PaymentResponse{}, err
		}
		if balance.Available.LessThan(days) {
			return payment.PaymentResponse{}, fmt.Errorf("%w: %s days available, %s requested",
				payment.ErrInsufficientLeaveBalance, balance.Available, days)
		}
		entry.Days = &days

	case payment.CategorySpecialAdvance:
		return p.recordSpecialAdvance(ctx, req, entry)
	}

	created, err := p.PaymentRepository.Create(ctx, entry)
	if err != nil {
		return payment.PaymentResponse{}, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment.ToPaymentResponse(created), nil
}

// recordSpecialAdvance writes the disbursement entry and opens its
// repayment schedule in one transaction: a disbursement without a
// schedule would never be collected.
func (p *PaymentServiceImpl) recordSpecialAdvance(ctx context.Context, req payment.RecordPaymentRequest, entry payment.Payment) (payment.PaymentResponse, error) {
	var created payment.Payment
	var schedule advance.ScheduleResponse

	startMonth := req.StartMonth
	if startMonth == "" {
		startMonth = period.Of(entry.Date).Next().String()
	}

	err := postgresql.WithTransaction(ctx, p.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var err error
		created, err = p.PaymentRepository.Create(txCtx, entry)
		if err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		schedule, err = p.advanceService.CreateSchedule(txCtx, advance.CreateScheduleRequest{
			EmployeeID:        req.EmployeeID,
			TotalAmount:       req.Amount,
			StartMonth:        startMonth,
			MonthCount:        req.MonthCount,
			PerMonthOverrides: req.PerMonthOverrides,
		})
		return err
	})
	if err != nil {
		return payment.PaymentResponse{}, err
	}

	slog.Info("special advance disbursed",
		"payment_id", created.ID,
		"schedule_id", schedule.ID,
		"employee_id", req.EmployeeID,
		"amount", req.Amount)

	resp := payment.ToPaymentResponse(created)
	resp.ScheduleID = schedule.ID
	return resp, nil
}

// ListMonth implements payment.PaymentService.
func (p *PaymentServiceImpl) ListMonth(ctx context.Context, employeeID string, month period.Month) ([]payment.PaymentResponse, error) {
	entries, err := p.PaymentRepository.ListMonthAll(ctx, employeeID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	responses := make([]payment.PaymentResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, payment.ToPaymentResponse(e))
	}
	return responses, nil
}

// MaxAdvance implements payment.PaymentService: salary minus ordinary
// advances already taken minus the month's special-advance due.
func (p *PaymentServiceImpl) MaxAdvance(ctx context.Context, employeeID string, month period.Month) (int64, error) {
	emp, err := p.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to get employee: %w", err)
	}

	taken, err := p.MonthlyAdvances(ctx, employeeID, month)
	if err != nil {
		return 0, err
	}

	specialDue, err := p.advanceService.DueForMonth(ctx, employeeID, month)
	if err != nil {
		return 0, err
	}

	available := emp.MonthlySalary - taken - specialDue
	if available < 0 {
		available = 0
	}
	return available, nil
}

func (p *PaymentServiceImpl) sumMonth(ctx context.Context, employeeID string, month period.Month, category payment.Category) (int64, error) {
	entries, err := p.PaymentRepository.ListByMonth(ctx, employeeID, month, category)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s payments: %w", category, err)
	}
	var sum int64
	for _, e := range entries {
		sum += e.Amount
	}
	return sum, nil
}

// MonthlyAdvances implements payment.PaymentService.
func (p *PaymentServiceImpl) MonthlyAdvances(ctx context.Context, employeeID string, month period.Month) (int64, error) {
	return p.sumMonth(ctx, employeeID, month, payment.CategoryAdvance)
}

// MonthlyBonus implements payment.PaymentService.
func (p *PaymentServiceImpl) MonthlyBonus(ctx context.Context, employeeID string, month period.Month) (int64, error) {
	return p.sumMonth(ctx, employeeID, month, payment.CategoryBonus)
}

// SalaryPaid implements payment.PaymentService.
func (p *PaymentServiceImpl) SalaryPaid(ctx context.Context, employeeID string, month period.Month) (int64, error) {
	return p.sumMonth(ctx, employeeID, month, payment.CategorySalary)
}

// MonetizedDays implements payment.PaymentService.
func (p *PaymentServiceImpl) MonetizedDays(ctx context.Context, employeeID string, year int) (decimal.Decimal, error) {
	entries, err := p.PaymentRepository.ListByYear(ctx, employeeID, year, payment.CategoryLeaveMonetized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list monetized payments: %w", err)
	}
	days := decimal.Zero
	for _, e := range entries {
		if e.Days != nil {
			days = days.Add(*e.Days)
		}
	}
	return days, nil
}
