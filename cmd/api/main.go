package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/config"
	appHTTP "github.com/malaza-be/payroll-backend-go/internal/handler/http"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/cron"
	"github.com/malaza-be/payroll-backend-go/internal/pkg/database"
	"github.com/malaza-be/payroll-backend-go/internal/repository/postgresql"
	advanceService "github.com/malaza-be/payroll-backend-go/internal/service/advance"
	attendanceService "github.com/malaza-be/payroll-backend-go/internal/service/attendance"
	employeeService "github.com/malaza-be/payroll-backend-go/internal/service/employee"
	leaveService "github.com/malaza-be/payroll-backend-go/internal/service/leave"
	paymentService "github.com/malaza-be/payroll-backend-go/internal/service/payment"
	payrollService "github.com/malaza-be/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo)
	advanceSvc := advanceService.NewAdvanceService(scheduleRepo, employeeRepo, paymentRepo)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, employeeRepo, paymentRepo, attendanceSvc, cfg.Payroll)
	paymentSvc := paymentService.NewPaymentService(db, paymentRepo, employeeRepo, advanceSvc, leaveSvc)
	payrollSvc := payrollService.NewPayrollService(periodRepo, employeeRepo, attendanceSvc, paymentSvc, advanceSvc, cfg.Payroll)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)

	handlers := appHTTP.Handlers{
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Payment:    appHTTP.NewPaymentHandler(paymentSvc),
		Advance:    appHTTP.NewAdvanceHandler(advanceSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
	}

	router := appHTTP.NewRouter(cfg.App.Env, handlers)

	closeEvery, err := time.ParseDuration(cfg.Payroll.CloseCheckEvery)
	if err != nil {
		log.Fatal("Invalid PAYROLL_CLOSE_CHECK_EVERY: ", err)
	}
	scheduler := cron.NewScheduler()
	scheduler.AddJob("payroll-month-close", closeEvery, payrollSvc.CloseDuePeriods)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server running", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
	slog.Info("Server stopped")
}
