package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type Handlers struct {
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Payment    PaymentHandler
	Advance    AdvanceHandler
	Payroll    PayrollHandler
}

func NewRouter(env string, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.Employee.ListEmployees)
			r.Post("/", h.Employee.CreateEmployee)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Employee.GetEmployee)
				r.Put("/", h.Employee.UpdateEmployee)
				r.Delete("/", h.Employee.DeleteEmployee)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/", h.Attendance.SetDay)
			r.Get("/{employeeID}/{month}/summary", h.Attendance.GetSummary)
			r.Get("/{employeeID}/{month}/calendar", h.Attendance.GetCalendar)
		})

		r.Route("/leaves", func(r chi.Router) {
			r.Post("/", h.Leave.CreateRequest)
			r.Post("/{id}/cancel", h.Leave.CancelRequest)
			r.Get("/{employeeID}", h.Leave.ListRequests)
			r.Get("/{employeeID}/balance/{year}", h.Leave.GetBalance)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", h.Payment.RecordPayment)
			r.Get("/{employeeID}/{month}", h.Payment.ListMonth)
			r.Get("/{employeeID}/{month}/max-advance", h.Payment.GetMaxAdvance)
		})

		r.Route("/advances", func(r chi.Router) {
			r.Post("/", h.Advance.CreateSchedule)
			r.Get("/{employeeID}", h.Advance.ListSchedules)
			r.Get("/{employeeID}/{month}/due", h.Advance.GetDue)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/{employeeID}/{month}", h.Payroll.ComputePayroll)
			r.Get("/stats/{month}", h.Payroll.GetMonthStats)
			r.Post("/close/{month}", h.Payroll.CloseMonth)
			r.Post("/close", h.Payroll.ClosePeriods)
		})
	})
	return r
}
