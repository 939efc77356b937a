package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Department DepartmentHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Payroll    PayrollHandler
	Review     ReviewHandler
	Document   DocumentHandler
	Dashboard  DashboardHandler
}

type RouterOptions struct {
	Logger      *slog.Logger
	LogLevel    slog.Level
	CORSOrigins []string

	// Metrics is served at /api/v1 plus MetricsPath when set.
	Metrics     MetricsProvider
	MetricsPath string

	// AuthLimiter throttles the public auth endpoints. Nil disables it.
	AuthLimiter *middleware.RateLimiter
}

type MetricsProvider interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

func NewRouter(jwtService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/api/v1/health"))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	throttle := func(next http.Handler) http.Handler { return next }
	if opts.AuthLimiter != nil {
		throttle = opts.AuthLimiter.Middleware
	}

	verifier := jwtauth.Verifier(jwtService.JWTAuth())
	authenticated := middleware.AuthRequired(jwtService.JWTAuth())
	can := middleware.RequirePermission

	r.Route("/api/v1", func(r chi.Router) {
		if opts.Metrics != nil {
			path := opts.MetricsPath
			if path == "" {
				path = "/metrics"
			}
			r.Method(http.MethodGet, path, opts.Metrics.Handler())
		}

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(throttle)
				r.Post("/register", h.Auth.Register)
				r.Post("/login", h.Auth.Login)
				r.Post("/refresh", h.Auth.RefreshToken)
				r.Post("/logout", h.Auth.Logout)
			})
			r.Get("/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Group(func(r chi.Router) {
				r.Use(verifier, authenticated)
				r.Get("/me", h.Auth.Me)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(verifier, authenticated)

			r.Route("/users", func(r chi.Router) {
				r.Use(can(user.PermissionUserManage))
				r.Get("/", h.User.List)
				r.Post("/", h.User.Create)
				r.Get("/{id}", h.User.Get)
				r.Patch("/{id}", h.User.Update)
				r.Delete("/{id}", h.User.Delete)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Department.List)
				r.Get("/{id}", h.Department.Get)
				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionDepartmentManage))
					r.Post("/", h.Department.Create)
					r.Patch("/{id}", h.Department.Update)
					r.Delete("/{id}", h.Department.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.Me)
				r.With(can(user.PermissionEmployeeViewAll)).Get("/", h.Employee.ListEmployees)
				r.With(can(user.PermissionEmployeeViewAll)).Get("/{id}", h.Employee.GetEmployee)
				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Patch("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Route("/my", func(r chi.Router) {
					r.Use(can(user.PermissionAttendanceClock))
					r.Get("/", h.Attendance.MyList)
					r.Post("/clock-in", h.Attendance.MyClockIn)
					r.Post("/clock-out", h.Attendance.MyClockOut)
				})

				r.With(can(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
				r.With(can(user.PermissionAttendanceViewAll)).Get("/{id}", h.Attendance.Get)
				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionAttendanceManage))
					r.Post("/clock-in", h.Attendance.ClockIn)
					r.Post("/clock-out", h.Attendance.ClockOut)
					r.Post("/", h.Attendance.Create)
					r.Patch("/{id}", h.Attendance.Update)
					r.Delete("/{id}", h.Attendance.Delete)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Route("/my", func(r chi.Router) {
					r.Use(can(user.PermissionLeaveRequest))
					r.Get("/", h.Leave.MyList)
					r.Post("/", h.Leave.MyCreate)
					r.Get("/balance", h.Leave.MyBalance)
					r.Delete("/{id}", h.Leave.MyDelete)
				})

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionLeaveViewAll))
					r.Get("/", h.Leave.List)
					r.Get("/balance/{employeeID}", h.Leave.Balance)
					r.Get("/{id}", h.Leave.Get)
				})
				r.With(can(user.PermissionLeaveApprove)).Patch("/{id}/status", h.Leave.UpdateStatus)
				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionLeaveManage))
					r.Post("/", h.Leave.Create)
					r.Patch("/{id}", h.Leave.Update)
					r.Delete("/{id}", h.Leave.Delete)
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.With(can(user.PermissionPayrollViewOwn)).Get("/my", h.Payroll.MyList)

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionPayrollViewAll))
					r.Get("/", h.Payroll.List)
					r.Get("/export", h.Payroll.Export)
					r.Get("/{id}", h.Payroll.Get)
				})
				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionPayrollManage))
					r.Post("/generate", h.Payroll.Generate)
					r.Patch("/{id}", h.Payroll.Update)
					r.Patch("/{id}/status", h.Payroll.UpdateStatus)
					r.Delete("/{id}", h.Payroll.Delete)
				})
			})

			r.Route("/performance-reviews", func(r chi.Router) {
				r.With(can(user.PermissionReviewViewOwn)).Get("/my", h.Review.MyList)

				r.With(can(user.PermissionReviewViewAll)).Get("/", h.Review.List)
				r.With(can(user.PermissionReviewViewAll)).Get("/{id}", h.Review.Get)
				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionReviewManage))
					r.Post("/", h.Review.Create)
					r.Patch("/{id}", h.Review.Update)
					r.Delete("/{id}", h.Review.Delete)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.With(can(user.PermissionDocumentViewOwn)).Get("/my", h.Document.MyList)

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionDocumentManage))
					r.Get("/", h.Document.List)
					r.Post("/", h.Document.Upload)
					r.Get("/{id}", h.Document.Get)
					r.Get("/{id}/download", h.Document.Download)
					r.Delete("/{id}", h.Document.Delete)
				})
			})

			r.With(can(user.PermissionDashboardView)).Get("/dashboard/summary", h.Dashboard.Summary)
		})
	})
	return r
}
