package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/ems-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/ems-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/ems-backend-go/internal/service/dashboard"
	departmentService "github.com/cmlabs-hris/ems-backend-go/internal/service/department"
	documentService "github.com/cmlabs-hris/ems-backend-go/internal/service/document"
	employeeService "github.com/cmlabs-hris/ems-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/ems-backend-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/ems-backend-go/internal/service/payroll"
	reviewService "github.com/cmlabs-hris/ems-backend-go/internal/service/review"
	userService "github.com/cmlabs-hris/ems-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.AppConfig) (*slog.Logger, slog.Level) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ems-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)
	return logger, level
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger, level := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Policy.Location()
	if err != nil {
		return err
	}

	dsn := cfg.DatabaseURL()
	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, dsn, "up"); err != nil {
			return err
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	reviewRepo := postgresql.NewReviewRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	transactor := postgresql.NewTransactor(db)

	var appMetrics *metrics.Metrics
	var recorder metrics.Recorder = metrics.Nop{}
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
		recorder = appMetrics
	}

	secureCookie := cfg.App.Env == "production"
	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, secureCookie)
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google)

	var emailService email.EmailService
	if cfg.SMTP.Host != "" {
		emailService, err = email.NewEmailService(cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to initialize email service: %w", err)
		}
	} else {
		slog.Warn("SMTP_HOST is empty, outgoing mail is disabled")
	}

	fileStorage, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	clockIn, err := time.Parse("15:04", cfg.Policy.LeaveClockIn)
	if err != nil {
		return fmt.Errorf("invalid leave clock in: %w", err)
	}

	authSvc := serviceAuth.NewAuthService(transactor, userRepo, JWTService, JWTRepository, recorder)
	userSvc := userService.NewUserService(userRepo, JWTRepository)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, userRepo, departmentRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, loc, cfg.Policy.LateHour, recorder)
	leaveSvc := leaveService.NewLeaveService(transactor, leaveRepo, employeeRepo, attendanceRepo, emailService, recorder, leaveService.Options{
		Allocation:    leave.NewAllocation(cfg.Policy.LeaveAllocation),
		Location:      loc,
		ClockInHour:   clockIn.Hour(),
		ClockInMinute: clockIn.Minute(),
	})
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, attendanceRepo, payroll.Policy{
		AllowanceRate: cfg.Policy.AllowanceRate,
		TaxRate:       cfg.Policy.TaxRate,
	}, emailService, recorder)
	reviewSvc := reviewService.NewReviewService(reviewRepo, employeeRepo)
	documentSvc := documentService.NewDocumentService(documentRepo, employeeRepo, fileStorage, storage.UploadOptions{
		MaxSize:     cfg.Storage.MaxUploadSize,
		AllowedExts: cfg.Storage.AllowedFileExts,
	}, recorder)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, loc)

	if cfg.Bootstrap.AdminEmail != "" {
		if err := userSvc.EnsureSystemAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			return fmt.Errorf("failed to bootstrap system admin: %w", err)
		}
	}

	scheduler := cron.NewScheduler()
	if cfg.Cron.AbsenceSweepEnabled {
		sweep, err := cron.NewAbsenceSweep(attendanceRepo, loc, cfg.Policy.LeaveClockIn)
		if err != nil {
			return err
		}
		sweep.RegisterJobs(scheduler, cfg.Cron.AbsenceSweepInterval)
		if appMetrics != nil {
			scheduler.OnRun(appMetrics.ObserveCron)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	routerOpts := appHTTP.RouterOptions{
		Logger:      logger,
		LogLevel:    level,
		CORSOrigins: cfg.App.CORSOrigins,
		MetricsPath: cfg.Metrics.Path,
	}
	if appMetrics != nil {
		routerOpts.Metrics = appMetrics
	}
	if cfg.RateLimit.Enabled {
		routerOpts.AuthLimiter = middleware.NewRateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc, GoogleService, cfg.App.FrontendURL, secureCookie),
		User:       appHTTP.NewUserHandler(userSvc),
		Department: appHTTP.NewDepartmentHandler(departmentSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Review:     appHTTP.NewReviewHandler(reviewSvc),
		Document:   appHTTP.NewDocumentHandler(documentSvc, cfg.Storage.MaxUploadSize),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
	}, routerOpts)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
