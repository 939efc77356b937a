package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
)

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	policy         payroll.Policy
	email          email.EmailService
	metrics        metrics.Recorder
	now            func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	policy payroll.Policy,
	emailService email.EmailService,
	recorder metrics.Recorder,
) *PayrollServiceImpl {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		policy:         policy,
		email:          emailService,
		metrics:        recorder,
		now:            time.Now,
	}
}

// Generate implements payroll.PayrollService. Each employee is written on
// its own, so rows created before a failure stay in place.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	employees, err := s.employeeRepo.FindAll(ctx, employee.EmployeeScope{
		DepartmentID: req.DepartmentID,
		EmployeeID:   req.EmployeeID,
	})
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}

	period := payroll.NewPeriod(req.Month, req.Year, time.UTC)
	resp := payroll.GeneratePayrollResponse{
		Month:    req.Month,
		Year:     req.Year,
		Payrolls: []payroll.PayrollResponse{},
	}

	for _, emp := range employees {
		exists, err := s.payrollRepo.ExistsForPeriod(ctx, emp.ID, req.Month, req.Year)
		if err != nil {
			return resp, fmt.Errorf("failed to check existing payroll for employee %s: %w", emp.ID, err)
		}
		if exists {
			resp.Skipped++
			continue
		}

		absentDays, err := s.attendanceRepo.CountByStatus(ctx, emp.ID, period.Start, period.End, attendance.StatusAbsent)
		if err != nil {
			return resp, fmt.Errorf("failed to count absences for employee %s: %w", emp.ID, err)
		}

		components, ok := s.policy.Calculate(emp.Salary, emp.DateOfJoining, absentDays, period)
		if !ok {
			resp.Skipped++
			continue
		}

		created, err := s.payrollRepo.Create(ctx, payroll.Payroll{
			EmployeeID: emp.ID,
			Month:      req.Month,
			Year:       req.Year,
			BaseSalary: components.BaseSalary,
			Allowances: components.Allowances,
			Deductions: components.Deductions,
			Tax:        components.Tax,
			NetSalary:  components.NetSalary,
			Status:     payroll.StatusDraft,
		})
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollAlreadyExists) {
				resp.Skipped++
				continue
			}
			return resp, fmt.Errorf("failed to create payroll for employee %s: %w", emp.ID, err)
		}

		resp.Created++
		resp.Payrolls = append(resp.Payrolls, payroll.ToResponse(created))
	}

	s.metrics.Add(metrics.EventPayrollGenerated, resp.Created)
	slog.Info("payroll generated", "month", req.Month, "year", req.Year, "created", resp.Created, "skipped", resp.Skipped)
	return resp, nil
}

// GetByID implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToResponse(p), nil
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	payrolls, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	responses := make([]payroll.PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		responses = append(responses, payroll.ToResponse(p))
	}

	return payroll.ListPayrollResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Payrolls:   responses,
	}, nil
}

// Update implements payroll.PayrollService.
func (s *PayrollServiceImpl) Update(ctx context.Context, id string, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	current, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if current.IsPaid() {
		return payroll.PayrollResponse{}, payroll.ErrPayrollAlreadyPaid
	}

	updated := req.Apply(current)
	if err := s.payrollRepo.Update(ctx, updated); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return s.GetByID(ctx, id)
}

// UpdateStatus implements payroll.PayrollService. Moving to PAID stamps
// paid_at and mails the payslip.
func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, id string, req payroll.UpdatePayrollStatusRequest) (payroll.PayrollResponse, error) {
	target := payroll.Status(req.Status)
	switch target {
	case payroll.StatusDraft, payroll.StatusProcessed, payroll.StatusPaid:
	default:
		return payroll.PayrollResponse{}, payroll.ErrInvalidPayrollStatus
	}

	current, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if current.IsPaid() {
		return payroll.PayrollResponse{}, payroll.ErrPayrollAlreadyPaid
	}

	var paidAt *time.Time
	if target == payroll.StatusPaid {
		now := s.now()
		paidAt = &now
	}

	if err := s.payrollRepo.UpdateStatus(ctx, id, target, paidAt); err != nil {
		return payroll.PayrollResponse{}, err
	}
	current.Status = target
	current.PaidAt = paidAt

	if target == payroll.StatusPaid {
		s.metrics.Inc(metrics.EventPayrollPaid)
		s.sendPayslip(ctx, current)
	}

	return payroll.ToResponse(current), nil
}

// sendPayslip mails the payslip. Failures are logged only.
func (s *PayrollServiceImpl) sendPayslip(ctx context.Context, p payroll.Payroll) {
	if s.email == nil {
		return
	}

	emp, err := s.employeeRepo.GetByID(ctx, p.EmployeeID)
	if err != nil || emp.User == nil {
		slog.Warn("payslip not mailed: employee lookup failed", "payroll_id", p.ID, "error", err)
		return
	}

	err = s.email.SendPayslip(emp.User.Email, email.Payslip{
		EmployeeName: emp.User.FullName(),
		Period:       fmt.Sprintf("%s %d", time.Month(p.Month), p.Year),
		BaseSalary:   p.BaseSalary.StringFixed(2),
		Allowances:   p.Allowances.StringFixed(2),
		Deductions:   p.Deductions.StringFixed(2),
		Tax:          p.Tax.StringFixed(2),
		NetSalary:    p.NetSalary.StringFixed(2),
	})
	if err != nil {
		slog.Error("failed to send payslip email", "payroll_id", p.ID, "to", emp.User.Email, "error", err)
	}
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	current, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.IsPaid() {
		return payroll.ErrPayrollAlreadyPaid
	}
	return s.payrollRepo.Delete(ctx, id)
}

// MyList implements payroll.PayrollService.
func (s *PayrollServiceImpl) MyList(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	filter.EmployeeID = &employeeID
	filter.DepartmentID = nil
	return s.List(ctx, filter)
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)
