package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
)

// Options carries the leave policy.
type Options struct {
	Allocation leave.Allocation
	// Location decides the wall clock of the LEAVE attendance rows.
	Location      *time.Location
	ClockInHour   int
	ClockInMinute int
}

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRepository
	employee.EmployeeRepository
	attendance.AttendanceRepository
	email   email.EmailService
	metrics metrics.Recorder
	opts    Options
	now     func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveRepository leave.LeaveRepository,
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	emailService email.EmailService,
	recorder metrics.Recorder,
	opts Options,
) *LeaveServiceImpl {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if opts.Allocation == nil {
		opts.Allocation = leave.DefaultAllocation
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &LeaveServiceImpl{
		tx:                   tx,
		LeaveRepository:      leaveRepository,
		EmployeeRepository:   employeeRepository,
		AttendanceRepository: attendanceRepository,
		email:                emailService,
		metrics:              recorder,
		opts:                 opts,
		now:                  time.Now,
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(workday.DateLayout, s)
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if req.EmployeeID == "" {
		var errs validator.ValidationErrors
		errs.Add("employee_id", "employee_id is required")
		return leave.LeaveResponse{}, errs
	}

	leaveType := leave.Type(req.Type)
	if _, ok := s.opts.Allocation[leaveType]; !ok || !leaveType.Valid() {
		return leave.LeaveResponse{}, leave.ErrInvalidLeaveType
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if start.After(end) {
		return leave.LeaveResponse{}, leave.ErrInvalidDateRange
	}

	var created leave.Leave
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// Serialises concurrent requests of one employee so the overlap check holds.
		if err := s.EmployeeRepository.LockByID(txCtx, req.EmployeeID); err != nil {
			return err
		}

		if err := s.checkOverlap(txCtx, req.EmployeeID, start, end, nil); err != nil {
			return err
		}

		created, err = s.LeaveRepository.Create(txCtx, leave.Leave{
			EmployeeID: req.EmployeeID,
			Type:       leaveType,
			StartDate:  start,
			EndDate:    end,
			Reason:     req.Reason,
			Status:     leave.StatusPending,
		})
		return err
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.metrics.Inc(metrics.EventLeaveRequested)
	slog.Info("leave requested", "leave_id", created.ID, "employee_id", created.EmployeeID, "type", created.Type)
	return leave.ToResponse(created), nil
}

func (s *LeaveServiceImpl) checkOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) error {
	overlapping, err := s.LeaveRepository.FindOverlapping(ctx, employeeID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check overlapping leaves: %w", err)
	}
	if len(overlapping) > 0 {
		return leave.ErrLeaveOverlap
	}
	return nil
}

// GetByID implements leave.LeaveService.
func (s *LeaveServiceImpl) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.ToResponse(l), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	leaves, total, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	responses := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, leave.ToResponse(l))
	}

	return leave.ListLeaveResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Leaves:     responses,
	}, nil
}

// Update implements leave.LeaveService.
func (s *LeaveServiceImpl) Update(ctx context.Context, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	current, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if current.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.ErrLeaveNotPending
	}

	updated, err := req.Apply(current, time.UTC)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if _, ok := s.opts.Allocation[updated.Type]; !ok {
		return leave.LeaveResponse{}, leave.ErrInvalidLeaveType
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.EmployeeRepository.LockByID(txCtx, updated.EmployeeID); err != nil {
			return err
		}
		if err := s.checkOverlap(txCtx, updated.EmployeeID, updated.StartDate, updated.EndDate, &updated.ID); err != nil {
			return err
		}
		return s.LeaveRepository.Update(txCtx, updated)
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	return s.GetByID(ctx, id)
}

// Delete implements leave.LeaveService.
func (s *LeaveServiceImpl) Delete(ctx context.Context, id string) error {
	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.Status == leave.StatusApproved {
		return leave.ErrCannotDeleteApproved
	}
	return s.LeaveRepository.Delete(ctx, id)
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, employeeID string, year int) (leave.LeaveBalanceResponse, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	if year == 0 {
		year = s.now().In(s.opts.Location).Year()
	}

	from, to := workday.YearBounds(year, time.UTC)
	approved, err := s.LeaveRepository.ListApproved(ctx, employeeID, from, to)
	if err != nil {
		return leave.LeaveBalanceResponse{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	return leave.LeaveBalanceResponse{
		EmployeeID: employeeID,
		Year:       year,
		Balances:   leave.ComputeBalance(s.opts.Allocation, approved, year, time.UTC),
	}, nil
}

// MyCreate implements leave.LeaveService.
func (s *LeaveServiceImpl) MyCreate(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	req.EmployeeID = employeeID
	return s.Create(ctx, req)
}

// MyList implements leave.LeaveService.
func (s *LeaveServiceImpl) MyList(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}
	filter.EmployeeID = &employeeID
	return s.List(ctx, filter)
}

// MyDelete implements leave.LeaveService. Other employees' leaves read as not found.
func (s *LeaveServiceImpl) MyDelete(ctx context.Context, id string) error {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return err
	}
	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.EmployeeID != employeeID {
		return leave.ErrLeaveNotFound
	}
	return s.Delete(ctx, id)
}

// MyBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) MyBalance(ctx context.Context, year int) (leave.LeaveBalanceResponse, error) {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	return s.GetBalance(ctx, employeeID, year)
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)
