package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	loc      *time.Location
	lateHour int
	metrics  metrics.Recorder
	now      func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	loc *time.Location,
	lateHour int,
	recorder metrics.Recorder,
) *AttendanceServiceImpl {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		loc:                  loc,
		lateHour:             lateHour,
		metrics:              recorder,
		now:                  time.Now,
	}
}

// WithClock replaces the time source.
func (a *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	a.now = now
	return a
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	if _, err := a.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now().In(a.loc)
	today := workday.Today(now, a.loc)

	_, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	created, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID: employeeID,
		Date:       today,
		ClockIn:    now,
		Status:     attendance.DeriveStatus(now, a.lateHour),
	})
	if err != nil {
		// a concurrent clock-in won the unique constraint
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.AttendanceResponse{}, err
	}

	a.metrics.Inc(metrics.EventClockIn)
	slog.Info("employee clocked in", "employee_id", employeeID, "status", created.Status)
	return attendance.ToResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	now := a.now().In(a.loc)
	today := workday.Today(now, a.loc)

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
		}
		return attendance.AttendanceResponse{}, err
	}
	if record.ClockOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}

	if err := a.AttendanceRepository.SetClockOut(ctx, record.ID, now); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	record.ClockOut = &now

	a.metrics.Inc(metrics.EventClockOut)
	return attendance.ToResponse(record), nil
}

// MyClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyClockIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.ClockIn(ctx, employeeID)
}

// MyClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyClockOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.ClockOut(ctx, employeeID)
}

// MyList implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyList(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.EmployeeID = &employeeID
	filter.DepartmentID = nil
	return a.List(ctx, filter)
}

// Create implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Create(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if _, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, err := time.Parse(workday.DateLayout, req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("invalid date: %w", err)
	}
	clockIn, clockOut, err := req.ClockTimes()
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := attendance.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       date,
		ClockIn:    clockIn,
		ClockOut:   clockOut,
		Notes:      req.Notes,
	}
	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
	} else {
		record.Status = attendance.DeriveStatus(clockIn.In(a.loc), a.lateHour)
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(created), nil
}

// GetByID implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(record), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.ToResponse(record))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  pagination.TotalPages(total, filter.Limit),
		Showing:     pagination.Showing(filter.Page, filter.Limit, total),
		Attendances: responses,
	}, nil
}

// Update implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Update(ctx context.Context, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := req.Apply(record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := a.AttendanceRepository.Update(ctx, updated); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.GetByID(ctx, id)
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	return a.AttendanceRepository.Delete(ctx, id)
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
