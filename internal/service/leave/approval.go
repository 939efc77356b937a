package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
	"github.com/google/uuid"
)

// UpdateStatus implements leave.LeaveService. Approval and the LEAVE
// attendance backfill commit together; the notification is sent afterwards.
func (s *LeaveServiceImpl) UpdateStatus(ctx context.Context, id string, req leave.UpdateLeaveStatusRequest) (leave.LeaveResponse, error) {
	target := leave.Status(req.Status)
	if target != leave.StatusApproved && target != leave.StatusRejected {
		return leave.LeaveResponse{}, leave.ErrInvalidStatusTransition
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	request, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.ErrLeaveNotPending
	}

	reviewedAt := s.now()
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.LeaveRepository.UpdateStatus(txCtx, id, target, claims.UserID, req.Note, reviewedAt); err != nil {
			return err
		}
		if target == leave.StatusApproved {
			return s.backfillAttendance(txCtx, request)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	request.Status = target
	request.ReviewedBy = &claims.UserID
	request.ReviewedAt = &reviewedAt
	request.ReviewNote = req.Note

	if target == leave.StatusApproved {
		s.metrics.Inc(metrics.EventLeaveApproved)
	} else {
		s.metrics.Inc(metrics.EventLeaveRejected)
	}
	slog.Info("leave decided", "leave_id", id, "status", target, "reviewed_by", claims.UserID)

	s.notifyDecision(ctx, request)

	return leave.ToResponse(request), nil
}

// backfillAttendance marks every weekday of an approved leave as LEAVE.
func (s *LeaveServiceImpl) backfillAttendance(ctx context.Context, l leave.Leave) error {
	for _, day := range workday.Weekdays(l.StartDate, l.EndDate) {
		clockIn := workday.At(day, s.opts.ClockInHour, s.opts.ClockInMinute, s.opts.Location)
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate attendance id: %w", err)
		}
		if err := s.AttendanceRepository.UpsertLeave(ctx, id.String(), l.EmployeeID, day, clockIn); err != nil {
			return fmt.Errorf("failed to record leave attendance for %s: %w", day.Format(workday.DateLayout), err)
		}
	}
	return nil
}

// notifyDecision mails the employee. Failures are logged only.
func (s *LeaveServiceImpl) notifyDecision(ctx context.Context, l leave.Leave) {
	if s.email == nil {
		return
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, l.EmployeeID)
	if err != nil || emp.User == nil {
		slog.Warn("leave decision not mailed: employee lookup failed", "leave_id", l.ID, "error", err)
		return
	}

	var note string
	if l.ReviewNote != nil {
		note = *l.ReviewNote
	}

	err = s.email.SendLeaveDecision(emp.User.Email, email.LeaveDecision{
		EmployeeName: emp.User.FullName(),
		LeaveType:    string(l.Type),
		StartDate:    l.StartDate.Format(workday.DateLayout),
		EndDate:      l.EndDate.Format(workday.DateLayout),
		Days:         l.Days(),
		Status:       string(l.Status),
		Note:         note,
	})
	if err != nil {
		slog.Error("failed to send leave decision email", "leave_id", l.ID, "to", emp.User.Email, "error", err)
	}
}

// WithClock replaces the time source.
func (s *LeaveServiceImpl) WithClock(now func() time.Time) *LeaveServiceImpl {
	s.now = now
	return s
}
