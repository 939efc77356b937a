package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	// Create fails with ErrAttendanceExists when (employee, date) is taken.
	Create(ctx context.Context, newAttendance Attendance) (Attendance, error)
	Update(ctx context.Context, a Attendance) error
	// SetClockOut stamps clock_out only while it is still null.
	SetClockOut(ctx context.Context, id string, clockOut time.Time) error
	// UpsertLeave inserts a LEAVE row for the date, or overwrites the status
	// of the existing row to LEAVE.
	UpsertLeave(ctx context.Context, id, employeeID string, date, clockIn time.Time) error
	CountByStatus(ctx context.Context, employeeID string, from, to time.Time, status Status) (int, error)
	// MarkAbsent inserts ABSENT rows for employees who joined by date and have
	// no row for it. It returns the number of rows inserted.
	MarkAbsent(ctx context.Context, date, clockIn time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}
