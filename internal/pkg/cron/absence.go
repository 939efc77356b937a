package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
)

// AbsenceSweep records ABSENT attendance for employees who left no trace on
// the previous weekday.
type AbsenceSweep struct {
	attendanceRepo attendance.AttendanceRepository
	loc            *time.Location
	clockInHour    int
	clockInMinute  int
	now            func() time.Time
}

// NewAbsenceSweep builds the sweep. clockIn is the "HH:MM" stamped on the
// inserted rows.
func NewAbsenceSweep(attendanceRepo attendance.AttendanceRepository, loc *time.Location, clockIn string) (*AbsenceSweep, error) {
	t, err := time.Parse("15:04", clockIn)
	if err != nil {
		return nil, fmt.Errorf("invalid clock in time %q: %w", clockIn, err)
	}
	return &AbsenceSweep{
		attendanceRepo: attendanceRepo,
		loc:            loc,
		clockInHour:    t.Hour(),
		clockInMinute:  t.Minute(),
		now:            time.Now,
	}, nil
}

func (j *AbsenceSweep) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// PreviousWeekday returns the last Monday to Friday date strictly before today.
func PreviousWeekday(today time.Time) time.Time {
	day := today.AddDate(0, 0, -1)
	for !workday.IsWeekday(day) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// MarkAbsentEmployees is idempotent: employees that already have a row for
// the day are left alone.
func (j *AbsenceSweep) MarkAbsentEmployees(ctx context.Context) error {
	day := PreviousWeekday(workday.Today(j.now(), j.loc))
	clockIn := workday.At(day, j.clockInHour, j.clockInMinute, j.loc)

	inserted, err := j.attendanceRepo.MarkAbsent(ctx, day, clockIn)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees for %s: %w", day.Format(workday.DateLayout), err)
	}

	if inserted > 0 {
		slog.Info("Cron: marked employees absent", "date", day.Format(workday.DateLayout), "count", inserted)
	}
	return nil
}
