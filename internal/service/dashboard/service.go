package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, loc *time.Location) *DashboardServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		loc:                 loc,
		now:                 time.Now,
	}
}

// WithClock replaces the time source.
func (s *DashboardServiceImpl) WithClock(now func() time.Time) *DashboardServiceImpl {
	s.now = now
	return s
}

// day resolves the requested date, defaulting to today in the configured zone.
func (s *DashboardServiceImpl) day(date string) (time.Time, error) {
	if date == "" {
		return workday.Today(s.now(), s.loc), nil
	}
	parsed, err := time.Parse(workday.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return parsed, nil
}

// Summary returns combined dashboard data, one goroutine per section.
func (s *DashboardServiceImpl) Summary(ctx context.Context, req dashboard.SummaryRequest) (dashboard.SummaryResponse, error) {
	day, err := s.day(req.Date)
	if err != nil {
		return dashboard.SummaryResponse{}, err
	}
	month, year := int(day.Month()), day.Year()

	var (
		headcount  dashboard.HeadcountResponse
		attendance dashboard.AttendanceTodayResponse
		leaves     dashboard.LeaveSummaryResponse
		payroll    dashboard.PayrollSummaryResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.CountEmployeesByDepartment(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count headcount: %w", err)
		}
		headcount.ByDepartment = rows
		for _, row := range rows {
			headcount.Total += row.Count
		}
		return nil
	})

	g.Go(func() error {
		counts, err := s.CountAttendanceByStatus(gCtx, day)
		if err != nil {
			return fmt.Errorf("failed to count attendance: %w", err)
		}
		attendance = dashboard.AttendanceTodayResponse{
			Present: counts.Present,
			Late:    counts.Late,
			Absent:  counts.Absent,
			Leave:   counts.Leave,
			Total:   counts.Present + counts.Late + counts.Absent + counts.Leave,
		}
		return nil
	})

	g.Go(func() error {
		pending, err := s.CountPendingLeaves(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count pending leaves: %w", err)
		}
		leaves.Pending = pending
		return nil
	})

	g.Go(func() error {
		totals, err := s.SumPayroll(gCtx, month, year)
		if err != nil {
			return fmt.Errorf("failed to sum payroll: %w", err)
		}
		payroll = dashboard.PayrollSummaryResponse{
			Month:    month,
			Year:     year,
			Count:    totals.Count,
			TotalNet: totals.TotalNet.StringFixed(2),
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.SummaryResponse{}, err
	}

	if headcount.ByDepartment == nil {
		headcount.ByDepartment = []dashboard.DepartmentHeadcount{}
	}

	return dashboard.SummaryResponse{
		Date:       day.Format(workday.DateLayout),
		Headcount:  headcount,
		Attendance: attendance,
		Leaves:     leaves,
		Payroll:    payroll,
	}, nil
}

var _ dashboard.DashboardService = (*DashboardServiceImpl)(nil)
