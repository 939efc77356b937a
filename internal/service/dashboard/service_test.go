package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	attendanceDay time.Time
	payrollMonth  int
	payrollYear   int
	pendingErr    error
}

func (f *fakeDashboardRepo) CountEmployeesByDepartment(context.Context) ([]dashboard.DepartmentHeadcount, error) {
	eng := "0191b5a4-0000-7000-8000-000000000001"
	return []dashboard.DepartmentHeadcount{
		{DepartmentID: &eng, DepartmentName: "Engineering", Count: 7},
		{DepartmentName: "", Count: 2},
	}, nil
}

func (f *fakeDashboardRepo) CountAttendanceByStatus(_ context.Context, date time.Time) (dashboard.AttendanceCounts, error) {
	f.attendanceDay = date
	return dashboard.AttendanceCounts{Present: 5, Late: 1, Absent: 2, Leave: 1}, nil
}

func (f *fakeDashboardRepo) CountPendingLeaves(context.Context) (int64, error) {
	if f.pendingErr != nil {
		return 0, f.pendingErr
	}
	return 3, nil
}

func (f *fakeDashboardRepo) SumPayroll(_ context.Context, month, year int) (dashboard.PayrollTotals, error) {
	f.payrollMonth, f.payrollYear = month, year
	return dashboard.PayrollTotals{Count: 9, TotalNet: decimal.RequireFromString("1234567.5")}, nil
}

func TestSummary(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	repo := &fakeDashboardRepo{}
	// 2024-08-31 23:30 UTC is already September 1st in WIB
	svc := NewDashboardService(repo, wib).WithClock(func() time.Time {
		return time.Date(2024, 8, 31, 23, 30, 0, 0, time.UTC)
	})

	resp, err := svc.Summary(context.Background(), dashboard.SummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2024-09-01", resp.Date)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), repo.attendanceDay)
	assert.Equal(t, int64(9), resp.Headcount.Total)
	assert.Len(t, resp.Headcount.ByDepartment, 2)
	assert.Equal(t, int64(9), resp.Attendance.Total)
	assert.Equal(t, int64(3), resp.Leaves.Pending)
	assert.Equal(t, 9, resp.Payroll.Month)
	assert.Equal(t, 2024, resp.Payroll.Year)
	assert.Equal(t, "1234567.50", resp.Payroll.TotalNet)
}

func TestSummary_ExplicitDate(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := NewDashboardService(repo, time.UTC)

	resp, err := svc.Summary(context.Background(), dashboard.SummaryRequest{Date: "2024-02-29"})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", resp.Date)
	assert.Equal(t, 2, repo.payrollMonth)
}

func TestSummary_PropagatesErrors(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardRepo{pendingErr: errors.New("db down")}, time.UTC)

	_, err := svc.Summary(context.Background(), dashboard.SummaryRequest{})
	assert.ErrorContains(t, err, "db down")
}
