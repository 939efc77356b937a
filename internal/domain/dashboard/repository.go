package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceCounts holds per-status attendance counts for one day
type AttendanceCounts struct {
	Present int64
	Late    int64
	Absent  int64
	Leave   int64
}

type PayrollTotals struct {
	Count    int64
	TotalNet decimal.Decimal
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// CountEmployeesByDepartment returns headcount grouped by department, unassigned last
	CountEmployeesByDepartment(ctx context.Context) ([]DepartmentHeadcount, error)

	CountAttendanceByStatus(ctx context.Context, date time.Time) (AttendanceCounts, error)

	CountPendingLeaves(ctx context.Context) (int64, error)

	// SumPayroll returns the number of payrolls of a period and the sum of their net salary
	SumPayroll(ctx context.Context, month, year int) (PayrollTotals, error)
}
