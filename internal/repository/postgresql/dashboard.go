package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountEmployeesByDepartment returns headcount per department, unassigned employees last
func (r *dashboardRepositoryImpl) CountEmployeesByDepartment(ctx context.Context) ([]dashboard.DepartmentHeadcount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, COALESCE(d.name, ''), COUNT(e.id)
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		GROUP BY d.id, d.name
		ORDER BY d.name NULLS LAST
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count employees by department: %w", err)
	}
	defer rows.Close()

	counts := []dashboard.DepartmentHeadcount{}
	for rows.Next() {
		var c dashboard.DepartmentHeadcount
		if err := rows.Scan(&c.DepartmentID, &c.DepartmentName, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan department headcount: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountAttendanceByStatus returns present/late/absent/leave for a day in single query
func (r *dashboardRepositoryImpl) CountAttendanceByStatus(ctx context.Context, date time.Time) (dashboard.AttendanceCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PRESENT'),
			COUNT(*) FILTER (WHERE status = 'LATE'),
			COUNT(*) FILTER (WHERE status = 'ABSENT'),
			COUNT(*) FILTER (WHERE status = 'LEAVE')
		FROM attendances
		WHERE date = $1
	`

	var counts dashboard.AttendanceCounts
	err := q.QueryRow(ctx, query, date).Scan(&counts.Present, &counts.Late, &counts.Absent, &counts.Leave)
	if err != nil {
		return dashboard.AttendanceCounts{}, fmt.Errorf("failed to count attendance by status: %w", err)
	}
	return counts, nil
}

func (r *dashboardRepositoryImpl) CountPendingLeaves(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var pending int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leaves WHERE status = $1`, leave.StatusPending).Scan(&pending); err != nil {
		return 0, fmt.Errorf("failed to count pending leaves: %w", err)
	}
	return pending, nil
}

// SumPayroll returns count and net total of a payroll period
func (r *dashboardRepositoryImpl) SumPayroll(ctx context.Context, month, year int) (dashboard.PayrollTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*), COALESCE(SUM(net_salary), 0)
		FROM payrolls
		WHERE month = $1 AND year = $2
	`

	var totals dashboard.PayrollTotals
	if err := q.QueryRow(ctx, query, month, year).Scan(&totals.Count, &totals.TotalNet); err != nil {
		return dashboard.PayrollTotals{}, fmt.Errorf("failed to sum payroll: %w", err)
	}
	return totals, nil
}
