package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.clock_in, a.clock_out, a.status, a.notes, a.created_at, a.updated_at, ` +
	employeeSummaryColumns

func attendanceFrom() string {
	return ` FROM attendances a` + employeeSummaryJoins("a")
}

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		a   attendance.Attendance
		sum summaryRow
	)
	dest := append([]any{
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.ClockIn,
		&a.ClockOut,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	}, sum.dest()...)
	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}
	a.Employee = sum.summary()
	return a, nil
}

func (r *attendanceRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom() + ` WHERE ` + where
	found, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if database.IsNoRows(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return found, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.getOne(ctx, "a.id = $1", id)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	return r.getOne(ctx, "a.employee_id = $1 AND a.date = $2", employeeID, date)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		from, err := dateArg(*filter.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, from)
		argIdx++
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		to, err := dateArg(*filter.DateTo)
		if err != nil {
			return nil, 0, err
		}
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, to)
		argIdx++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*)`+attendanceFrom()+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY a.date DESC, a.clock_in DESC LIMIT $%d OFFSET $%d`,
		attendanceColumns, attendanceFrom(), where, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if newAttendance.ID == "" {
		newAttendance.ID = newID()
	}

	query := `
		INSERT INTO attendances (id, employee_id, date, clock_in, clock_out, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.ClockIn,
		newAttendance.ClockOut,
		newAttendance.Status,
		newAttendance.Notes,
	)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok && constraint == "uq_attendances_employee_date" {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return r.GetByID(ctx, newAttendance.ID)
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET clock_in = $1, clock_out = $2, status = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, a.ClockIn, a.ClockOut, a.Status, a.Notes, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// SetClockOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SetClockOut(ctx context.Context, id string, clockOut time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET clock_out = $1, updated_at = NOW()
		WHERE id = $2 AND clock_out IS NULL
	`
	tag, err := q.Exec(ctx, query, clockOut, id)
	if err != nil {
		return fmt.Errorf("failed to clock out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyClockedOut
	}
	return nil
}

// UpsertLeave implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpsertLeave(ctx context.Context, id, employeeID string, date, clockIn time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, date, clock_in, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, id, employeeID, date, clockIn, attendance.StatusLeave); err != nil {
		return fmt.Errorf("failed to record leave attendance: %w", err)
	}
	return nil
}

// CountByStatus implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountByStatus(ctx context.Context, employeeID string, from, to time.Time, status attendance.Status) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3 AND status = $4
	`
	var count int
	if err := q.QueryRow(ctx, query, employeeID, from, to, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

// MarkAbsent implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) MarkAbsent(ctx context.Context, date, clockIn time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	missingQuery := `
		SELECT e.id
		FROM employees e
		WHERE e.date_of_joining <= $1
		  AND NOT EXISTS (SELECT 1 FROM attendances a WHERE a.employee_id = e.id AND a.date = $1)
	`
	rows, err := q.Query(ctx, missingQuery, date)
	if err != nil {
		return 0, fmt.Errorf("failed to find employees without attendance: %w", err)
	}
	var employeeIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan employee id: %w", err)
		}
		employeeIDs = append(employeeIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	insertQuery := `
		INSERT INTO attendances (id, employee_id, date, clock_in, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO NOTHING
	`
	var inserted int64
	for _, employeeID := range employeeIDs {
		tag, err := q.Exec(ctx, insertQuery, newID(), employeeID, date, clockIn, attendance.StatusAbsent)
		if err != nil {
			return inserted, fmt.Errorf("failed to mark employee %s absent: %w", employeeID, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
