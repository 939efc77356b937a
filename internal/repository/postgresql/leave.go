package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveColumns = `
	l.id, l.employee_id, l.type, l.start_date, l.end_date, l.reason, l.status,
	l.reviewed_by, l.reviewed_at, l.review_note, l.created_at, l.updated_at, ` +
	employeeSummaryColumns

func leaveFrom() string {
	return ` FROM leaves l` + employeeSummaryJoins("l")
}

func scanLeave(row rowScanner) (leave.Leave, error) {
	var (
		l   leave.Leave
		sum summaryRow
	)
	dest := append([]any{
		&l.ID,
		&l.EmployeeID,
		&l.Type,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&l.Status,
		&l.ReviewedBy,
		&l.ReviewedAt,
		&l.ReviewNote,
		&l.CreatedAt,
		&l.UpdatedAt,
	}, sum.dest()...)
	if err := row.Scan(dest...); err != nil {
		return leave.Leave{}, err
	}
	l.Employee = sum.summary()
	return l, nil
}

func (r *leaveRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	leaves := []leave.Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + leaveFrom() + ` WHERE l.id = $1`
	found, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave: %w", err)
	}
	return found, nil
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("l.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("l.type = $%d", argIdx))
		args = append(args, *filter.Type)
		argIdx++
	}
	// A date window matches every leave overlapping it.
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		from, err := dateArg(*filter.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		conditions = append(conditions, fmt.Sprintf("l.end_date >= $%d", argIdx))
		args = append(args, from)
		argIdx++
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		to, err := dateArg(*filter.DateTo)
		if err != nil {
			return nil, 0, err
		}
		conditions = append(conditions, fmt.Sprintf("l.start_date <= $%d", argIdx))
		args = append(args, to)
		argIdx++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*)`+leaveFrom()+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leaves: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY l.start_date DESC, l.created_at DESC LIMIT $%d OFFSET $%d`,
		leaveColumns, leaveFrom(), where, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	leaves, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, newLeave leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	if newLeave.ID == "" {
		newLeave.ID = newID()
	}

	query := `
		INSERT INTO leaves (id, employee_id, type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query,
		newLeave.ID,
		newLeave.EmployeeID,
		newLeave.Type,
		newLeave.StartDate,
		newLeave.EndDate,
		newLeave.Reason,
		newLeave.Status,
	)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave: %w", err)
	}

	return r.GetByID(ctx, newLeave.ID)
}

// Update implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Update(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET type = $1, start_date = $2, end_date = $3, reason = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`
	tag, err := q.Exec(ctx, query, l.Type, l.StartDate, l.EndDate, l.Reason, l.ID, leave.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotPending
	}
	return nil
}

// UpdateStatus implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status, reviewedBy string, note *string, reviewedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, reviewed_by = $2, review_note = $3, reviewed_at = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`
	tag, err := q.Exec(ctx, query, status, reviewedBy, note, reviewedAt, id, leave.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update leave status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotPending
	}
	return nil
}

// FindOverlapping implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) ([]leave.Leave, error) {
	query := `SELECT ` + leaveColumns + leaveFrom() + `
		WHERE l.employee_id = $1
		  AND l.status IN ($2, $3)
		  AND l.start_date <= $5
		  AND l.end_date >= $4
		  AND ($6::uuid IS NULL OR l.id <> $6::uuid)
		ORDER BY l.start_date`

	return r.query(ctx, query, employeeID, leave.StatusPending, leave.StatusApproved, start, end, excludeID)
}

// ListApproved implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApproved(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Leave, error) {
	query := `SELECT ` + leaveColumns + leaveFrom() + `
		WHERE l.employee_id = $1
		  AND l.status = $2
		  AND l.start_date <= $4
		  AND l.end_date >= $3
		ORDER BY l.start_date`

	return r.query(ctx, query, employeeID, leave.StatusApproved, from, to)
}

// Delete implements leave.LeaveRepository. Approved leaves are never removed,
// even when the approval commits after the caller read the row.
func (r *leaveRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leaves WHERE id = $1 AND status <> $2`, id, leave.StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to delete leave: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leaves WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check leave: %w", err)
	}
	if exists {
		return leave.ErrCannotDeleteApproved
	}
	return leave.ErrLeaveNotFound
}
