package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.month, p.year, p.base_salary, p.allowances, p.deductions, p.tax,
	p.net_salary, p.status, p.paid_at, p.created_at, p.updated_at, ` +
	employeeSummaryColumns

func payrollFrom() string {
	return ` FROM payrolls p` + employeeSummaryJoins("p")
}

func scanPayroll(row rowScanner) (payroll.Payroll, error) {
	var (
		p   payroll.Payroll
		sum summaryRow
	)
	dest := append([]any{
		&p.ID,
		&p.EmployeeID,
		&p.Month,
		&p.Year,
		&p.BaseSalary,
		&p.Allowances,
		&p.Deductions,
		&p.Tax,
		&p.NetSalary,
		&p.Status,
		&p.PaidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	}, sum.dest()...)
	if err := row.Scan(dest...); err != nil {
		return payroll.Payroll{}, err
	}
	p.Employee = sum.summary()
	return p, nil
}

func (r *payrollRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payrolls: %w", err)
	}
	defer rows.Close()

	payrolls := []payroll.Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, rows.Err()
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom() + ` WHERE p.id = $1`
	found, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return found, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("p.month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*)`+payrollFrom()+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY p.year DESC, p.month DESC, u.first_name, u.last_name LIMIT $%d OFFSET $%d`,
		payrollColumns, payrollFrom(), where, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	payrolls, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return payrolls, total, nil
}

// ListByPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListByPeriod(ctx context.Context, month, year int) ([]payroll.Payroll, error) {
	query := `SELECT ` + payrollColumns + payrollFrom() + `
		WHERE p.month = $1 AND p.year = $2
		ORDER BY u.first_name, u.last_name, p.id`
	return r.query(ctx, query, month, year)
}

// ExistsForPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM payrolls WHERE employee_id = $1 AND month = $2 AND year = $3)`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, month, year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payroll period: %w", err)
	}
	return exists, nil
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Create(ctx context.Context, newPayroll payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	if newPayroll.ID == "" {
		newPayroll.ID = newID()
	}

	query := `
		INSERT INTO payrolls (id, employee_id, month, year, base_salary, allowances, deductions, tax, net_salary, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.Exec(ctx, query,
		newPayroll.ID,
		newPayroll.EmployeeID,
		newPayroll.Month,
		newPayroll.Year,
		newPayroll.BaseSalary,
		newPayroll.Allowances,
		newPayroll.Deductions,
		newPayroll.Tax,
		newPayroll.NetSalary,
		newPayroll.Status,
	)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok && constraint == "uq_payrolls_employee_period" {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	return r.GetByID(ctx, newPayroll.ID)
}

// Update implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Update(ctx context.Context, p payroll.Payroll) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET base_salary = $1, allowances = $2, deductions = $3, tax = $4, net_salary = $5, updated_at = NOW()
		WHERE id = $6 AND status <> $7
	`
	tag, err := q.Exec(ctx, query, p.BaseSalary, p.Allowances, p.Deductions, p.Tax, p.NetSalary, p.ID, payroll.StatusPaid)
	if err != nil {
		return fmt.Errorf("failed to update payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollAlreadyPaid
	}
	return nil
}

// UpdateStatus implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateStatus(ctx context.Context, id string, status payroll.Status, paidAt *time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET status = $1, paid_at = $2, updated_at = NOW()
		WHERE id = $3 AND status <> $4
	`
	tag, err := q.Exec(ctx, query, status, paidAt, id, payroll.StatusPaid)
	if err != nil {
		return fmt.Errorf("failed to update payroll status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollAlreadyPaid
	}
	return nil
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payrolls WHERE id = $1 AND status <> $2`, id, payroll.StatusPaid)
	if err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollAlreadyPaid
	}
	return nil
}
