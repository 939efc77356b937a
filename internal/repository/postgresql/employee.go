package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.user_id, e.department_id, e.position, e.date_of_joining, e.salary, e.created_at, e.updated_at,
	u.id, u.email, u.first_name, u.last_name, u.role, d.name`

const employeeFrom = `
	FROM employees e
	JOIN users u ON u.id = e.user_id
	LEFT JOIN departments d ON d.id = e.department_id`

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		emp            employee.Employee
		userInfo       employee.UserInfo
		departmentName *string
	)
	err := row.Scan(
		&emp.ID,
		&emp.UserID,
		&emp.DepartmentID,
		&emp.Position,
		&emp.DateOfJoining,
		&emp.Salary,
		&emp.CreatedAt,
		&emp.UpdatedAt,
		&userInfo.ID,
		&userInfo.Email,
		&userInfo.FirstName,
		&userInfo.LastName,
		&userInfo.Role,
		&departmentName,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	emp.User = &userInfo
	if emp.DepartmentID != nil && departmentName != nil {
		emp.Department = &employee.DepartmentInfo{ID: *emp.DepartmentID, Name: *departmentName}
	}
	return emp, nil
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + employeeFrom + ` WHERE ` + where
	found, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if database.IsNoRows(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return found, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "e.id = $1", id)
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return r.getOne(ctx, "e.user_id = $1", userID)
}

// LockByID implements employee.EmployeeRepository. It only serialises
// writers when called inside a transaction.
func (r *employeeRepositoryImpl) LockByID(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var lockedID string
	err := q.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
	if err != nil {
		if database.IsNoRows(err) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to lock employee: %w", err)
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d OR e.position ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*)`+employeeFrom+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY u.first_name, u.last_name, e.id LIMIT $%d OFFSET $%d`,
		employeeColumns, employeeFrom, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	employees, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// FindAll implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) FindAll(ctx context.Context, scope employee.EmployeeScope) ([]employee.Employee, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if scope.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *scope.DepartmentID)
		argIdx++
	}
	if scope.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("e.id = $%d", argIdx))
		args = append(args, *scope.EmployeeID)
	}

	query := `SELECT ` + employeeColumns + employeeFrom + ` WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY e.id`
	return r.query(ctx, query, args...)
}

func (r *employeeRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		newEmployee.ID = newID()
	}

	query := `
		INSERT INTO employees (id, user_id, department_id, position, date_of_joining, salary)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.Exec(ctx, query,
		newEmployee.ID,
		newEmployee.UserID,
		newEmployee.DepartmentID,
		newEmployee.Position,
		newEmployee.DateOfJoining,
		newEmployee.Salary,
	)
	if err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return employee.Employee{}, employee.ErrUserAlreadyEmployee
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return r.GetByID(ctx, newEmployee.ID)
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			updates["department_id"] = nil
		} else {
			updates["department_id"] = *req.DepartmentID
		}
	}
	if req.Position != nil {
		updates["position"] = strings.TrimSpace(*req.Position)
	}
	if req.DateOfJoining != nil {
		joined, err := time.Parse(workday.DateLayout, *req.DateOfJoining)
		if err != nil {
			return fmt.Errorf("invalid date_of_joining: %w", err)
		}
		updates["date_of_joining"] = joined
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}

	setClauses, args := buildSetClauses(updates)
	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d", setClauses, len(args)+1)
	args = append(args, id)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
