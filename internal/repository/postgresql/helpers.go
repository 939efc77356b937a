package postgresql

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
	"github.com/google/uuid"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// newID returns a time-ordered UUID v7.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Columns and joins for nesting an employee summary into another resource.
// The joins expect the owning table to expose employee_id through alias.
const employeeSummaryColumns = `e.id, e.position, u.id, u.email, u.first_name, u.last_name, u.role, d.id, d.name`

func employeeSummaryJoins(alias string) string {
	return `
		JOIN employees e ON e.id = ` + alias + `.employee_id
		JOIN users u ON u.id = e.user_id
		LEFT JOIN departments d ON d.id = e.department_id`
}

type summaryRow struct {
	id, position                             string
	userID, email, firstName, lastName, role string
	departmentID, departmentName             *string
}

func (s *summaryRow) dest() []any {
	return []any{&s.id, &s.position, &s.userID, &s.email, &s.firstName, &s.lastName, &s.role, &s.departmentID, &s.departmentName}
}

func (s *summaryRow) summary() *employee.Summary {
	out := &employee.Summary{
		ID:       s.id,
		Position: s.position,
		User: &employee.UserInfo{
			ID:        s.userID,
			Email:     s.email,
			FirstName: s.firstName,
			LastName:  s.lastName,
			Role:      s.role,
		},
	}
	if s.departmentID != nil {
		out.Department = &employee.DepartmentInfo{ID: *s.departmentID, Name: *s.departmentName}
	}
	return out
}

// buildSetClauses renders "col = $n" pairs for updates, in column order, and
// always stamps updated_at. Placeholders start at $1.
func buildSetClauses(updates map[string]interface{}) (string, []interface{}) {
	cols := make([]string, 0, len(updates))
	for col := range updates {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	setClauses := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols))
	for i, col := range cols {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, updates[col])
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	return strings.Join(setClauses, ", "), args
}

// dateArg converts a validated YYYY-MM-DD filter value into a DATE argument.
func dateArg(s string) (time.Time, error) {
	d, err := time.Parse(workday.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}
