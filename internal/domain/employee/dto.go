package employee

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	UserID        string          `json:"user_id" validate:"required,uuid7"`
	DepartmentID  *string         `json:"department_id,omitempty" validate:"omitempty,uuid7"`
	Position      string          `json:"position" validate:"notblank,max=100"`
	DateOfJoining string          `json:"date_of_joining" validate:"required,date"`
	Salary        decimal.Decimal `json:"salary"`
}

func (r *CreateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)

	if !r.Salary.IsPositive() {
		errs.Add("salary", ErrInvalidSalary.Error())
	}

	return errs.Err()
}

// UpdateEmployeeRequest patches an employee. An empty department_id detaches
// the employee from its department.
type UpdateEmployeeRequest struct {
	DepartmentID  *string          `json:"department_id,omitempty" validate:"omitempty,uuid7"`
	Position      *string          `json:"position,omitempty" validate:"omitempty,notblank,max=100"`
	DateOfJoining *string          `json:"date_of_joining,omitempty" validate:"omitempty,date"`
	Salary        *decimal.Decimal `json:"salary,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Salary != nil && !r.Salary.IsPositive() {
		errs.Add("salary", ErrInvalidSalary.Error())
	}

	return errs.Err()
}

type EmployeeFilter struct {
	DepartmentID *string `json:"department_id,omitempty" validate:"omitempty,uuid7"`
	Search       *string `json:"search,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	errs := validator.Struct(f)
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	return errs.Err()
}

type EmployeeResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	User          *UserInfo       `json:"user,omitempty"`
	DepartmentID  *string         `json:"department_id"`
	Department    *DepartmentInfo `json:"department,omitempty"`
	Position      string          `json:"position"`
	DateOfJoining string          `json:"date_of_joining"`
	Salary        decimal.Decimal `json:"salary"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		UserID:        e.UserID,
		User:          e.User,
		DepartmentID:  e.DepartmentID,
		Department:    e.Department,
		Position:      e.Position,
		DateOfJoining: e.DateOfJoining.Format("2006-01-02"),
		Salary:        e.Salary,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
