package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GeneratePayrollRequest struct {
	Month        int     `json:"month" validate:"gte=1,lte=12"`
	Year         int     `json:"year" validate:"gte=2000,lte=2100"`
	DepartmentID *string `json:"department_id,omitempty" validate:"omitempty,uuid7"`
	EmployeeID   *string `json:"employee_id,omitempty" validate:"omitempty,uuid7"`
}

func (r *GeneratePayrollRequest) Validate() error {
	return validator.Struct(r).Err()
}

type GeneratePayrollResponse struct {
	Month    int               `json:"month"`
	Year     int               `json:"year"`
	Created  int               `json:"created"`
	Skipped  int               `json:"skipped"`
	Payrolls []PayrollResponse `json:"payrolls"`
}

type UpdatePayrollRequest struct {
	BaseSalary *decimal.Decimal `json:"base_salary,omitempty"`
	Allowances *decimal.Decimal `json:"allowances,omitempty"`
	Deductions *decimal.Decimal `json:"deductions,omitempty"`
	Tax        *decimal.Decimal `json:"tax,omitempty"`
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	check := func(field string, v *decimal.Decimal) {
		if v != nil && v.IsNegative() {
			errs.Add(field, fmt.Sprintf("%s must not be negative", field))
		}
	}
	check("base_salary", r.BaseSalary)
	check("allowances", r.Allowances)
	check("deductions", r.Deductions)
	check("tax", r.Tax)

	return errs.Err()
}

// Apply merges the patch into p and recomputes the net salary.
func (r UpdatePayrollRequest) Apply(p Payroll) Payroll {
	if r.BaseSalary != nil {
		p.BaseSalary = *r.BaseSalary
	}
	if r.Allowances != nil {
		p.Allowances = *r.Allowances
	}
	if r.Deductions != nil {
		p.Deductions = *r.Deductions
	}
	if r.Tax != nil {
		p.Tax = *r.Tax
	}
	p.RecomputeNet()
	return p
}

type UpdatePayrollStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT PROCESSED PAID"`
}

func (r *UpdatePayrollStatusRequest) Validate() error {
	return validator.Struct(r).Err()
}

type PayrollFilter struct {
	EmployeeID   *string `json:"employee_id,omitempty" validate:"omitempty,uuid7"`
	DepartmentID *string `json:"department_id,omitempty" validate:"omitempty,uuid7"`
	Month        *int    `json:"month,omitempty" validate:"omitempty,gte=1,lte=12"`
	Year         *int    `json:"year,omitempty" validate:"omitempty,gte=2000,lte=2100"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PROCESSED PAID"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *PayrollFilter) Validate() error {
	errs := validator.Struct(f)
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	return errs.Err()
}

type ExportPayrollRequest struct {
	Month int `json:"month" validate:"gte=1,lte=12"`
	Year  int `json:"year" validate:"gte=2000,lte=2100"`
}

func (r *ExportPayrollRequest) Validate() error {
	return validator.Struct(r).Err()
}

// ExportFile is a rendered payroll export.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

type PayrollResponse struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employee_id"`
	Employee   *employee.Summary `json:"employee,omitempty"`
	Month      int               `json:"month"`
	Year       int               `json:"year"`
	BaseSalary decimal.Decimal   `json:"base_salary"`
	Allowances decimal.Decimal   `json:"allowances"`
	Deductions decimal.Decimal   `json:"deductions"`
	Tax        decimal.Decimal   `json:"tax"`
	NetSalary  decimal.Decimal   `json:"net_salary"`
	Status     string            `json:"status"`
	PaidAt     *string           `json:"paid_at"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
}

func ToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Employee:   p.Employee,
		Month:      p.Month,
		Year:       p.Year,
		BaseSalary: p.BaseSalary,
		Allowances: p.Allowances,
		Deductions: p.Deductions,
		Tax:        p.Tax,
		NetSalary:  p.NetSalary,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
	if p.PaidAt != nil {
		paidAt := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

type ListPayrollResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Showing    string            `json:"showing"`
	Payrolls   []PayrollResponse `json:"payrolls"`
}
