package payroll

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusProcessed Status = "PROCESSED"
	StatusPaid      Status = "PAID"
)

var ValidStatuses = []string{string(StatusDraft), string(StatusProcessed), string(StatusPaid)}

type Payroll struct {
	ID         string
	EmployeeID string
	Month      int
	Year       int
	BaseSalary decimal.Decimal
	Allowances decimal.Decimal
	Deductions decimal.Decimal
	Tax        decimal.Decimal
	NetSalary  decimal.Decimal
	Status     Status
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO / Join
	Employee *employee.Summary
}

// IsPaid reports whether the payroll reached its terminal status.
func (p Payroll) IsPaid() bool {
	return p.Status == StatusPaid
}

// RecomputeNet sets NetSalary = base + allowances - deductions - tax.
func (p *Payroll) RecomputeNet() {
	p.NetSalary = NetSalary(p.BaseSalary, p.Allowances, p.Deductions, p.Tax)
}

func NetSalary(base, allowances, deductions, tax decimal.Decimal) decimal.Decimal {
	return base.Add(allowances).Sub(deductions).Sub(tax)
}
