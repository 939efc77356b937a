package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	GetByID(ctx context.Context, id string) (Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)
	ListByPeriod(ctx context.Context, month, year int) ([]Payroll, error)
	ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error)
	// Create fails with ErrPayrollAlreadyExists when the period is taken.
	Create(ctx context.Context, newPayroll Payroll) (Payroll, error)
	// Update rewrites the amounts of an unpaid payroll.
	Update(ctx context.Context, p Payroll) error
	// UpdateStatus fails with ErrPayrollAlreadyPaid once the payroll is PAID.
	UpdateStatus(ctx context.Context, id string, status Status, paidAt *time.Time) error
	Delete(ctx context.Context, id string) error
}
