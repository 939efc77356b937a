package payroll

import "errors"

var (
	ErrPayrollNotFound      = errors.New("payroll record not found")
	ErrPayrollAlreadyExists = errors.New("payroll record already exists for this employee and period")
	ErrPayrollAlreadyPaid   = errors.New("payroll record is already paid and cannot be modified")
	ErrInvalidPayrollStatus = errors.New("invalid payroll status")
	ErrNegativeAmount       = errors.New("payroll amounts must not be negative")
)
