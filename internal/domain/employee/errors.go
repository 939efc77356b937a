package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrUserAlreadyEmployee = errors.New("user already has an employee profile")
	ErrInvalidSalary       = errors.New("salary must be greater than zero")
)
