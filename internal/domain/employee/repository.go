package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// LockByID takes a row lock on the employee for the rest of the transaction.
	LockByID(ctx context.Context, id string) error
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	// FindAll returns every employee matching the optional department and employee ids.
	FindAll(ctx context.Context, scope EmployeeScope) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) error
	Delete(ctx context.Context, id string) error
}

type EmployeeScope struct {
	DepartmentID *string
	EmployeeID   *string
}
