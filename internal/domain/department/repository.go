package department

import "context"

type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context, filter DepartmentFilter) ([]Department, int64, error)
	Create(ctx context.Context, newDepartment Department) (Department, error)
	Update(ctx context.Context, id string, req UpdateDepartmentRequest) error
	Delete(ctx context.Context, id string) error
}
