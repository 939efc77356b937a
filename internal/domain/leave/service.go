package leave

import "context"

type LeaveService interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	List(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateLeaveStatusRequest) (LeaveResponse, error)
	Delete(ctx context.Context, id string) error
	GetBalance(ctx context.Context, employeeID string, year int) (LeaveBalanceResponse, error)

	MyCreate(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	MyList(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	MyDelete(ctx context.Context, id string) error
	MyBalance(ctx context.Context, year int) (LeaveBalanceResponse, error)
}
