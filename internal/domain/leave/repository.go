package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	GetByID(ctx context.Context, id string) (Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)
	Create(ctx context.Context, newLeave Leave) (Leave, error)
	// Update rewrites type, dates and reason while the leave is still pending.
	Update(ctx context.Context, l Leave) error
	// UpdateStatus moves a pending leave to status; it fails with
	// ErrLeaveNotPending when the leave was already decided.
	UpdateStatus(ctx context.Context, id string, status Status, reviewedBy string, note *string, reviewedAt time.Time) error
	// FindOverlapping returns the employee's pending or approved leaves
	// sharing a date with [start, end], excluding excludeID when set.
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) ([]Leave, error)
	ListApproved(ctx context.Context, employeeID string, from, to time.Time) ([]Leave, error)
	Delete(ctx context.Context, id string) error
}
