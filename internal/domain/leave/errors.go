package leave

import "errors"

var (
	ErrLeaveNotFound           = errors.New("leave request not found")
	ErrLeaveOverlap            = errors.New("leave request overlaps an existing pending or approved leave")
	ErrInvalidDateRange        = errors.New("start_date must not be after end_date")
	ErrInvalidLeaveType        = errors.New("invalid leave type")
	ErrLeaveNotPending         = errors.New("only pending leave requests can be modified")
	ErrInvalidStatusTransition = errors.New("leave status can only change from PENDING to APPROVED or REJECTED")
	ErrCannotDeleteApproved    = errors.New("approved leave requests cannot be deleted")
)
