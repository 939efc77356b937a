package leave

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" validate:"omitempty,uuid7"`
	Type       string `json:"type" validate:"required,oneof=ANNUAL SICK MATERNITY PATERNITY UNPAID"`
	StartDate  string `json:"start_date" validate:"required,date"`
	EndDate    string `json:"end_date" validate:"required,date"`
	Reason     string `json:"reason" validate:"max=1000"`
}

// Validate checks fields; employee_id is checked by the caller because
// self-service requests fill it from the token.
func (r *CreateLeaveRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}
	if r.StartDate > r.EndDate {
		return ErrInvalidDateRange
	}
	return nil
}

type UpdateLeaveRequest struct {
	Type      *string `json:"type,omitempty" validate:"omitempty,oneof=ANNUAL SICK MATERNITY PATERNITY UNPAID"`
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,date"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

func (r *UpdateLeaveRequest) Validate() error {
	return validator.Struct(r).Err()
}

// Apply merges the patch into l, parsing dates in loc.
func (r UpdateLeaveRequest) Apply(l Leave, loc *time.Location) (Leave, error) {
	if r.Type != nil {
		l.Type = Type(*r.Type)
	}
	if r.StartDate != nil {
		start, err := time.ParseInLocation("2006-01-02", *r.StartDate, loc)
		if err != nil {
			return Leave{}, err
		}
		l.StartDate = start
	}
	if r.EndDate != nil {
		end, err := time.ParseInLocation("2006-01-02", *r.EndDate, loc)
		if err != nil {
			return Leave{}, err
		}
		l.EndDate = end
	}
	if r.Reason != nil {
		l.Reason = *r.Reason
	}
	if l.StartDate.After(l.EndDate) {
		return Leave{}, ErrInvalidDateRange
	}
	return l, nil
}

type UpdateLeaveStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

func (r *UpdateLeaveStatusRequest) Validate() error {
	return validator.Struct(r).Err()
}

type LeaveFilter struct {
	EmployeeID *string `json:"employee_id,omitempty" validate:"omitempty,uuid7"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Type       *string `json:"type,omitempty" validate:"omitempty,oneof=ANNUAL SICK MATERNITY PATERNITY UNPAID"`
	DateFrom   *string `json:"date_from,omitempty" validate:"omitempty,date"`
	DateTo     *string `json:"date_to,omitempty" validate:"omitempty,date"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *LeaveFilter) Validate() error {
	errs := validator.Struct(f)
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	return errs.Err()
}

type LeaveResponse struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employee_id"`
	Employee   *employee.Summary `json:"employee,omitempty"`
	Type       string            `json:"type"`
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	Days       int               `json:"days"`
	Reason     string            `json:"reason"`
	Status     string            `json:"status"`
	ReviewedBy *string           `json:"reviewed_by"`
	ReviewedAt *string           `json:"reviewed_at"`
	ReviewNote *string           `json:"review_note"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
}

func ToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		Employee:   l.Employee,
		Type:       string(l.Type),
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		Days:       l.Days(),
		Reason:     l.Reason,
		Status:     string(l.Status),
		ReviewedBy: l.ReviewedBy,
		ReviewNote: l.ReviewNote,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  l.UpdatedAt.Format(time.RFC3339),
	}
	if l.ReviewedAt != nil {
		reviewedAt := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Leaves     []LeaveResponse `json:"leaves"`
}

type BalanceItem struct {
	Type      string `json:"type"`
	Allocated int    `json:"allocated"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

type LeaveBalanceResponse struct {
	EmployeeID string        `json:"employee_id"`
	Year       int           `json:"year"`
	Balances   []BalanceItem `json:"balances"`
}
