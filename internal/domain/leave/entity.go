package leave

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
)

type Type string

const (
	TypeAnnual    Type = "ANNUAL"
	TypeSick      Type = "SICK"
	TypeMaternity Type = "MATERNITY"
	TypePaternity Type = "PATERNITY"
	TypeUnpaid    Type = "UNPAID"
)

// Types lists the leave types in display order.
var Types = []Type{TypeAnnual, TypeSick, TypeMaternity, TypePaternity, TypeUnpaid}

func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Blocking reports whether a leave in this status reserves its dates.
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusApproved
}

type Leave struct {
	ID         string
	EmployeeID string
	Type       Type
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     Status
	ReviewedBy *string
	ReviewedAt *time.Time
	ReviewNote *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO / Join
	Employee *employee.Summary
}

// Days counts the weekdays the leave covers.
func (l Leave) Days() int {
	return workday.CountWeekdays(l.StartDate, l.EndDate)
}

// Overlaps reports whether l and other share at least one date.
func (l Leave) Overlaps(other Leave) bool {
	return workday.Overlaps(l.StartDate, l.EndDate, other.StartDate, other.EndDate)
}
