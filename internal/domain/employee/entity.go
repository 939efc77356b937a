package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID            string
	UserID        string
	DepartmentID  *string
	Position      string
	DateOfJoining time.Time
	// Salary is the pay basis payroll divides across the weekdays of a month.
	Salary    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / Join
	User       *UserInfo
	Department *DepartmentInfo
}

// JoinedBy reports whether the employee had joined on or before date.
func (e Employee) JoinedBy(date time.Time) bool {
	return !e.DateOfJoining.After(date)
}

type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func (u UserInfo) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type DepartmentInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summary is the employee shape nested in other resources.
type Summary struct {
	ID         string          `json:"id"`
	Position   string          `json:"position"`
	User       *UserInfo       `json:"user,omitempty"`
	Department *DepartmentInfo `json:"department,omitempty"`
}
