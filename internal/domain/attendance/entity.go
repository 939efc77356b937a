package attendance

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusLeave   Status = "LEAVE"
)

var ValidStatuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusLeave),
}

type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	ClockIn    time.Time
	ClockOut   *time.Time
	Status     Status
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO / Join
	Employee *employee.Summary
}

// DeriveStatus returns LATE when clockIn is at or past lateHour on its wall
// clock, PRESENT otherwise.
func DeriveStatus(clockIn time.Time, lateHour int) Status {
	if clockIn.Hour() >= lateHour {
		return StatusLate
	}
	return StatusPresent
}

// WorkMinutes is the clocked duration, nil until clock-out.
func (a Attendance) WorkMinutes() *int {
	if a.ClockOut == nil {
		return nil
	}
	minutes := int(a.ClockOut.Sub(a.ClockIn).Minutes())
	return &minutes
}
