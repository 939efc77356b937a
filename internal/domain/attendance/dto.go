package attendance

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type ClockRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid7"`
}

func (r *ClockRequest) Validate() error {
	return validator.Struct(r).Err()
}

// CreateAttendanceRequest records attendance on behalf of an employee.
// Status is derived from clock_in when omitted.
type CreateAttendanceRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required,uuid7"`
	Date       string  `json:"date" validate:"required,date"`
	ClockIn    string  `json:"clock_in" validate:"required,datetime_rfc3339"`
	ClockOut   *string `json:"clock_out,omitempty" validate:"omitempty,datetime_rfc3339"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=PRESENT ABSENT LATE LEAVE"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (r *CreateAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}

	_, _, err := r.ClockTimes()
	return err
}

// ClockTimes parses clock_in and the optional clock_out, which must follow it.
func (r CreateAttendanceRequest) ClockTimes() (time.Time, *time.Time, error) {
	clockIn, err := ParseClockTime(r.ClockIn)
	if err != nil {
		return time.Time{}, nil, err
	}
	if r.ClockOut == nil {
		return clockIn, nil, nil
	}
	clockOut, err := ParseClockTime(*r.ClockOut)
	if err != nil {
		return time.Time{}, nil, err
	}
	if !clockOut.After(clockIn) {
		return time.Time{}, nil, ErrClockOutBeforeClockIn
	}
	return clockIn, &clockOut, nil
}

func ParseClockTime(s string) (time.Time, error) {
	t, ok := validator.IsValidDateTime(s)
	if !ok {
		return time.Time{}, ErrInvalidClockTime
	}
	return t, nil
}

type UpdateAttendanceRequest struct {
	ClockIn  *string `json:"clock_in,omitempty" validate:"omitempty,datetime_rfc3339"`
	ClockOut *string `json:"clock_out,omitempty" validate:"omitempty,datetime_rfc3339"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=PRESENT ABSENT LATE LEAVE"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	return validator.Struct(r).Err()
}

// Apply merges the patch into a and rejects a clock out that does not follow clock in.
func (r UpdateAttendanceRequest) Apply(a Attendance) (Attendance, error) {
	if r.ClockIn != nil {
		clockIn, err := ParseClockTime(*r.ClockIn)
		if err != nil {
			return Attendance{}, err
		}
		a.ClockIn = clockIn
	}
	if r.ClockOut != nil {
		clockOut, err := ParseClockTime(*r.ClockOut)
		if err != nil {
			return Attendance{}, err
		}
		a.ClockOut = &clockOut
	}
	if r.Status != nil {
		a.Status = Status(*r.Status)
	}
	if r.Notes != nil {
		a.Notes = r.Notes
	}
	if a.ClockOut != nil && !a.ClockOut.After(a.ClockIn) {
		return Attendance{}, ErrClockOutBeforeClockIn
	}
	return a, nil
}

type AttendanceFilter struct {
	EmployeeID   *string `json:"employee_id,omitempty" validate:"omitempty,uuid7"`
	DepartmentID *string `json:"department_id,omitempty" validate:"omitempty,uuid7"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=PRESENT ABSENT LATE LEAVE"`
	DateFrom     *string `json:"date_from,omitempty" validate:"omitempty,date"`
	DateTo       *string `json:"date_to,omitempty" validate:"omitempty,date"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	errs := validator.Struct(f)

	if len(errs) == 0 && f.DateFrom != nil && f.DateTo != nil && *f.DateFrom > *f.DateTo {
		errs.Add("date_to", "date_to must not be before date_from")
	}
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)

	return errs.Err()
}

type AttendanceResponse struct {
	ID          string            `json:"id"`
	EmployeeID  string            `json:"employee_id"`
	Employee    *employee.Summary `json:"employee,omitempty"`
	Date        string            `json:"date"`
	ClockIn     string            `json:"clock_in"`
	ClockOut    *string           `json:"clock_out"`
	Status      string            `json:"status"`
	WorkMinutes *int              `json:"work_minutes"`
	Notes       *string           `json:"notes"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		Employee:    a.Employee,
		Date:        a.Date.Format("2006-01-02"),
		ClockIn:     a.ClockIn.Format(time.RFC3339),
		Status:      string(a.Status),
		WorkMinutes: a.WorkMinutes(),
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ClockOut != nil {
		clockOut := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &clockOut
	}
	return resp
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}
