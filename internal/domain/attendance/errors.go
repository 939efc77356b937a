package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in/out errors
	ErrAlreadyClockedIn  = errors.New("employee has already clocked in today")
	ErrNotClockedIn      = errors.New("no attendance record found for today")
	ErrAlreadyClockedOut = errors.New("employee has already clocked out today")

	// General errors
	ErrAttendanceNotFound    = errors.New("attendance record not found")
	ErrAttendanceExists      = errors.New("attendance record already exists for this date")
	ErrClockOutBeforeClockIn = errors.New("clock out must be after clock in")
	ErrInvalidClockTime      = errors.New("clock time must be an RFC 3339 timestamp")
)
