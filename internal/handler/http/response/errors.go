package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/review"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

var notFoundErrors = []error{
	auth.ErrUserNotFound,
	user.ErrUserNotFound,
	employee.ErrEmployeeNotFound,
	department.ErrDepartmentNotFound,
	attendance.ErrAttendanceNotFound,
	attendance.ErrNotClockedIn,
	leave.ErrLeaveNotFound,
	payroll.ErrPayrollNotFound,
	review.ErrReviewNotFound,
	document.ErrDocumentNotFound,
}

var conflictErrors = []error{
	auth.ErrEmailAlreadyExists,
	user.ErrUserEmailExists,
	user.ErrOAuthProviderIDExists,
	employee.ErrUserAlreadyEmployee,
	department.ErrDepartmentNameExists,
	attendance.ErrAlreadyClockedIn,
	attendance.ErrAlreadyClockedOut,
	attendance.ErrAttendanceExists,
	leave.ErrLeaveOverlap,
	payroll.ErrPayrollAlreadyExists,
	review.ErrReviewExists,
}

var badRequestErrors = []error{
	employee.ErrInvalidSalary,
	attendance.ErrClockOutBeforeClockIn,
	attendance.ErrInvalidClockTime,
	leave.ErrInvalidDateRange,
	leave.ErrInvalidLeaveType,
	leave.ErrLeaveNotPending,
	leave.ErrInvalidStatusTransition,
	leave.ErrCannotDeleteApproved,
	payroll.ErrPayrollAlreadyPaid,
	payroll.ErrInvalidPayrollStatus,
	payroll.ErrNegativeAmount,
	review.ErrSelfReview,
	review.ErrRatingOutOfRange,
	review.ErrRatingsRequired,
	review.ErrReviewerRequired,
	document.ErrFileRequired,
	document.ErrFileTooLarge,
	document.ErrFileTypeNotAllowed,
	user.ErrCannotDeleteSelf,
	auth.ErrStateCookieEmpty,
	auth.ErrStateParamEmpty,
	auth.ErrStateMismatch,
	auth.ErrCodeValueEmpty,
	auth.ErrGoogleAccessDeniedByUser,
}

var unauthorizedErrors = []error{
	auth.ErrInvalidCredentials,
	auth.ErrInvalidToken,
	auth.ErrTokenExpired,
	auth.ErrRefreshTokenRevoked,
	auth.ErrRefreshTokenCookieNotFound,
	auth.ErrRefreshTokenCookieEmpty,
	auth.ErrMissingClaims,
}

var forbiddenErrors = []error{
	auth.ErrNoEmployeeProfile,
	user.ErrInsufficientPermissions,
}

func matches(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case matches(err, notFoundErrors):
		NotFound(w, err.Error())
	case matches(err, conflictErrors):
		Conflict(w, err.Error())
	case matches(err, badRequestErrors):
		BadRequest(w, err.Error(), nil)
	case matches(err, unauthorizedErrors):
		Unauthorized(w, err.Error())
	case matches(err, forbiddenErrors):
		Forbidden(w, err.Error())
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
