package user

type Permission string

const (
	// Self service
	PermissionViewOwnProfile  Permission = "profile.view_own"
	PermissionAttendanceClock Permission = "attendance.clock"
	PermissionLeaveRequest    Permission = "leave.request"
	PermissionPayrollViewOwn  Permission = "payroll.view_own"
	PermissionReviewViewOwn   Permission = "review.view_own"
	PermissionDocumentViewOwn Permission = "document.view_own"

	// Organisation structure
	PermissionDepartmentManage Permission = "department.manage"
	PermissionEmployeeViewAll  Permission = "employee.view_all"
	PermissionEmployeeManage   Permission = "employee.manage"

	// Attendance Management
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Leave Management
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveManage  Permission = "leave.manage"
	PermissionLeaveApprove Permission = "leave.approve"

	// Payroll
	PermissionPayrollViewAll Permission = "payroll.view_all"
	PermissionPayrollManage  Permission = "payroll.manage"

	// Performance reviews
	PermissionReviewViewAll Permission = "review.view_all"
	PermissionReviewManage  Permission = "review.manage"

	// Documents
	PermissionDocumentManage Permission = "document.manage"

	// Reports
	PermissionDashboardView Permission = "dashboard.view"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

var selfService = []Permission{
	PermissionViewOwnProfile,
	PermissionAttendanceClock,
	PermissionLeaveRequest,
	PermissionPayrollViewOwn,
	PermissionReviewViewOwn,
	PermissionDocumentViewOwn,
}

// RolePermissions maps roles to their permissions. SYSTEM_ADMIN is not
// listed: HasPermission grants it everything.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: append([]Permission{
		PermissionDepartmentManage,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveViewAll,
		PermissionLeaveManage,
		PermissionLeaveApprove,
		PermissionPayrollViewAll,
		PermissionPayrollManage,
		PermissionReviewViewAll,
		PermissionReviewManage,
		PermissionDocumentManage,
		PermissionDashboardView,
		PermissionUserManage,
	}, selfService...),
	RoleHR: append([]Permission{
		PermissionDepartmentManage,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveViewAll,
		PermissionLeaveManage,
		PermissionLeaveApprove,
		PermissionPayrollViewAll,
		PermissionReviewViewAll,
		PermissionReviewManage,
		PermissionDocumentManage,
		PermissionDashboardView,
	}, selfService...),
	RoleCFO: append([]Permission{
		PermissionEmployeeViewAll,
		PermissionPayrollViewAll,
		PermissionPayrollManage,
		PermissionDashboardView,
	}, selfService...),
	RoleEmployee: selfService,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	if role == RoleSystemAdmin {
		return true
	}

	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
