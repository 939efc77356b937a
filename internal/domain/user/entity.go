package user

import "time"

type Role string

const (
	RoleSystemAdmin Role = "SYSTEM_ADMIN" // Platform operator - passes every gate
	RoleAdmin       Role = "ADMIN"        // Organisation administrator
	RoleHR          Role = "HR"           // Manages people, attendance and leave
	RoleCFO         Role = "CFO"          // Manages payroll
	RoleEmployee    Role = "EMPLOYEE"     // Regular employee
)

// ValidRoles lists every assignable role.
var ValidRoles = []string{
	string(RoleSystemAdmin),
	string(RoleAdmin),
	string(RoleHR),
	string(RoleCFO),
	string(RoleEmployee),
}

type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeID *string
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsSystemAdmin checks if user operates the platform
func (u *User) IsSystemAdmin() bool {
	return u.Role == RoleSystemAdmin
}

// CanApprove checks if user can decide leave requests
func (u *User) CanApprove() bool {
	return HasPermission(u.Role, PermissionLeaveApprove)
}
