package user

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Role          string  `json:"role"`
	OAuthProvider *string `json:"oauth_provider,omitempty"`
	EmployeeID    *string `json:"employee_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          string(u.Role),
		OAuthProvider: u.OAuthProvider,
		EmployeeID:    u.EmployeeID,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"notblank,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Password  string `json:"password" validate:"required,min=8,max=255"`
	Role      string `json:"role" validate:"required"`
}

func (r *CreateUserRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Role != "" && !validator.IsInSlice(r.Role, ValidRoles) {
		errs.Add("role", "invalid role")
	}

	return errs.Err()
}

// UpdateUserRequest represents request to update user
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,notblank,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8,max=255"`
	Role      *string `json:"role,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Role != nil && !validator.IsInSlice(*r.Role, ValidRoles) {
		errs.Add("role", "invalid role")
	}

	return errs.Err()
}

type UserFilter struct {
	Search *string `json:"search,omitempty"`
	Role   *string `json:"role,omitempty"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

func (f *UserFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Role != nil && !validator.IsInSlice(*f.Role, ValidRoles) {
		errs.Add("role", "invalid role")
	}
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)

	return errs.Err()
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Users      []UserResponse `json:"users"`
}
