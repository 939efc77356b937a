package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	user.UserRepository
	postgresql.JWTRepository
}

func NewUserService(userRepository user.UserRepository, jwtRepository postgresql.JWTRepository) *UserServiceImpl {
	return &UserServiceImpl{
		UserRepository: userRepository,
		JWTRepository:  jwtRepository,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		Email:        strings.ToLower(req.Email),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: &hashed,
		Role:         user.Role(req.Role),
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(created), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}

	return user.ListUserResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Users:      responses,
	}, nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// Update implements user.UserService. A password change revokes every
// refresh token of the user.
func (s *UserServiceImpl) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	var passwordHash *string
	if req.Password != nil {
		hashed, err := hashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, err
		}
		passwordHash = &hashed
	}

	if err := s.UserRepository.Update(ctx, id, req, passwordHash); err != nil {
		return user.UserResponse{}, err
	}

	if passwordHash != nil {
		if err := s.JWTRepository.RevokeUserTokens(ctx, id); err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to revoke sessions: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	if claims, err := auth.ClaimsFromContext(ctx); err == nil && claims.UserID == id {
		return user.ErrCannotDeleteSelf
	}
	return s.UserRepository.Delete(ctx, id)
}

// EnsureSystemAdmin creates the bootstrap SYSTEM_ADMIN account unless a user
// with that email already exists.
func (s *UserServiceImpl) EnsureSystemAdmin(ctx context.Context, email, password string) error {
	_, err := s.UserRepository.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		Email:        strings.ToLower(email),
		FirstName:    "System",
		LastName:     "Admin",
		PasswordHash: &hashed,
		Role:         user.RoleSystemAdmin,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return nil
		}
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	slog.Info("bootstrap system admin created", "user_id", created.ID, "email", created.Email)
	return nil
}

var _ user.UserService = (*UserServiceImpl)(nil)
