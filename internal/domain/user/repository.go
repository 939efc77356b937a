package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, id string, req UpdateUserRequest, passwordHash *string) error
	Delete(ctx context.Context, id string) error
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
}
