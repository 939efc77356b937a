package user

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	u.ID = uuid.Must(uuid.NewV7()).String()
	u.CreatedAt = time.Now()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id string, req user.UpdateUserRequest, passwordHash *string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.Role != nil {
		u.Role = user.Role(*req.Role)
	}
	if passwordHash != nil {
		u.PasswordHash = passwordHash
	}
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeJWTRepo struct {
	postgresql.JWTRepository
	revokedFor []string
}

func (f *fakeJWTRepo) RevokeUserTokens(_ context.Context, userID string) error {
	f.revokedFor = append(f.revokedFor, userID)
	return nil
}

func TestEnsureSystemAdmin_Idempotent(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]user.User{}}
	svc := NewUserService(repo, &fakeJWTRepo{})
	ctx := context.Background()

	require.NoError(t, svc.EnsureSystemAdmin(ctx, "root@example.com", "change-me-now"))
	require.NoError(t, svc.EnsureSystemAdmin(ctx, "root@example.com", "change-me-now"))

	require.Len(t, repo.users, 1)
	for _, u := range repo.users {
		assert.Equal(t, user.RoleSystemAdmin, u.Role)
		require.NotNil(t, u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("change-me-now")))
	}
}

func TestUpdate_PasswordChangeRevokesSessions(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]user.User{}}
	tokens := &fakeJWTRepo{}
	svc := NewUserService(repo, tokens)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateUserRequest{
		Email: "Hr@Example.com", FirstName: "Hana", Password: "password123", Role: "HR",
	})
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", created.Email)

	name := "Hanna"
	_, err = svc.Update(ctx, created.ID, user.UpdateUserRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Empty(t, tokens.revokedFor)

	password := "new-password-1"
	updated, err := svc.Update(ctx, created.ID, user.UpdateUserRequest{Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "Hanna", updated.FirstName)
	assert.Equal(t, []string{created.ID}, tokens.revokedFor)
}

func TestDelete_CannotDeleteSelf(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]user.User{}}
	svc := NewUserService(repo, &fakeJWTRepo{})

	self, err := repo.Create(context.Background(), user.User{Email: "admin@example.com", Role: user.RoleAdmin})
	require.NoError(t, err)

	jwtService, err := jwt.NewJWTService("test-secret", "1h", "24h", false)
	require.NoError(t, err)
	raw, _, err := jwtService.GenerateAccessToken(jwt.AccessClaims{UserID: self.ID, Email: self.Email, Role: self.Role})
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), raw)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	assert.ErrorIs(t, svc.Delete(ctx, self.ID), user.ErrCannotDeleteSelf)

	other, err := repo.Create(context.Background(), user.User{Email: "emp@example.com", Role: user.RoleEmployee})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, other.ID))
	assert.ErrorIs(t, svc.Delete(ctx, other.ID), user.ErrUserNotFound)
}
