package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var tables = []string{
	"documents",
	"performance_reviews",
	"payrolls",
	"leaves",
	"attendances",
	"employees",
	"departments",
	"refresh_tokens",
	"users",
}

// newTestDB migrates and truncates the database behind TEST_DATABASE_URL.
// Tests are skipped when it is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, dsn, "up"))

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
	return db
}

func createUser(t *testing.T, ctx context.Context, db *database.DB, email string) user.User {
	t.Helper()
	created, err := postgresql.NewUserRepository(db).Create(ctx, user.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      user.RoleEmployee,
	})
	require.NoError(t, err)
	return created
}

func createEmployee(t *testing.T, ctx context.Context, db *database.DB, joined time.Time) employee.Employee {
	t.Helper()
	u := createUser(t, ctx, db, uuid.NewString()+"@example.com")
	created, err := postgresql.NewEmployeeRepository(db).Create(ctx, employee.Employee{
		UserID:        u.ID,
		Position:      "Engineer",
		DateOfJoining: joined,
		Salary:        decimal.RequireFromString("5000000"),
	})
	require.NoError(t, err)
	return created
}
