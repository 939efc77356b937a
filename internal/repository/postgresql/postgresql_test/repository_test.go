package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_UniqueEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	created := createUser(t, ctx, db, "jane@example.com")

	found, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.Create(ctx, user.User{Email: "jane@example.com", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAttendanceRepository_OneRowPerDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)

	emp := createEmployee(t, ctx, db, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	clockIn := time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC)

	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       day,
		ClockIn:    clockIn,
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       day,
		ClockIn:    clockIn.Add(time.Hour),
		Status:     attendance.StatusLate,
	})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	require.NoError(t, repo.SetClockOut(ctx, created.ID, clockIn.Add(8*time.Hour)))
	assert.ErrorIs(t, repo.SetClockOut(ctx, created.ID, clockIn.Add(9*time.Hour)), attendance.ErrAlreadyClockedOut)

	got, err := repo.GetByEmployeeAndDate(ctx, emp.ID, day)
	require.NoError(t, err)
	require.NotNil(t, got.ClockOut)
	assert.True(t, got.ClockOut.Equal(clockIn.Add(8*time.Hour)))
}

func TestAttendanceRepository_MarkAbsentIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)

	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	clockIn := time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)

	present := createEmployee(t, ctx, db, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	missing := createEmployee(t, ctx, db, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	createEmployee(t, ctx, db, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))

	_, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: present.ID,
		Date:       day,
		ClockIn:    time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC),
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	inserted, err := repo.MarkAbsent(ctx, day, clockIn)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	inserted, err = repo.MarkAbsent(ctx, day, clockIn)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)

	got, err := repo.GetByEmployeeAndDate(ctx, missing.ID, day)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, got.Status)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)
	errBoom := errors.New("boom")

	err := postgresql.NewTransactor(db).WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, user.User{Email: "rollback@example.com", Role: user.RoleEmployee}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = repo.GetByEmail(ctx, "rollback@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestLeaveRepository_DeleteKeepsApproved(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRepository(db)

	emp := createEmployee(t, ctx, db, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	reviewer := createUser(t, ctx, db, "hr@example.com")

	newLeave := func(start, end time.Time) leave.Leave {
		created, err := repo.Create(ctx, leave.Leave{
			EmployeeID: emp.ID,
			Type:       leave.TypeAnnual,
			StartDate:  start,
			EndDate:    end,
			Reason:     "family",
			Status:     leave.StatusPending,
		})
		require.NoError(t, err)
		return created
	}

	approved := newLeave(time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC))
	pending := newLeave(time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC), time.Date(2024, 10, 8, 0, 0, 0, 0, time.UTC))

	// The caller saw PENDING before the approval landed.
	stale, err := repo.GetByID(ctx, approved.ID)
	require.NoError(t, err)
	require.Equal(t, leave.StatusPending, stale.Status)
	require.NoError(t, repo.UpdateStatus(ctx, approved.ID, leave.StatusApproved, reviewer.ID, nil, time.Now()))

	assert.ErrorIs(t, repo.Delete(ctx, approved.ID), leave.ErrCannotDeleteApproved)
	got, err := repo.GetByID(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, got.Status)

	require.NoError(t, repo.Delete(ctx, pending.ID))
	assert.ErrorIs(t, repo.Delete(ctx, pending.ID), leave.ErrLeaveNotFound)
}
