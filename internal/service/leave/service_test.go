package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLeaveRepo struct {
	leave.LeaveRepository
	leaves map[string]leave.Leave
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id string) (leave.Leave, error) {
	l, ok := f.leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return l, nil
}

func (f *fakeLeaveRepo) Create(_ context.Context, l leave.Leave) (leave.Leave, error) {
	l.ID = uuid.Must(uuid.NewV7()).String()
	f.leaves[l.ID] = l
	return l, nil
}

func (f *fakeLeaveRepo) Update(_ context.Context, l leave.Leave) error {
	if f.leaves[l.ID].Status != leave.StatusPending {
		return leave.ErrLeaveNotPending
	}
	f.leaves[l.ID] = l
	return nil
}

func (f *fakeLeaveRepo) UpdateStatus(_ context.Context, id string, status leave.Status, reviewedBy string, note *string, reviewedAt time.Time) error {
	l := f.leaves[id]
	if l.Status != leave.StatusPending {
		return leave.ErrLeaveNotPending
	}
	l.Status = status
	l.ReviewedBy = &reviewedBy
	l.ReviewNote = note
	l.ReviewedAt = &reviewedAt
	f.leaves[id] = l
	return nil
}

func (f *fakeLeaveRepo) FindOverlapping(_ context.Context, employeeID string, start, end time.Time, excludeID *string) ([]leave.Leave, error) {
	var out []leave.Leave
	probe := leave.Leave{StartDate: start, EndDate: end}
	for _, l := range f.leaves {
		if l.EmployeeID != employeeID || !l.Status.Blocking() {
			continue
		}
		if excludeID != nil && l.ID == *excludeID {
			continue
		}
		if l.Overlaps(probe) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) ListApproved(_ context.Context, employeeID string, from, to time.Time) ([]leave.Leave, error) {
	var out []leave.Leave
	for _, l := range f.leaves {
		if l.EmployeeID == employeeID && l.Status == leave.StatusApproved && workday.Overlaps(l.StartDate, l.EndDate, from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) Delete(_ context.Context, id string) error {
	l, ok := f.leaves[id]
	if !ok {
		return leave.ErrLeaveNotFound
	}
	if l.Status == leave.StatusApproved {
		return leave.ErrCannotDeleteApproved
	}
	delete(f.leaves, id)
	return nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) LockByID(ctx context.Context, id string) error {
	_, err := f.GetByID(ctx, id)
	return err
}

type upsert struct {
	date    time.Time
	clockIn time.Time
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	upserts []upsert
}

func (f *fakeAttendanceRepo) UpsertLeave(_ context.Context, _ string, _ string, date, clockIn time.Time) error {
	f.upserts = append(f.upserts, upsert{date: date, clockIn: clockIn})
	return nil
}

type fakeMailer struct {
	sent []email.LeaveDecision
	to   []string
	err  error
}

func (f *fakeMailer) SendLeaveDecision(to string, data email.LeaveDecision) error {
	f.to = append(f.to, to)
	f.sent = append(f.sent, data)
	return f.err
}

func (f *fakeMailer) SendPayslip(string, email.Payslip) error { return nil }

type fixture struct {
	svc        *LeaveServiceImpl
	leaves     *fakeLeaveRepo
	attendance *fakeAttendanceRepo
	mailer     *fakeMailer
	employeeID string
	ctx        context.Context
}

func newFixture(t *testing.T, loc *time.Location) fixture {
	t.Helper()
	empID := uuid.Must(uuid.NewV7()).String()
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		empID: {
			ID:   empID,
			User: &employee.UserInfo{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"},
		},
	}}
	leaves := &fakeLeaveRepo{leaves: map[string]leave.Leave{}}
	att := &fakeAttendanceRepo{}
	mailer := &fakeMailer{}

	svc := NewLeaveService(passthroughTx{}, leaves, employees, att, mailer, nil, Options{
		Location:      loc,
		ClockInHour:   9,
		ClockInMinute: 0,
	})

	return fixture{
		svc:        svc,
		leaves:     leaves,
		attendance: att,
		mailer:     mailer,
		employeeID: empID,
		ctx:        claimsContext(t, empID),
	}
}

func claimsContext(t *testing.T, employeeID string) context.Context {
	t.Helper()
	jwtService, err := jwt.NewJWTService("test-secret", "1h", "24h", false)
	require.NoError(t, err)
	raw, _, err := jwtService.GenerateAccessToken(jwt.AccessClaims{
		UserID:     uuid.Must(uuid.NewV7()).String(),
		Email:      "hr@example.com",
		EmployeeID: &employeeID,
		Role:       user.RoleHR,
	})
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), raw)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func (f fixture) create(t *testing.T, start, end string) leave.LeaveResponse {
	t.Helper()
	resp, err := f.svc.Create(f.ctx, leave.CreateLeaveRequest{
		EmployeeID: f.employeeID,
		Type:       "ANNUAL",
		StartDate:  start,
		EndDate:    end,
	})
	require.NoError(t, err)
	return resp
}

func TestCreate(t *testing.T) {
	f := newFixture(t, time.UTC)

	created := f.create(t, "2024-08-05", "2024-08-07")
	assert.Equal(t, "PENDING", created.Status)
	assert.Equal(t, 3, created.Days)

	t.Run("overlap conflicts", func(t *testing.T) {
		_, err := f.svc.Create(f.ctx, leave.CreateLeaveRequest{
			EmployeeID: f.employeeID, Type: "SICK", StartDate: "2024-08-07", EndDate: "2024-08-08",
		})
		assert.ErrorIs(t, err, leave.ErrLeaveOverlap)
	})

	t.Run("adjacent range is fine", func(t *testing.T) {
		f.create(t, "2024-08-08", "2024-08-09")
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := f.svc.Create(f.ctx, leave.CreateLeaveRequest{
			EmployeeID: f.employeeID, Type: "ANNUAL", StartDate: "2024-09-10", EndDate: "2024-09-09",
		})
		assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := f.svc.Create(f.ctx, leave.CreateLeaveRequest{
			EmployeeID: uuid.Must(uuid.NewV7()).String(), Type: "ANNUAL", StartDate: "2024-09-10", EndDate: "2024-09-11",
		})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("rejected leave does not block", func(t *testing.T) {
		rejected := f.create(t, "2024-10-01", "2024-10-02")
		_, err := f.svc.UpdateStatus(f.ctx, rejected.ID, leave.UpdateLeaveStatusRequest{Status: "REJECTED"})
		require.NoError(t, err)
		f.create(t, "2024-10-01", "2024-10-02")
	})
}

func TestMyCreate_UsesTokenEmployee(t *testing.T) {
	f := newFixture(t, time.UTC)

	resp, err := f.svc.MyCreate(f.ctx, leave.CreateLeaveRequest{
		EmployeeID: uuid.Must(uuid.NewV7()).String(),
		Type:       "SICK",
		StartDate:  "2024-08-05",
		EndDate:    "2024-08-05",
	})
	require.NoError(t, err)
	assert.Equal(t, f.employeeID, resp.EmployeeID)
}

func TestUpdateStatus_ApproveBackfillsWeekdays(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	f := newFixture(t, jakarta)

	// Friday to Tuesday: the weekend in between is skipped
	created := f.create(t, "2024-08-02", "2024-08-06")
	note := "enjoy"

	resp, err := f.svc.UpdateStatus(f.ctx, created.ID, leave.UpdateLeaveStatusRequest{Status: "APPROVED", Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	assert.NotNil(t, resp.ReviewedBy)
	assert.NotNil(t, resp.ReviewedAt)

	require.Len(t, f.attendance.upserts, 3)
	var days []string
	for _, u := range f.attendance.upserts {
		days = append(days, u.date.Format(workday.DateLayout))
		assert.Equal(t, 9, u.clockIn.In(jakarta).Hour())
		assert.Equal(t, u.date.Day(), u.clockIn.In(jakarta).Day())
	}
	assert.Equal(t, []string{"2024-08-02", "2024-08-05", "2024-08-06"}, days)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ada@example.com", f.mailer.to[0])
	assert.Equal(t, "APPROVED", f.mailer.sent[0].Status)
	assert.Equal(t, 3, f.mailer.sent[0].Days)
	assert.Equal(t, "enjoy", f.mailer.sent[0].Note)

	_, err = f.svc.UpdateStatus(f.ctx, created.ID, leave.UpdateLeaveStatusRequest{Status: "REJECTED"})
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)
}

func TestUpdateStatus_RejectDoesNotTouchAttendance(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.mailer.err = errors.New("smtp down")

	created := f.create(t, "2024-08-05", "2024-08-06")
	resp, err := f.svc.UpdateStatus(f.ctx, created.ID, leave.UpdateLeaveStatusRequest{Status: "REJECTED"})
	require.NoError(t, err, "mail failure must not fail the decision")
	assert.Equal(t, "REJECTED", resp.Status)
	assert.Empty(t, f.attendance.upserts)
}

func TestUpdateStatus_InvalidTarget(t *testing.T) {
	f := newFixture(t, time.UTC)
	created := f.create(t, "2024-08-05", "2024-08-06")

	_, err := f.svc.UpdateStatus(f.ctx, created.ID, leave.UpdateLeaveStatusRequest{Status: "PENDING"})
	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t, time.UTC)
	first := f.create(t, "2024-08-05", "2024-08-06")
	second := f.create(t, "2024-08-12", "2024-08-13")

	end := "2024-08-07"
	resp, err := f.svc.Update(f.ctx, first.ID, leave.UpdateLeaveRequest{EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, "2024-08-07", resp.EndDate)

	start := "2024-08-07"
	_, err = f.svc.Update(f.ctx, second.ID, leave.UpdateLeaveRequest{StartDate: &start})
	assert.ErrorIs(t, err, leave.ErrLeaveOverlap)

	_, err = f.svc.UpdateStatus(f.ctx, first.ID, leave.UpdateLeaveStatusRequest{Status: "APPROVED"})
	require.NoError(t, err)
	_, err = f.svc.Update(f.ctx, first.ID, leave.UpdateLeaveRequest{EndDate: &end})
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, time.UTC)

	approved := f.create(t, "2024-08-05", "2024-08-06")
	_, err := f.svc.UpdateStatus(f.ctx, approved.ID, leave.UpdateLeaveStatusRequest{Status: "APPROVED"})
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Delete(f.ctx, approved.ID), leave.ErrCannotDeleteApproved)

	pending := f.create(t, "2024-09-02", "2024-09-03")
	require.NoError(t, f.svc.MyDelete(f.ctx, pending.ID))
	_, err = f.svc.GetByID(f.ctx, pending.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
}

// staleLeaveRepo serves reads from before a concurrent approval committed.
type staleLeaveRepo struct {
	*fakeLeaveRepo
}

func (r staleLeaveRepo) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	l, err := r.fakeLeaveRepo.GetByID(ctx, id)
	l.Status = leave.StatusPending
	return l, err
}

func TestDelete_ApprovedBetweenReadAndDelete(t *testing.T) {
	f := newFixture(t, time.UTC)

	created := f.create(t, "2024-08-05", "2024-08-06")
	_, err := f.svc.UpdateStatus(f.ctx, created.ID, leave.UpdateLeaveStatusRequest{Status: "APPROVED"})
	require.NoError(t, err)

	f.svc.LeaveRepository = staleLeaveRepo{f.leaves}
	assert.ErrorIs(t, f.svc.Delete(f.ctx, created.ID), leave.ErrCannotDeleteApproved)
	assert.Contains(t, f.leaves.leaves, created.ID)
}

func TestGetBalance_ClipsToYear(t *testing.T) {
	f := newFixture(t, time.UTC)

	// Monday 2024-12-30 to Friday 2025-01-03
	created := f.create(t, "2024-12-30", "2025-01-03")
	_, err := f.svc.UpdateStatus(f.ctx, created.ID, leave.UpdateLeaveStatusRequest{Status: "APPROVED"})
	require.NoError(t, err)

	balance2024, err := f.svc.GetBalance(f.ctx, f.employeeID, 2024)
	require.NoError(t, err)
	balance2025, err := f.svc.MyBalance(f.ctx, 2025)
	require.NoError(t, err)

	annual := func(b leave.LeaveBalanceResponse) leave.BalanceItem {
		for _, item := range b.Balances {
			if item.Type == "ANNUAL" {
				return item
			}
		}
		t.Fatal("ANNUAL balance missing")
		return leave.BalanceItem{}
	}

	assert.Equal(t, leave.BalanceItem{Type: "ANNUAL", Allocated: 20, Used: 2, Remaining: 18}, annual(balance2024))
	assert.Equal(t, leave.BalanceItem{Type: "ANNUAL", Allocated: 20, Used: 3, Remaining: 17}, annual(balance2025))

	_, err = f.svc.GetBalance(f.ctx, uuid.Must(uuid.NewV7()).String(), 2024)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
