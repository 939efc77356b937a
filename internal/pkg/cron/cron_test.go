package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnceCallsHooks(t *testing.T) {
	s := NewScheduler()
	var ran []string
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "ok")
		return nil
	})
	s.AddJob("broken", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "broken")
		return errors.New("boom")
	})

	results := map[string]error{}
	s.OnRun(func(name string, _ time.Duration, err error) {
		results[name] = err
	})

	s.RunOnce(context.Background())

	assert.Equal(t, []string{"ok", "broken"}, ran)
	assert.Equal(t, []string{"ok", "broken"}, s.Jobs())
	assert.NoError(t, results["ok"])
	assert.EqualError(t, results["broken"], "boom")
}

func TestStartStop(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestPreviousWeekday(t *testing.T) {
	tests := []struct {
		today string
		want  string
	}{
		{"2024-03-05", "2024-03-04"}, // Tuesday -> Monday
		{"2024-03-04", "2024-03-01"}, // Monday -> Friday
		{"2024-03-03", "2024-03-01"}, // Sunday -> Friday
		{"2024-03-02", "2024-03-01"}, // Saturday -> Friday
	}
	for _, tt := range tests {
		today, err := time.Parse(workday.DateLayout, tt.today)
		require.NoError(t, err)
		assert.Equal(t, tt.want, PreviousWeekday(today).Format(workday.DateLayout), tt.today)
	}
}

type markAbsentRepo struct {
	attendance.AttendanceRepository
	date    time.Time
	clockIn time.Time
	calls   int
}

func (r *markAbsentRepo) MarkAbsent(ctx context.Context, date, clockIn time.Time) (int64, error) {
	r.calls++
	r.date = date
	r.clockIn = clockIn
	return 3, nil
}

func TestMarkAbsentEmployees(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	repo := &markAbsentRepo{}
	job, err := NewAbsenceSweep(repo, loc, "09:00")
	require.NoError(t, err)
	// Monday 2024-03-04 08:00 in UTC+7
	job.now = func() time.Time { return time.Date(2024, time.March, 4, 8, 0, 0, 0, loc) }

	require.NoError(t, job.MarkAbsentEmployees(context.Background()))

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, "2024-03-01", repo.date.Format(workday.DateLayout))
	assert.True(t, time.Date(2024, time.March, 1, 9, 0, 0, 0, loc).Equal(repo.clockIn))
}

func TestNewAbsenceSweepRejectsBadClockIn(t *testing.T) {
	_, err := NewAbsenceSweep(&markAbsentRepo{}, time.UTC, "9am")
	assert.Error(t, err)
}
