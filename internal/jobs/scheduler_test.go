package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refresherFunc func(ctx context.Context) error

func (f refresherFunc) Refresh(ctx context.Context) error { return f(ctx) }

func TestRunRefreshAppliesTimeout(t *testing.T) {
	var deadline time.Time
	err := RunRefresh(refresherFunc(func(ctx context.Context) error {
		d, ok := ctx.Deadline()
		require.True(t, ok)
		deadline = d
		return nil
	}), time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestRunRefreshReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := RunRefresh(refresherFunc(func(context.Context) error { return boom }), time.Second)
	assert.ErrorIs(t, err, boom)
}

func TestScheduleRefreshRejectsBadSchedule(t *testing.T) {
	cfg := NewDefaultRefreshConfig()
	cfg.Schedule = "every now and then"
	_, err := ScheduleRefresh(cfg, refresherFunc(func(context.Context) error { return nil }))
	assert.Error(t, err)

	_, err = ScheduleRefresh(NewDefaultRefreshConfig(), nil)
	assert.Error(t, err)
}

func TestCronServiceReadsConfig(t *testing.T) {
	svc := NewCronService(map[string]interface{}{
		"refresh_schedule":        "0 * * * *",
		"time_zone":               "UTC",
		"refresh_timeout_seconds": 10,
	}, refresherFunc(func(context.Context) error { return nil }))
	cs := svc.(*CronService)
	cfg := cs.refreshConfig()
	assert.Equal(t, "0 * * * *", cfg.Schedule)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Equal(t, 10*time.Second, cfg.Timeout)

	require.NoError(t, svc.Start())
	require.NoError(t, svc.Stop())
}
