package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
)

// ===== ParseSpec Tests =====

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"five_fields", "0 * * * *", false},
		{"weekday_names", "30 9 * * MON-FRI", false},
		{"with_seconds", "0 0 9 * * *", false},
		{"descriptor", "@hourly", false},
		{"every", "@every 30m", false},
		{"time_zone", "CRON_TZ=UTC 0 9 * * *", false},
		{"surrounding_space", "  @daily  ", false},
		{"empty", "", true},
		{"garbage", "every monday", true},
		{"bad_minute", "61 * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := ParseSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CategoryUser, errors.Classify(err))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, schedule)
		})
	}
}

func TestParseSpec_NextRun(t *testing.T) {
	schedule, err := ParseSpec("0 * * * *")
	require.NoError(t, err)

	from := time.Date(2020, time.December, 1, 10, 15, 0, 0, time.Local)
	assert.Equal(t, time.Date(2020, time.December, 1, 11, 0, 0, 0, time.Local), schedule.Next(from))
}

// ===== Scheduler Tests =====

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New("not a spec", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestNext(t *testing.T) {
	s, err := New("@hourly", func(context.Context) error { return nil })
	require.NoError(t, err)

	next := s.Next()
	assert.True(t, next.After(time.Now()))
	assert.True(t, next.Before(time.Now().Add(time.Hour+time.Second)))
}

func TestRunOnce(t *testing.T) {
	var calls int
	var runID string
	fail := false
	s, err := New("@hourly", func(ctx context.Context) error {
		calls++
		runID = logging.RunIDFromContext(ctx)
		if fail {
			return errors.New("toggl down")
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, s.RunOnce(context.Background()))
	stats := s.Stats()
	assert.Equal(t, 1, stats.Runs)
	assert.Equal(t, 0, stats.Failures)
	assert.NoError(t, stats.LastErr)
	assert.False(t, stats.LastRun.IsZero())
	assert.NotEmpty(t, runID)

	fail = true
	err = s.RunOnce(context.Background())
	require.Error(t, err)
	stats = s.Stats()
	assert.Equal(t, 2, stats.Runs)
	assert.Equal(t, 1, stats.Failures)
	assert.EqualError(t, stats.LastErr, "toggl down")
	assert.Equal(t, 2, calls)
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	ran := make(chan struct{}, 10)
	s, err := New("@every 1s", func(context.Context) error {
		ran <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.GreaterOrEqual(t, s.Stats().Runs, 1)
}

func TestTick_SkipsWithoutContext(t *testing.T) {
	var calls int
	s, err := New("@hourly", func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)

	s.tick()
	assert.Equal(t, 0, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.ctx = ctx
	s.tick()
	assert.Equal(t, 0, calls)
}

// ===== PIDFile Tests =====

func TestPIDFile_AcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "schedule.pid")
	p := NewPIDFile(path)
	assert.Equal(t, path, p.Path())

	require.NoError(t, p.Acquire())
	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	assert.Equal(t, os.Getpid(), p.RunningPID())

	// Re-acquiring from the same process is allowed.
	require.NoError(t, p.Acquire())

	require.NoError(t, p.Release())
	assert.NoFileExists(t, path)
	assert.Equal(t, 0, p.RunningPID())
}

func TestPIDFile_HeldByOtherProcess(t *testing.T) {
	ppid := os.Getppid()
	if !IsProcessRunning(ppid) || ppid == os.Getpid() {
		t.Skip("parent process not visible")
	}

	path := filepath.Join(t.TempDir(), "schedule.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(ppid)), 0o644))

	p := NewPIDFile(path)
	err := p.Acquire()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	// Release leaves another process's file alone.
	require.NoError(t, p.Release())
	assert.FileExists(t, path)
}

func TestPIDFile_StaleIsTakenOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.pid")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	p := NewPIDFile(path)
	assert.Equal(t, 0, p.RunningPID())
	require.NoError(t, p.Acquire())

	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestIsProcessRunning(t *testing.T) {
	assert.True(t, IsProcessRunning(os.Getpid()))
	assert.False(t, IsProcessRunning(0))
	assert.False(t, IsProcessRunning(-1))
}

func TestDefaultPIDPath(t *testing.T) {
	assert.Equal(t, "schedule.pid", filepath.Base(DefaultPIDPath()))
}
