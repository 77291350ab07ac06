package quiz_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/plantquiz/internal/quiz"
	"github.com/vytor/plantquiz/internal/testutil"
)

func TestCountdown_TicksAndExpiresOnce(t *testing.T) {
	sched := testutil.NewManualScheduler()
	fired := 0
	c := quiz.NewCountdown(3*time.Second, sched, func() { fired++ })

	assert.Equal(t, 3, c.Remaining())
	assert.Equal(t, "00:03", c.Formatted())

	c.Start()
	sched.Advance(time.Second)
	assert.Equal(t, 2, c.Remaining())
	assert.Equal(t, 1, c.Elapsed())
	assert.False(t, c.Expired())

	sched.Advance(2 * time.Second)
	assert.Equal(t, 0, c.Remaining())
	assert.True(t, c.Expired())
	assert.False(t, c.Running())
	assert.Equal(t, 1, fired)

	sched.Advance(10 * time.Second)
	assert.Equal(t, 1, fired, "expiry fires once")
	assert.Zero(t, sched.Pending())
}

func TestCountdown_DoesNotTickBeforeStart(t *testing.T) {
	sched := testutil.NewManualScheduler()
	c := quiz.NewCountdown(5*time.Second, sched, nil)

	sched.Advance(10 * time.Second)
	assert.Equal(t, 5, c.Remaining())
}

func TestCountdown_StartIsIdempotent(t *testing.T) {
	sched := testutil.NewManualScheduler()
	c := quiz.NewCountdown(5*time.Second, sched, nil)

	c.Start()
	c.Start()
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(time.Second)
	assert.Equal(t, 4, c.Remaining())
}

func TestCountdown_ResetRestoresBudget(t *testing.T) {
	sched := testutil.NewManualScheduler()
	fired := 0
	c := quiz.NewCountdown(2*time.Second, sched, func() { fired++ })

	c.Start()
	sched.Advance(2 * time.Second)
	assert.True(t, c.Expired())

	c.Reset()
	c.Reset()
	assert.Equal(t, 2, c.Remaining())
	assert.False(t, c.Expired())
	assert.False(t, c.Running())

	sched.Advance(5 * time.Second)
	assert.Equal(t, 2, c.Remaining(), "reset does not restart ticking")

	c.Start()
	sched.Advance(2 * time.Second)
	assert.Equal(t, 2, fired)
}

func TestCountdown_ResetMidRunDropsPendingTick(t *testing.T) {
	sched := testutil.NewManualScheduler()
	c := quiz.NewCountdown(10*time.Second, sched, nil)

	c.Start()
	sched.Advance(1500 * time.Millisecond)
	c.Reset()
	c.Start()
	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, 10, c.Remaining(), "the old ticker is gone")
	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, 9, c.Remaining())
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "05:00", quiz.FormatSeconds(300))
	assert.Equal(t, "01:01", quiz.FormatSeconds(61))
	assert.Equal(t, "00:00", quiz.FormatSeconds(-4))
}
