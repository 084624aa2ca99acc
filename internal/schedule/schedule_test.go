package schedule_test

import (
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"codeberg.org/mutker/cpugraph/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

const interval = 1500 * time.Millisecond

// loop stands in for a host event loop: dispatched work queues up until the
// test runs it.
type loop chan func()

func (l loop) dispatch(fn func()) { l <- fn }

func (l loop) next(t *testing.T) func() {
	t.Helper()

	select {
	case fn := <-l:
		return fn
	case <-time.After(2 * time.Second):
		t.Fatal("no tick dispatched")
		return nil
	}
}

func TestEveryDispatchesOnEachPeriod(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	l := make(loop, 4)
	ticks := 0

	task, err := schedule.Every(clk, interval, l.dispatch, func() { ticks++ })
	require.NoError(t, err)
	defer task.Cancel()

	clk.Step(interval / 2)
	assert.Never(t, func() bool { return len(l) > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	clk.Step(interval / 2)
	l.next(t)()
	assert.Equal(t, 1, ticks)

	clk.Step(interval)
	l.next(t)()
	assert.Equal(t, 2, ticks)
}

func TestCancelStopsTicks(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	l := make(loop, 4)
	ticks := 0

	task, err := schedule.Every(clk, interval, l.dispatch, func() { ticks++ })
	require.NoError(t, err)

	task.Cancel()
	task.Cancel()
	assert.True(t, task.Cancelled())

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task goroutine did not exit")
	}

	clk.Step(interval)
	assert.Never(t, func() bool { return len(l) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Zero(t, ticks)
}

func TestQueuedTickAfterCancelIsNoop(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	l := make(loop, 4)
	ticks := 0

	task, err := schedule.Every(clk, interval, l.dispatch, func() { ticks++ })
	require.NoError(t, err)

	clk.Step(interval)
	queued := l.next(t)

	task.Cancel()
	queued()

	assert.Zero(t, ticks)
}

func TestImmediateDispatch(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	var ticks atomic.Int32

	task, err := schedule.Every(clk, interval, schedule.Immediate, func() { ticks.Add(1) })
	require.NoError(t, err)
	defer task.Cancel()

	clk.Step(interval)
	require.Eventually(t, func() bool { return ticks.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestInvalidInterval(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))

	for _, d := range []time.Duration{0, -time.Second} {
		task, err := schedule.Every(clk, d, schedule.Immediate, func() {})
		require.Error(t, err)
		assert.Nil(t, task)
		assert.True(t, errors.HasCode(err, schedule.ErrInvalidInterval))
	}
}
