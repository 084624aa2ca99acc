// Package schedule runs a function at a fixed period on the caller's event
// loop until the returned task is cancelled.
package schedule

import (
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"k8s.io/utils/clock"
)

// Dispatcher hands fn to the event loop that owns the task's state.
type Dispatcher func(fn func())

// Immediate runs fn on the ticker goroutine. Only for callers with their
// own locking.
func Immediate(fn func()) { fn() }

type Task struct {
	ticker    clock.Ticker
	stop      chan struct{}
	done      chan struct{}
	once      sync.Once
	cancelled atomic.Bool
}

// Every starts a repeating task. The ticker exists when Every returns, so a
// fake clock may be stepped right away.
func Every(clk clock.WithTicker, interval time.Duration, dispatch Dispatcher, fn func()) (*Task, error) {
	if interval <= 0 {
		return nil, errors.New().WithData(ErrInvalidInterval, interval)
	}

	t := &Task{
		ticker: clk.NewTicker(interval),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go t.run(dispatch, fn)

	return t, nil
}

func (t *Task) run(dispatch Dispatcher, fn func()) {
	defer close(t.done)
	defer t.ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C():
			dispatch(func() {
				if !t.cancelled.Load() {
					fn()
				}
			})
		}
	}
}

// Cancel stops the task. Ticks already handed to the dispatcher become
// no-ops. Safe to call more than once and from the event loop itself.
func (t *Task) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		close(t.stop)
	})
}

// Cancelled reports whether Cancel has been called.
func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}

// Done is closed once the ticker goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
