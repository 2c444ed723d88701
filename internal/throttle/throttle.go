package throttle

import (
	"sync"
	"time"
)

// Throttle limits how often a function runs. The first call in an idle period runs
// immediately; calls during the interval replace each other and only the latest runs
// when the interval ends.
type Throttle struct {
	interval time.Duration

	mu      sync.Mutex
	last    time.Time
	pending func()
	timer   *time.Timer
	stopped bool
	now     func() time.Time
}

// New returns a throttle with the given minimum spacing between runs.
func New(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, now: time.Now}
}

// Do runs fn now or schedules it as the trailing call.
func (t *Throttle) Do(fn func()) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	now := t.now()
	elapsed := now.Sub(t.last)
	if t.timer == nil && (t.last.IsZero() || elapsed >= t.interval) {
		t.last = now
		t.mu.Unlock()
		fn()
		return
	}
	t.pending = fn
	if t.timer == nil {
		wait := t.interval - elapsed
		if wait < 0 {
			wait = 0
		}
		t.timer = time.AfterFunc(wait, t.fire)
	}
	t.mu.Unlock()
}

func (t *Throttle) fire() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	t.timer = nil
	if fn != nil {
		t.last = t.now()
	}
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Pending reports whether a trailing call is waiting.
func (t *Throttle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

// Flush runs the pending call, if any, on the calling goroutine.
func (t *Throttle) Flush() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	fn := t.pending
	t.pending = nil
	if fn != nil {
		t.last = t.now()
	}
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop drops any pending call and ignores future ones.
func (t *Throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
