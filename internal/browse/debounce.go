package browse

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid-fire triggers into a single trailing-edge fire
// per quiescence window. The callback always observes state as of the last
// trigger, never a stale snapshot: the timer is restarted on every call and
// the callback reads nothing captured at trigger time.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
	fn     func()
}

// NewDebouncer builds a gate that invokes fn after window of quiescence.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger schedules (or reschedules) the callback. Calls within the window
// restart the timer; only the most recent request survives.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Request is the backward-compatible alias for Trigger; earlier callers were
// written against it and both entry points must behave identically.
func (d *Debouncer) Request() { d.Trigger() }

// Stop cancels any pending fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush fires immediately if a trigger is pending, cancelling the timer.
// Used on teardown so a final pending apply is not silently dropped.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()
	if pending {
		d.fn()
	}
}
