package search

import (
	"sync"
	"time"
)

// DefaultDelay is how long the debouncer waits after the last keystroke
// before running the query.
const DefaultDelay = 220 * time.Millisecond

// Debouncer coalesces rapid query updates so only the final one runs.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer returns a debouncer with the given delay; zero or negative
// falls back to DefaultDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the delay, cancelling any pending run.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending run.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
