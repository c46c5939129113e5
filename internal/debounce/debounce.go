// Package debounce coalesces bursts of calls into a single trailing call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs fn once after the last Trigger of a burst has been quiet
// for the configured delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels a pending call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Func returns a debounced wrapper that calls fn with the latest argument.
func Func[T any](delay time.Duration, fn func(T)) func(T) {
	var (
		mu     sync.Mutex
		latest T
	)
	d := New(delay, func() {
		mu.Lock()
		v := latest
		mu.Unlock()
		fn(v)
	})
	return func(v T) {
		mu.Lock()
		latest = v
		mu.Unlock()
		d.Trigger()
	}
}
