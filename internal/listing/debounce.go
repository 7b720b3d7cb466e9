package listing

import (
	"sync"
	"time"
)

// DefaultDebounce is how long a search box stays quiet before its
// value is sent to the server.
const DefaultDebounce = 500 * time.Millisecond

type timer interface {
	Stop() bool
}

// Debouncer collapses a burst of value changes into a single callback
// carrying the final value.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	after func(time.Duration, func()) timer
	timer timer
	fire  func(string)
}

// NewDebouncer calls fire with the settled value after delay of
// silence. A non-positive delay falls back to DefaultDebounce.
func NewDebouncer(delay time.Duration, fire func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		delay: delay,
		fire:  fire,
		after: func(d time.Duration, fn func()) timer { return time.AfterFunc(d, fn) },
	}
}

// Trigger schedules fire for value, replacing any pending schedule.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.after(d.delay, func() {
		d.fire(value)
	})
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
