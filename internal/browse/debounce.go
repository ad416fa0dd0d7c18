package browse

import (
	"sync"
	"time"
)

// Debouncer runs the last triggered function once the input has been quiet for the window.
// Every Trigger supersedes the pending one.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	idle    *sync.Cond
	timer   *time.Timer
	seq     uint64
	pending int
}

// NewDebouncer creates a Debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	d := &Debouncer{window: window}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Trigger re-arms the timer with fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	if d.timer != nil && d.timer.Stop() {
		d.doneLocked()
	}

	d.pending++
	d.timer = time.AfterFunc(d.window, func() {
		defer d.done()

		d.mu.Lock()
		current := seq == d.seq
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Stop drops the pending trigger, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil && d.timer.Stop() {
		d.doneLocked()
	}
	d.timer = nil
}

// Wait blocks until no trigger is pending. It is safe to call while other
// goroutines keep triggering.
func (d *Debouncer) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.pending > 0 {
		d.idle.Wait()
	}
}

// Pending reports whether a trigger is waiting for its window or running.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending > 0
}

func (d *Debouncer) done() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doneLocked()
}

func (d *Debouncer) doneLocked() {
	d.pending--
	if d.pending == 0 {
		d.idle.Broadcast()
	}
}
