package watch

import (
	"sync"
	"time"
)

// Debouncer calls fn once after delay has passed without a new Trigger.
// Calls never overlap: triggers that fire while fn is running are coalesced
// into a single follow-up call.
type Debouncer struct {
	fn func()

	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	running bool
	pending bool
	closed  bool
	wg      sync.WaitGroup
}

// NewDebouncer creates a Debouncer for fn.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		fn:    fn,
		delay: delay,
	}
}

// SetDelay changes the quiet period used by later triggers.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.running {
		d.pending = true
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.running {
		d.pending = true
		d.mu.Unlock()
		return
	}
	d.running = true
	d.timer = nil
	d.wg.Add(1)
	d.mu.Unlock()

	d.fn()

	d.mu.Lock()
	d.running = false
	again := d.pending && !d.closed
	d.pending = false
	if again {
		d.timer = time.AfterFunc(d.delay, d.fire)
	}
	d.mu.Unlock()
	d.wg.Done()
}

// Stop cancels any pending call and waits for a running one to return.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}
