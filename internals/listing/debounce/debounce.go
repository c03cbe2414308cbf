package debounce

import (
	"sync"
	"time"
)

const DefaultDelay = 300 * time.Millisecond

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Tests swap in a manual clock.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*Debouncer)

func WithScheduler(s Scheduler) Option {
	return func(d *Debouncer) { d.schedule = s }
}

// Debouncer publishes the last value set only after it has stayed unchanged
// for the delay. Every Set restarts the wait.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	schedule Scheduler
	timer    Timer
	gen      uint64
	pending  string
	settled  string
	waiting  bool
	stopped  bool
	onSettle func(string)
}

// New returns a debouncer whose settled value starts at "". onSettle may be
// nil; it runs outside the lock.
func New(delay time.Duration, onSettle func(string), opts ...Option) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer{delay: delay, schedule: realScheduler, onSettle: onSettle}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Debouncer) Set(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = v
	d.waiting = true
	d.timer = d.schedule(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// a Set after this timer was armed owns the next publish
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	d.settled = d.pending
	d.waiting = false
	d.timer = nil
	v, cb := d.settled, d.onSettle
	d.mu.Unlock()
	if cb != nil {
		cb(v)
	}
}

// Value is the last settled value.
func (d *Debouncer) Value() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Pending reports whether a value is waiting out the delay.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.waiting
}

// Flush publishes the pending value now.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if !d.waiting || d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.mu.Unlock()
	d.fire(gen)
}

// Stop cancels any pending publish. Later Sets are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.waiting = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
