package ecs

import (
	"sync"
	"sync/atomic"
	"time"
)

// Driver calls a step function at a fixed rate on its own goroutine.
//
// Each iteration measures how long the step took and sleeps for the rest of
// the interval. Overruns are not compensated: a slow step delays the next one
// rather than triggering catch-up steps. The running flag is read at the top
// of every iteration, so Stop takes effect between steps, never inside one.
type Driver struct {
	interval time.Duration
	step     func() bool

	running atomic.Bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// NewDriver creates a stopped driver. step returns false to end the loop
// from inside; the driver is then stopped as if Stop had been called.
func NewDriver(interval time.Duration, step func() bool) *Driver {
	return &Driver{
		interval: interval,
		step:     step,
	}
}

// Interval returns the target time between step starts.
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// Start launches the loop. Starting a running driver is a no-op.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.CompareAndSwap(false, true) {
		return
	}
	d.wg.Add(1)
	go d.loop()
}

// Stop clears the running flag and blocks until the loop goroutine has
// exited. It must not be called from inside step.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.running.Store(false)
	d.wg.Wait()
}

// Running reports whether the loop is active.
func (d *Driver) Running() bool {
	return d.running.Load()
}

func (d *Driver) loop() {
	defer d.wg.Done()

	for d.running.Load() {
		start := time.Now()
		if !d.step() {
			d.running.Store(false)
			return
		}
		if sleep := d.interval - time.Since(start); sleep > 0 {
			time.Sleep(sleep)
		}
	}
}
