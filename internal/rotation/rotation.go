// Package rotation runs the periodic image swap of a gallery view.
package rotation

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultInterval is the hold time of each image before the next swap.
	DefaultInterval = 10 * time.Second
)

// Rotator owns the ticker goroutine that drives rotation and the handle that cancels it.
type Rotator struct {
	mu       sync.Mutex
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRotator creates a stopped Rotator.
// Interval is the time between ticks; non-positive values select DefaultInterval.
func NewRotator(interval time.Duration) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator{interval: interval}
}

// Start launches the ticker. tick runs once per interval on the rotator's
// goroutine until Stop is called or ctx is done. Start returns false if the
// rotator is already running.
func (r *Rotator) Start(ctx context.Context, tick func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// A tick can race with cancellation; never act after Stop.
				if ctx.Err() != nil {
					return
				}
				tick()
			}
		}
	}()
	return true
}

// Stop cancels the ticker and waits for its goroutine to exit. It is safe to
// call on a stopped rotator and more than once. It must not be called from tick.
func (r *Rotator) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the ticker goroutine is active.
func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Interval returns the configured rotation interval.
func (r *Rotator) Interval() time.Duration {
	return r.interval
}
