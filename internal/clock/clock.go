// Package clock supplies the per-tick delta time the runtime consumes. The
// runtime treats dt as an opaque input, so a manual clock makes evaluation
// fully deterministic under test.
package clock

import (
	"context"
	"time"
)

// Clock yields one delta time per tick.
type Clock interface {
	// Next blocks until the next tick is due and returns the monotonic
	// delta since the previous tick. It returns the context's error when
	// the context is canceled first.
	Next(ctx context.Context) (time.Duration, error)
}

// Real is a wall-clock ticker. The reported delta is measured, not the
// nominal interval, so slow ticks are not silently compressed.
type Real struct {
	ticker *time.Ticker
	last   time.Time
}

// NewReal creates a real clock ticking at the given interval.
func NewReal(interval time.Duration) *Real {
	return &Real{
		ticker: time.NewTicker(interval),
		last:   time.Now(),
	}
}

// Next implements Clock.
func (r *Real) Next(ctx context.Context) (time.Duration, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case now := <-r.ticker.C:
		dt := now.Sub(r.last)
		r.last = now
		return dt, nil
	}
}

// Stop releases the underlying ticker.
func (r *Real) Stop() {
	r.ticker.Stop()
}

// Manual is a synthetic clock driven by explicit Step calls, for tests and
// offline evaluation.
type Manual struct {
	steps chan time.Duration
}

// NewManual creates a manual clock.
func NewManual() *Manual {
	return &Manual{steps: make(chan time.Duration, 64)}
}

// Step schedules one tick with the given delta.
func (m *Manual) Step(dt time.Duration) {
	m.steps <- dt
}

// Next implements Clock.
func (m *Manual) Next(ctx context.Context) (time.Duration, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case dt := <-m.steps:
		return dt, nil
	}
}
