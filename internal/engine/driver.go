package engine

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

type op struct {
	fn   func(*Engine)
	done chan struct{}
}

// Driver owns an Engine on a single goroutine. It ticks the engine at a fixed
// interval and applies operations submitted with Do between ticks.
type Driver struct {
	engine   *Engine
	clock    clockwork.Clock
	interval time.Duration
	ops      chan op
}

// NewDriver creates a driver ticking e every interval on clock.
func NewDriver(e *Engine, clock clockwork.Clock, interval time.Duration) *Driver {
	return &Driver{
		engine:   e,
		clock:    clock,
		interval: interval,
		ops:      make(chan op),
	}
}

// Run ticks the engine until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	ticker := d.clock.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o := <-d.ops:
			o.fn(d.engine)
			close(o.done)
		case <-ticker.Chan():
			d.engine.Tick()
		}
	}
}

// Do applies fn to the engine on the driver goroutine and waits for it.
func (d *Driver) Do(ctx context.Context, fn func(*Engine)) error {
	o := op{fn: fn, done: make(chan struct{})}
	select {
	case d.ops <- o:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
