package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/vitaminmoo/lsbeacon/internal/catalog"
	"github.com/vitaminmoo/lsbeacon/internal/config"
)

// ErrTransportFailure wraps a single failed advertising attempt.
var ErrTransportFailure = errors.New("transport failure")


// Options configures a Broadcaster.
type Options struct {
	Mode    AdvertiseMode
	TxPower TxPowerLevel

	// AttemptSpacing is the minimum gap between two attempts. Zero disables
	// pacing.
	AttemptSpacing time.Duration
}

// Stats counts what the broadcaster has done since it was created.
type Stats struct {
	Bursts     uint64 // bursts accepted by Emit
	Attempts   uint64 // transport calls made
	Failures   uint64 // transport calls that returned an error
	Dropped    uint64 // bursts dropped: invalid index or emitted after Close
	Superseded uint64 // bursts replaced or cut short by a newer Emit
}

type burst struct {
	index   int
	count   int
	payload []byte
	gen     uint64
}

// Broadcaster turns (pattern index, burst count) decisions into sequential
// transport attempts. Emit never blocks and never fails; the attempts run on
// a single worker goroutine.
//
// Only the latest decision matters to the receiver, so a new Emit replaces
// any burst still waiting and ends the running one after its current attempt.
type Broadcaster struct {
	transport Transport
	opts      Options
	limiter   *rate.Limiter
	sendMu    sync.Mutex

	mu     sync.Mutex
	next   *burst
	gen    uint64
	closed bool
	wake   chan struct{}
	done   chan struct{}

	bursts, attempts, failures, dropped, superseded atomic.Uint64
}

// New creates a Broadcaster and starts its worker. Call Close to drain it.
func New(t Transport, opts Options) *Broadcaster {
	limit := rate.Inf
	if opts.AttemptSpacing > 0 {
		limit = rate.Every(opts.AttemptSpacing)
	}

	b := &Broadcaster{
		transport: t,
		opts:      opts,
		limiter:   rate.NewLimiter(limit, 1),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go b.run()
	return b
}

// Emit schedules a burst of count attempts of the pattern at index. It
// supersedes whatever the worker has not sent yet. An invalid index is logged
// and dropped.
func (b *Broadcaster) Emit(index, count int) {
	payload, err := catalog.Resolve(index)
	if err != nil {
		config.Warnf("Dropping burst: %v", err)
		b.dropped.Add(1)
		return
	}
	if count < 1 {
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		config.Debugf("Broadcaster closed, dropping burst %dx%d", index, count)
		b.dropped.Add(1)
		return
	}
	if old := b.next; old != nil {
		b.superseded.Add(1)
		config.Debugf("Burst %dx%d superseded before it started", old.index, old.count)
	}
	b.gen++
	b.next = &burst{index: index, count: count, payload: payload, gen: b.gen}
	b.mu.Unlock()

	b.bursts.Add(1)
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Send performs a burst synchronously and returns how many attempts the
// transport accepted. It shares pacing with the worker but is never
// superseded.
func (b *Broadcaster) Send(ctx context.Context, index, count int) int {
	payload, err := catalog.Resolve(index)
	if err != nil {
		config.Warnf("Dropping burst: %v", err)
		b.dropped.Add(1)
		return 0
	}
	return b.send(ctx, burst{index: index, count: count, payload: payload}, nil)
}

// Stats returns a snapshot of the counters.
func (b *Broadcaster) Stats() Stats {
	return Stats{
		Bursts:     b.bursts.Load(),
		Attempts:   b.attempts.Load(),
		Failures:   b.failures.Load(),
		Dropped:    b.dropped.Load(),
		Superseded: b.superseded.Load(),
	}
}

// Close stops accepting bursts, waits for the last one to go out and then
// stops advertising.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	<-b.done

	if err := b.transport.StopAdvertising(); err != nil {
		return fmt.Errorf("failed to stop advertising: %w", err)
	}
	return nil
}

func (b *Broadcaster) run() {
	defer close(b.done)
	for {
		next, ok, closed := b.pop()
		if ok {
			b.send(context.Background(), next, b.outdated)
			continue
		}
		if closed {
			return
		}
		<-b.wake
	}
}

func (b *Broadcaster) pop() (burst, bool, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.next == nil {
		return burst{}, false, b.closed
	}
	next := *b.next
	b.next = nil
	return next, true, b.closed
}

// outdated reports whether Emit has been called since bu was scheduled.
func (b *Broadcaster) outdated(bu burst) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen != bu.gen
}

func (b *Broadcaster) send(ctx context.Context, bu burst, outdated func(burst) bool) int {
	req := AdvertiseRequest{
		CompanyID: catalog.CompanyID,
		Payload:   bu.payload,
		Mode:      b.opts.Mode,
		TxPower:   b.opts.TxPower,
	}

	b.sendMu.Lock()
	defer b.sendMu.Unlock()

	ok := 0
	for i := 0; i < bu.count; i++ {
		if outdated != nil && outdated(bu) {
			b.superseded.Add(1)
			config.Debugf("Burst %dx%d superseded after %d attempts", bu.index, bu.count, i)
			break
		}
		if err := b.limiter.Wait(ctx); err != nil {
			config.Debugf("Burst %dx%d cut short after %d attempts: %v", bu.index, bu.count, i, err)
			break
		}
		b.attempts.Add(1)
		if err := b.transport.Advertise(req); err != nil {
			b.failures.Add(1)
			config.Debugf("Attempt %d/%d of pattern %d: %v", i+1, bu.count, bu.index,
				fmt.Errorf("%w: %w", ErrTransportFailure, err))
			continue
		}
		ok++
	}
	config.Debugf("Burst pattern %d: %d/%d attempts accepted", bu.index, ok, bu.count)
	return ok
}
