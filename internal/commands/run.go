package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vitaminmoo/lsbeacon/internal/catalog"
	"github.com/vitaminmoo/lsbeacon/internal/engine"
)

// statusInterval is how often a running command checks for state changes to
// print.
const statusInterval = 50 * time.Millisecond

// Select holds a pattern in manual mode until ctx is done or d elapses
// (d <= 0 means no limit), then sends STOP.
func Select(ctx context.Context, sess *Session, index int, d time.Duration) error {
	entry, err := catalog.Get(index)
	if err != nil {
		return err
	}
	fmt.Printf("Holding %d (%s), Ctrl+C to stop\n", entry.Index, entry.Name)
	return runEngine(ctx, sess, d, func(e *engine.Engine) error {
		return e.SelectManual(index)
	})
}

// Pulse runs a pulse train until ctx is done or d elapses, then sends STOP.
func Pulse(ctx context.Context, sess *Session, pattern, onMs, offMs int, d time.Duration) error {
	entry, err := catalog.Get(pattern)
	if err != nil {
		return err
	}
	fmt.Printf("Pulsing %d (%s) %dms on / %dms off, Ctrl+C to stop\n", entry.Index, entry.Name, onMs, offMs)
	return runEngine(ctx, sess, d, func(e *engine.Engine) error {
		if err := e.SetPulsePattern(pattern); err != nil {
			return err
		}
		if err := e.SetOnDuration(onMs); err != nil {
			return err
		}
		if err := e.SetOffDuration(offMs); err != nil {
			return err
		}
		e.StartPulseTrain()
		return nil
	})
}

// Stop sends a single emergency STOP burst.
func Stop(sess *Session) {
	sess.Engine.EmergencyStop()
	fmt.Printf("STOP queued (%d attempts)\n", sess.Engine.Timing().StopBurst)
}

// runEngine drives the session engine on its own goroutine, applies start,
// and waits. The engine always ends with an emergency stop.
func runEngine(ctx context.Context, sess *Session, d time.Duration, start func(*engine.Engine) error) error {
	driverCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	drv := engine.NewDriver(sess.Engine, sess.Clock, sess.Settings.TickInterval)
	errc := make(chan error, 1)
	go func() { errc <- drv.Run(driverCtx) }()
	defer func() {
		cancel()
		<-errc
	}()

	var (
		startErr error
		last     engine.Status
	)
	err := drv.Do(driverCtx, func(e *engine.Engine) {
		startErr = start(e)
		last = e.Status()
	})
	if err != nil {
		return err
	}
	if startErr != nil {
		return startErr
	}

	var deadline <-chan time.Time
	if d > 0 {
		timer := sess.Clock.NewTimer(d)
		defer timer.Stop()
		deadline = timer.Chan()
	}

	status := sess.Clock.NewTicker(statusInterval)
	defer status.Stop()

	printStatus(last)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline:
			break loop
		case <-status.Chan():
			var st engine.Status
			if err := drv.Do(driverCtx, func(e *engine.Engine) { st = e.Status() }); err != nil {
				return err
			}
			if st.State != last.State {
				printStatus(st)
			}
			last = st
		}
	}

	// The stop runs on the driver goroutine so it lands after the last tick.
	if err := drv.Do(driverCtx, (*engine.Engine).EmergencyStop); err != nil {
		return err
	}
	fmt.Println("Stopped")
	return nil
}

func printStatus(st engine.Status) {
	switch st.State {
	case engine.StateManual:
		fmt.Printf("  MANUAL ON  pattern %d\n", st.Selected)
	case engine.StatePulseOn:
		fmt.Printf("  PULSING    pattern %d\n", st.Pulse.Pattern)
	case engine.StatePulseOff:
		fmt.Println("  WAITING    pattern 0")
	default:
		fmt.Println("  IDLE")
	}
}
