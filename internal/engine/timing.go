package engine

import "time"

const (
	// MinDurationMs and MaxDurationMs bound the pulse ON and OFF durations.
	MinDurationMs = 10
	MaxDurationMs = 60000

	DefaultPulsePattern = 4
	DefaultOnMs         = 60
	DefaultOffMs        = 1500
)

// Timing holds the empirically chosen constants of the receiver firmware.
type Timing struct {
	// RepeatInterval is how often a held manual selection is re-sent.
	RepeatInterval time.Duration

	SelectBurst int // attempts when a manual selection is made
	OffBurst    int // attempts of STOP when a pulse turns off
	StopBurst   int // attempts of STOP on stop / emergency stop

	// The ON burst is one attempt per OnBurstUnit of ON time, capped at
	// MaxOnBurst and never below one.
	OnBurstUnit time.Duration
	MaxOnBurst  int
}

// DefaultTiming returns the reference constants.
func DefaultTiming() Timing {
	return Timing{
		RepeatInterval: time.Second,
		SelectBurst:    10,
		OffBurst:       10,
		StopBurst:      20,
		OnBurstUnit:    20 * time.Millisecond,
		MaxOnBurst:     10,
	}
}

// OnBurst returns the burst count for an ON phase lasting on.
func (t Timing) OnBurst(on time.Duration) int {
	n := int(on / t.OnBurstUnit)
	if n > t.MaxOnBurst {
		n = t.MaxOnBurst
	}
	if n < 1 {
		n = 1
	}
	return n
}
