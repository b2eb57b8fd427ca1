package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vitaminmoo/lsbeacon/internal/catalog"
	"github.com/vitaminmoo/lsbeacon/internal/config"
)

// ErrDurationRange is returned for ON/OFF durations outside
// [MinDurationMs, MaxDurationMs].
var ErrDurationRange = errors.New("duration out of range")

// Emitter accepts burst decisions. It must not block.
type Emitter interface {
	Emit(index, count int)
}

// Mode is the active operating mode.
type Mode int

const (
	ModeManual Mode = iota
	ModePulse
)

func (m Mode) String() string {
	if m == ModePulse {
		return "pulse"
	}
	return "manual"
}

// Phase is the half of the pulse cycle the device is in.
type Phase int

const (
	PhaseOff Phase = iota
	PhaseOn
)

func (p Phase) String() string {
	if p == PhaseOn {
		return "on"
	}
	return "off"
}

// State is the scheduler state derived from mode and timing state.
type State int

const (
	StateIdle State = iota
	StateManual
	StatePulseOn
	StatePulseOff
)

func (s State) String() string {
	switch s {
	case StateManual:
		return "manual"
	case StatePulseOn:
		return "pulse-on"
	case StatePulseOff:
		return "pulse-off"
	}
	return "idle"
}

// PulseConfig is the pulse train setup. Durations are whole milliseconds.
type PulseConfig struct {
	Pattern int
	On      time.Duration
	Off     time.Duration
}

// Status is a read-only snapshot for display.
type Status struct {
	Mode         Mode
	State        State
	Selected     int // manual pattern, valid when HasSelection
	HasSelection bool
	Pulse        PulseConfig
	Running      bool
	Phase        Phase
}

// Engine is the command-timing scheduler. It is not safe for concurrent use:
// exactly one goroutine (the TUI update loop or a Driver) owns it.
type Engine struct {
	out    Emitter
	clock  clockwork.Clock
	timing Timing

	mode Mode

	selected    int
	hasSelected bool

	pulse    PulseConfig
	running  bool
	phase    Phase
	entering bool

	lastSwitch time.Time
	lastRepeat time.Time
}

// New creates an idle engine in manual mode with the default pulse setup.
// Zero fields in timing fall back to DefaultTiming.
func New(out Emitter, clock clockwork.Clock, timing Timing) *Engine {
	def := DefaultTiming()
	if timing.RepeatInterval <= 0 {
		timing.RepeatInterval = def.RepeatInterval
	}
	if timing.SelectBurst < 1 {
		timing.SelectBurst = def.SelectBurst
	}
	if timing.OffBurst < 1 {
		timing.OffBurst = def.OffBurst
	}
	if timing.StopBurst < 1 {
		timing.StopBurst = def.StopBurst
	}
	if timing.OnBurstUnit <= 0 {
		timing.OnBurstUnit = def.OnBurstUnit
	}
	if timing.MaxOnBurst < 1 {
		timing.MaxOnBurst = def.MaxOnBurst
	}

	return &Engine{
		out:    out,
		clock:  clock,
		timing: timing,
		mode:   ModeManual,
		pulse: PulseConfig{
			Pattern: DefaultPulsePattern,
			On:      DefaultOnMs * time.Millisecond,
			Off:     DefaultOffMs * time.Millisecond,
		},
	}
}

// Timing returns the constants the engine runs with.
func (e *Engine) Timing() Timing {
	return e.timing
}

// SelectManual switches to manual mode and holds pattern index. The pattern
// is sent immediately as a full burst and then repeated once per
// RepeatInterval. An invalid index changes nothing.
func (e *Engine) SelectManual(index int) error {
	if !catalog.Valid(index) {
		return e.invalid("select", index)
	}

	e.mode = ModeManual
	e.running = false
	e.entering = false
	e.phase = PhaseOff
	e.selected = index
	e.hasSelected = true

	config.Debugf("Manual select %d", index)
	e.out.Emit(index, e.timing.SelectBurst)
	e.lastRepeat = e.clock.Now()
	return nil
}

// SetPulsePattern sets the pattern sent at the start of every ON phase.
func (e *Engine) SetPulsePattern(index int) error {
	if !catalog.Valid(index) {
		return e.invalid("pulse pattern", index)
	}
	e.pulse.Pattern = index
	return nil
}

// SetOnDuration sets the ON phase length in milliseconds.
func (e *Engine) SetOnDuration(ms int) error {
	d, err := duration(ms)
	if err != nil {
		return err
	}
	e.pulse.On = d
	return nil
}

// SetOffDuration sets the OFF phase length in milliseconds.
func (e *Engine) SetOffDuration(ms int) error {
	d, err := duration(ms)
	if err != nil {
		return err
	}
	e.pulse.Off = d
	return nil
}

// StartPulseTrain switches to pulse mode and (re)starts the train. The next
// tick enters the ON phase without waiting out an OFF period.
func (e *Engine) StartPulseTrain() {
	e.mode = ModePulse
	e.hasSelected = false
	e.running = true
	e.phase = PhaseOff
	e.entering = true
	config.Debugf("Pulse train start: pattern %d on %s off %s", e.pulse.Pattern, e.pulse.On, e.pulse.Off)
}

// StopPulseTrain stops whatever is running and sends the STOP burst. Every
// call sends the burst, even when already idle.
func (e *Engine) StopPulseTrain() {
	e.stop("pulse train stop")
}

// EmergencyStop sends the STOP burst and returns the engine to idle from any
// state.
func (e *Engine) EmergencyStop() {
	e.stop("emergency stop")
}

// SwitchMode changes the operating mode without starting anything. If the
// mode being left was active, the device is stopped.
func (e *Engine) SwitchMode(m Mode) {
	if m == e.mode {
		return
	}
	wasActive := e.running || e.hasSelected
	e.mode = m
	if wasActive {
		e.stop("mode switch to " + m.String())
	}
}

// Tick evaluates the scheduler once and reports whether a burst was emitted.
// At most one transition happens per tick.
func (e *Engine) Tick() bool {
	now := e.clock.Now()

	switch {
	case e.mode == ModePulse && e.running:
		period := e.pulse.Off
		if e.phase == PhaseOn {
			period = e.pulse.On
		}
		if !e.entering && now.Sub(e.lastSwitch) < period {
			return false
		}
		e.entering = false
		e.lastSwitch = now
		e.lastRepeat = now

		if e.phase == PhaseOff {
			e.phase = PhaseOn
			e.out.Emit(e.pulse.Pattern, e.timing.OnBurst(e.pulse.On))
		} else {
			e.phase = PhaseOff
			e.out.Emit(catalog.StopIndex, e.timing.OffBurst)
		}
		return true

	case e.mode == ModeManual && e.hasSelected:
		if now.Sub(e.lastRepeat) < e.timing.RepeatInterval {
			return false
		}
		e.out.Emit(e.selected, 1)
		e.lastRepeat = now
		return true
	}
	return false
}

// State returns the current scheduler state.
func (e *Engine) State() State {
	switch {
	case e.mode == ModePulse && e.running:
		if e.phase == PhaseOn {
			return StatePulseOn
		}
		return StatePulseOff
	case e.mode == ModeManual && e.hasSelected:
		return StateManual
	}
	return StateIdle
}

// Status returns a snapshot of the engine.
func (e *Engine) Status() Status {
	return Status{
		Mode:         e.mode,
		State:        e.State(),
		Selected:     e.selected,
		HasSelection: e.hasSelected,
		Pulse:        e.pulse,
		Running:      e.running,
		Phase:        e.phase,
	}
}

func (e *Engine) stop(reason string) {
	config.Debugf("Stop (%s)", reason)
	e.out.Emit(catalog.StopIndex, e.timing.StopBurst)
	e.hasSelected = false
	e.running = false
	e.entering = false
	e.phase = PhaseOff
}

func (e *Engine) invalid(op string, index int) error {
	_, err := catalog.Get(index)
	err = fmt.Errorf("%s: %w", op, err)
	config.Warnf("Ignoring %v", err)
	return err
}

func duration(ms int) (time.Duration, error) {
	if ms < MinDurationMs || ms > MaxDurationMs {
		return 0, fmt.Errorf("%w: %dms (want %d..%d)", ErrDurationRange, ms, MinDurationMs, MaxDurationMs)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
