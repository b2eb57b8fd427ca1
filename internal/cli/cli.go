package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitaminmoo/lsbeacon/internal/commands"
	"github.com/vitaminmoo/lsbeacon/internal/config"
	"github.com/vitaminmoo/lsbeacon/internal/tui"
)

// CLI is the root command structure for lsbeacon.
type CLI struct {
	Verbose bool   `short:"v" help:"Enable verbose debug output"`
	Adapter string `help:"Bluetooth adapter (default from LSB_ADAPTER, else hci0)"`
	DryRun  bool   `name:"dry-run" help:"Print advertisements instead of transmitting"`

	// Default command - TUI
	Tui TuiCmd `cmd:"" default:"withargs" help:"Launch interactive TUI (default)"`

	Select   SelectCmd   `cmd:"" help:"Hold a pattern in manual mode"`
	Pulse    PulseCmd    `cmd:"" help:"Run a pulse train"`
	Stop     StopCmd     `cmd:"" help:"Send an emergency STOP burst"`
	Patterns PatternsCmd `cmd:"" help:"List the command catalog"`
	Monitor  MonitorCmd  `cmd:"" help:"Print catalog commands seen on the air"`
	Doctor   DoctorCmd   `cmd:"" help:"Check that the adapter can advertise"`
	Debug    DebugCmd    `cmd:"" help:"Debug and development tools"`
}

// settings applies global flags and loads the environment settings.
func (c *CLI) settings() (*config.Settings, error) {
	config.Verbose = c.Verbose
	s, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.Adapter != "" {
		s.Adapter = c.Adapter
	}
	return s, nil
}

// session opens a transport-backed engine session.
func (c *CLI) session() (*commands.Session, error) {
	s, err := c.settings()
	if err != nil {
		return nil, err
	}
	return commands.OpenSession(s, c.DryRun)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// --- TUI Command ---

type TuiCmd struct{}

func (c *TuiCmd) Run(globals *CLI) error {
	s, err := globals.settings()
	if err != nil {
		return err
	}
	// The broadcaster logs from its own goroutine, so the redirect has to
	// outlive the session.
	restore, err := tui.RedirectLog()
	if err != nil {
		return err
	}
	defer restore()

	sess, err := commands.OpenSession(s, globals.DryRun)
	if err != nil {
		return err
	}
	runErr := tui.Run(sess)
	if err := sess.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// --- Engine Commands ---

type SelectCmd struct {
	Index int           `arg:"" help:"Catalog index (0-9)"`
	For   time.Duration `help:"Stop after this long (0 runs until interrupted)"`
}

func (c *SelectCmd) Run(globals *CLI) error {
	sess, err := globals.session()
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return commands.Select(ctx, sess, c.Index, c.For)
}

type PulseCmd struct {
	Pattern *int          `help:"Catalog index to pulse (default from LSB_PULSE_PATTERN)"`
	On      *int          `help:"ON duration in ms, 10-60000 (default from LSB_PULSE_ON_MS)"`
	Off     *int          `help:"OFF duration in ms, 10-60000 (default from LSB_PULSE_OFF_MS)"`
	For     time.Duration `help:"Stop after this long (0 runs until interrupted)"`
}

func (c *PulseCmd) Run(globals *CLI) error {
	sess, err := globals.session()
	if err != nil {
		return err
	}
	defer sess.Close()

	pattern, on, off := sess.Settings.PulsePattern, sess.Settings.PulseOnMs, sess.Settings.PulseOffMs
	if c.Pattern != nil {
		pattern = *c.Pattern
	}
	if c.On != nil {
		on = *c.On
	}
	if c.Off != nil {
		off = *c.Off
	}

	ctx, cancel := signalContext()
	defer cancel()
	return commands.Pulse(ctx, sess, pattern, on, off, c.For)
}

type StopCmd struct{}

func (c *StopCmd) Run(globals *CLI) error {
	sess, err := globals.session()
	if err != nil {
		return err
	}
	commands.Stop(sess)
	return sess.Close()
}

// --- Info Commands ---

type PatternsCmd struct{}

func (c *PatternsCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	commands.Patterns(os.Stdout)
	return nil
}

type MonitorCmd struct {
	For time.Duration `help:"Stop after this long (0 runs until interrupted)"`
}

func (c *MonitorCmd) Run(globals *CLI) error {
	s, err := globals.settings()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return commands.Monitor(ctx, s.Adapter, c.For)
}

type DoctorCmd struct {
	PowerOn bool `name:"power-on" help:"Power the adapter on if it is off"`
}

func (c *DoctorCmd) Run(globals *CLI) error {
	s, err := globals.settings()
	if err != nil {
		return err
	}
	return commands.Doctor(s.Adapter, c.PowerOn)
}

// --- Debug Commands ---

type DebugCmd struct {
	Encode DebugEncodeCmd `cmd:"" help:"Show the advertisement for a catalog entry"`
	Scale  DebugScaleCmd  `cmd:"" help:"Show the duration slider scale"`
}

type DebugEncodeCmd struct {
	Index int `arg:"" help:"Catalog index (0-9)"`
}

func (c *DebugEncodeCmd) Run(globals *CLI) error {
	s, err := globals.settings()
	if err != nil {
		return err
	}
	return commands.DebugEncode(os.Stdout, s, c.Index)
}

type DebugScaleCmd struct {
	Steps int `default:"10" help:"Number of slider steps to print"`
}

func (c *DebugScaleCmd) Run(globals *CLI) error {
	s, err := globals.settings()
	if err != nil {
		return err
	}
	commands.DebugScale(os.Stdout, s, c.Steps)
	return nil
}
