package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitaminmoo/lsbeacon/internal/commands"
	"github.com/vitaminmoo/lsbeacon/internal/config"
)

// debugLogFile receives debug output while the alt screen is up.
const debugLogFile = "lsbeacon-debug.log"

// RedirectLog sends debug and warning lines to debugLogFile while the alt
// screen is up. It is a no-op unless verbose output is on. Call restore after
// the session has been closed.
func RedirectLog() (restore func(), err error) {
	if !config.Verbose {
		return func() {}, nil
	}
	f, err := tea.LogToFile(debugLogFile, "debug")
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", debugLogFile, err)
	}
	prev := config.SetOutput(f)
	return func() {
		config.SetOutput(prev)
		f.Close()
	}, nil
}

// Run starts the TUI application on sess. The engine is stopped before Run
// returns, however the program exits.
func Run(sess *commands.Session) error {
	s := sess.Settings
	e := sess.Engine
	if err := e.SetPulsePattern(s.PulsePattern); err != nil {
		return err
	}
	if err := e.SetOnDuration(s.PulseOnMs); err != nil {
		return err
	}
	if err := e.SetOffDuration(s.PulseOffMs); err != nil {
		return err
	}

	m := NewModel(e, sess.Broadcaster.Stats, s.TickInterval)
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if fm, ok := final.(Model); !ok || !fm.quitting {
		e.EmergencyStop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}

	return nil
}
