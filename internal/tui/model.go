package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitaminmoo/lsbeacon/internal/broadcast"
	"github.com/vitaminmoo/lsbeacon/internal/catalog"
	"github.com/vitaminmoo/lsbeacon/internal/config"
	"github.com/vitaminmoo/lsbeacon/internal/engine"
	"github.com/vitaminmoo/lsbeacon/internal/logscale"
)

// View represents different screens in the TUI.
type View int

const (
	ViewManual View = iota
	ViewPulse
)

// gridColumns is the width of the manual pattern grid.
const gridColumns = 2

// pulseField is a focusable control on the pulse screen.
type pulseField int

const (
	fieldPattern pulseField = iota
	fieldOn
	fieldOff
	fieldToggle
	fieldCount
)

// Model is the main Bubbletea model for the TUI. It owns the engine: every
// engine call happens inside Update.
type Model struct {
	// State
	view   View
	cursor int // manual grid cursor
	field  pulseField
	width  int
	height int

	// Engine
	engine   *engine.Engine
	stats    func() broadcast.Stats
	interval time.Duration
	status   engine.Status

	statusMsg string
	errorMsg  string
	quitting  bool

	// Components
	on      Slider
	off     Slider
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles
}

// tickMsg drives the engine.
type tickMsg time.Time

// NewModel creates the TUI for e, ticking it every interval. stats reports
// transmit counters for the title bar.
func NewModel(e *engine.Engine, stats func() broadcast.Stats, interval time.Duration) Model {
	h := help.New()
	h.ShowAll = false // Use ShortHelp for horizontal layout

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	scale := logscale.New(engine.MinDurationMs, engine.MaxDurationMs)

	return Model{
		view:     ViewManual,
		engine:   e,
		stats:    stats,
		interval: interval,
		status:   e.Status(),
		on:       NewSlider(scale),
		off:      NewSlider(scale),
		keys:     DefaultKeyMap(),
		help:     h,
		spinner:  s,
		styles:   DefaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.interval), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		m.status = m.engine.Status()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w := msg.Width - 30
		if w < 20 {
			w = 20
		}
		if w > 60 {
			w = 60
		}
		m.on.SetWidth(w)
		m.off.SetWidth(w)
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.engine.Tick()
		m.status = m.engine.Status()
		return m, tickCmd(m.interval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.EmergencyStop()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Stop):
		m.engine.EmergencyStop()
		m.statusMsg = "STOP sent"
		return m, nil

	case key.Matches(msg, m.keys.Mode):
		if m.view == ViewManual {
			m.view = ViewPulse
			m.engine.SwitchMode(engine.ModePulse)
		} else {
			m.view = ViewManual
			m.engine.SwitchMode(engine.ModeManual)
		}
		m.statusMsg = ""
		m.errorMsg = ""
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.view = ViewPulse
		m.togglePulse()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.view == ViewManual {
		return m.handleManualKey(msg), nil
	}
	return m.handlePulseKey(msg), nil
}

func (m Model) handleManualKey(msg tea.KeyMsg) Model {
	n := catalog.Len()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor -= gridColumns
		if m.cursor < 0 {
			m.cursor += n
		}
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + gridColumns) % n
	case key.Matches(msg, m.keys.Left):
		m.cursor = (m.cursor + n - 1) % n
	case key.Matches(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % n
	case key.Matches(msg, m.keys.Select):
		if err := m.engine.SelectManual(m.cursor); err != nil {
			m.errorMsg = err.Error()
			return m
		}
		m.errorMsg = ""
		m.statusMsg = ""
	}
	return m
}

func (m Model) handlePulseKey(msg tea.KeyMsg) Model {
	var delta float64
	switch {
	case key.Matches(msg, m.keys.Up):
		m.field = (m.field + fieldCount - 1) % fieldCount
		return m
	case key.Matches(msg, m.keys.Down):
		m.field = (m.field + 1) % fieldCount
		return m
	case key.Matches(msg, m.keys.Select):
		if m.field == fieldToggle {
			m.togglePulse()
		}
		return m
	case key.Matches(msg, m.keys.Left):
		delta = -1
	case key.Matches(msg, m.keys.Right):
		delta = 1
	case key.Matches(msg, m.keys.LeftFast):
		delta = -10
	case key.Matches(msg, m.keys.RightFast):
		delta = 10
	default:
		return m
	}

	var err error
	pulse := m.engine.Status().Pulse
	switch m.field {
	case fieldPattern:
		err = m.engine.SetPulsePattern(nextPattern(pulse.Pattern, delta))
	case fieldOn:
		err = m.engine.SetOnDuration(m.on.Step(pulse.On, delta))
	case fieldOff:
		err = m.engine.SetOffDuration(m.off.Step(pulse.Off, delta))
	}
	if err != nil {
		m.errorMsg = err.Error()
	} else {
		m.errorMsg = ""
	}
	return m
}

func (m *Model) togglePulse() {
	if m.engine.Status().Running {
		m.engine.StopPulseTrain()
		m.statusMsg = "Pulse stopped"
		return
	}
	m.engine.StartPulseTrain()
	m.statusMsg = ""
	config.Debugf("Pulse started from the TUI")
}

// nextPattern moves through the non-STOP patterns, wrapping at both ends.
func nextPattern(cur int, delta float64) int {
	n := catalog.Len() - 1
	step := 1
	if delta < 0 {
		step = -1
	}
	next := cur + step
	if next < 1 {
		next = n
	}
	if next > n {
		next = 1
	}
	return next
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.view {
	case ViewManual:
		content = m.viewManual()
	case ViewPulse:
		content = m.viewPulse()
	default:
		content = "Unknown view"
	}

	// Help
	helpView := m.styles.Help.Render(m.help.View(m.keys))

	return m.styles.App.Render(
		content + "\n" + helpView,
	)
}

// renderTitleBar renders the app name, the engine state and transmit counters.
func (m Model) renderTitleBar(title string) string {
	var parts []string

	parts = append(parts, m.styles.Title.Render(title))

	switch m.status.State {
	case engine.StateManual:
		parts = append(parts, m.styles.StatusActive.Render("● MANUAL ON"))
	case engine.StatePulseOn, engine.StatePulseOff:
		parts = append(parts, m.spinner.View()+" "+m.styles.Warning.Render("PULSE RUNNING"))
	default:
		parts = append(parts, m.styles.StatusStopped.Render("○ IDLE"))
	}

	if m.stats != nil {
		st := m.stats()
		parts = append(parts,
			m.styles.StatusKey.Render("tx")+m.styles.StatusValue.Render(fmt.Sprint(st.Attempts)),
			m.styles.StatusKey.Render("fail")+m.styles.StatusValue.Render(fmt.Sprint(st.Failures)),
			m.styles.StatusKey.Render("drop")+m.styles.StatusValue.Render(fmt.Sprint(st.Dropped)),
		)
	}

	return strings.Join(parts, "  ")
}

func (m Model) renderMessages() string {
	var b strings.Builder
	if m.errorMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errorMsg))
		b.WriteString("\n")
	}
	if m.statusMsg != "" {
		b.WriteString(m.styles.Muted.Render(m.statusMsg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewManual() string {
	var b strings.Builder

	b.WriteString(m.renderTitleBar("lsbeacon"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Highlight.Render("Manual"))
	b.WriteString(m.styles.Subtitle.Render("  (tab: pulse)"))
	b.WriteString("\n\n")

	entries := catalog.All()
	for row := 0; row*gridColumns < len(entries); row++ {
		var cells []string
		for col := 0; col < gridColumns; col++ {
			i := row*gridColumns + col
			if i >= len(entries) {
				break
			}
			cells = append(cells, m.renderCell(entries[i]))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderMessages())

	return b.String()
}

func (m Model) renderCell(e catalog.Entry) string {
	held := m.status.State == engine.StateManual && m.status.Selected == e.Index
	marker := "  "
	if held {
		marker = "● "
	}
	if e.Index == m.cursor {
		marker = "> "
	}
	label := fmt.Sprintf("%s%d  %s", marker, e.Index, e.Name)

	switch {
	case e.Index == m.cursor:
		return m.styles.CellSelected.Render(label)
	case held:
		return m.styles.CellHeld.Render(label)
	}
	return m.styles.Cell.Render(label)
}

func (m Model) viewPulse() string {
	var b strings.Builder
	st := m.status

	b.WriteString(m.renderTitleBar("lsbeacon"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Highlight.Render("Pulse"))
	b.WriteString(m.styles.Subtitle.Render("  (tab: manual)"))
	b.WriteString("\n\n")

	name := ""
	if e, err := catalog.Get(st.Pulse.Pattern); err == nil {
		name = e.Name
	}
	b.WriteString(m.renderField(fieldPattern, "Pattern", fmt.Sprintf("‹ %d  %s ›", st.Pulse.Pattern, name)))
	b.WriteString(m.renderField(fieldOn, "ON", m.on.View(st.Pulse.On)))
	b.WriteString(m.renderField(fieldOff, "OFF", m.off.View(st.Pulse.Off)))
	b.WriteString("\n")

	button := m.styles.Button
	if m.field == fieldToggle {
		button = m.styles.ButtonActive
	}
	if st.Running {
		b.WriteString(button.Render("STOP"))
	} else {
		b.WriteString(button.Render("START"))
	}
	b.WriteString("  ")
	b.WriteString(m.renderPhase(st))
	b.WriteString("\n\n")
	b.WriteString(m.renderMessages())

	return b.String()
}

func (m Model) renderField(f pulseField, label, value string) string {
	prefix := "  "
	style := m.styles.Value
	if m.field == f {
		prefix = "> "
		style = m.styles.Highlight
	}
	return prefix + m.styles.Label.Render(label) + " " + style.Render(value) + "\n"
}

func (m Model) renderPhase(st engine.Status) string {
	switch st.State {
	case engine.StatePulseOn:
		return m.styles.ButtonDanger.Render("PULSING")
	case engine.StatePulseOff:
		return m.styles.Success.Render("WAITING")
	}
	return m.styles.Muted.Render("stopped")
}

// tickCmd schedules the next engine tick.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
