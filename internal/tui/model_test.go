package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaminmoo/lsbeacon/internal/broadcast"
	"github.com/vitaminmoo/lsbeacon/internal/engine"
)

type emission struct{ index, count int }

type recorder struct{ got []emission }

func (r *recorder) Emit(index, count int) {
	r.got = append(r.got, emission{index, count})
}

func (r *recorder) take() []emission {
	out := r.got
	r.got = nil
	return out
}

func newTestModel(t *testing.T) (Model, *recorder, *clockwork.FakeClock) {
	t.Helper()
	rec := &recorder{}
	clock := clockwork.NewFakeClock()
	e := engine.New(rec, clock, engine.DefaultTiming())
	stats := func() broadcast.Stats { return broadcast.Stats{Attempts: 42} }
	return NewModel(e, stats, 16*time.Millisecond), rec, clock
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter      = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab        = tea.KeyMsg{Type: tea.KeyTab}
	keyDown       = tea.KeyMsg{Type: tea.KeyDown}
	keyRight      = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft       = tea.KeyMsg{Type: tea.KeyLeft}
	keyShiftRight = tea.KeyMsg{Type: tea.KeyShiftRight}
)

func TestManualSelect(t *testing.T) {
	m, rec, _ := newTestModel(t)

	// Row 2 of the grid, second column: index 3.
	m, _ = press(t, m, keyDown, keyRight, keyEnter)
	assert.Equal(t, []emission{{3, 10}}, rec.take())
	assert.Equal(t, engine.StateManual, m.status.State)
	assert.Contains(t, m.View(), "MANUAL ON")
}

func TestManualGridWraps(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, keyLeft)
	assert.Equal(t, 9, m.cursor)
	m, _ = press(t, m, keyRight)
	assert.Equal(t, 0, m.cursor)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 8, m.cursor)
}

func TestTickDrivesEngine(t *testing.T) {
	m, rec, clock := newTestModel(t)

	m, _ = press(t, m, keyRight, keyEnter)
	rec.take()

	clock.Advance(time.Second)
	_, cmd := m.Update(tickMsg(clock.Now()))
	require.NotNil(t, cmd)
	assert.Equal(t, []emission{{1, 1}}, rec.take())
}

func TestTabSwitchesModeAndStops(t *testing.T) {
	m, rec, _ := newTestModel(t)

	m, _ = press(t, m, keyRight, keyEnter)
	rec.take()

	m, _ = press(t, m, keyTab)
	assert.Equal(t, ViewPulse, m.view)
	assert.Equal(t, []emission{{0, 20}}, rec.take())
	assert.Equal(t, engine.StateIdle, m.status.State)
	assert.Contains(t, m.View(), "START")
}

func TestPulseToggle(t *testing.T) {
	m, rec, clock := newTestModel(t)

	m, _ = press(t, m, runes("s"))
	assert.Equal(t, ViewPulse, m.view)
	assert.True(t, m.status.Running)

	// First tick enters the ON phase.
	next, _ := m.Update(tickMsg(clock.Now()))
	m = next.(Model)
	assert.Equal(t, []emission{{4, 3}}, rec.take())
	assert.Contains(t, m.View(), "PULSING")

	m, _ = press(t, m, runes("s"))
	assert.False(t, m.status.Running)
	assert.Equal(t, []emission{{0, 20}}, rec.take())
}

func TestPulseAdjust(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, keyTab)

	// Pattern wraps from 9 back to 1 and skips STOP.
	m, _ = press(t, m, keyRight)
	assert.Equal(t, 5, m.status.Pulse.Pattern)
	m, _ = press(t, m, keyLeft, keyLeft, keyLeft, keyLeft, keyLeft)
	assert.Equal(t, 9, m.status.Pulse.Pattern)

	m, _ = press(t, m, keyDown, keyRight)
	assert.Greater(t, m.status.Pulse.On, 60*time.Millisecond)

	before := m.status.Pulse.On
	m, _ = press(t, m, keyShiftRight)
	assert.Greater(t, m.status.Pulse.On, before+10*time.Millisecond)

	m, _ = press(t, m, keyDown, keyLeft)
	assert.Less(t, m.status.Pulse.Off, 1500*time.Millisecond)
}

func TestPulseDurationsClampAtEnds(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, keyTab, keyDown)

	for i := 0; i < 20; i++ {
		m, _ = press(t, m, keyShiftRight)
	}
	assert.Equal(t, engine.MaxDurationMs*time.Millisecond, m.status.Pulse.On)
	assert.Empty(t, m.errorMsg)
}

func TestEmergencyStop(t *testing.T) {
	m, rec, _ := newTestModel(t)

	m, _ = press(t, m, runes("x"))
	assert.Equal(t, []emission{{0, 20}}, rec.take())
	assert.Contains(t, m.View(), "STOP sent")
}

func TestQuitStops(t *testing.T) {
	m, rec, _ := newTestModel(t)

	m, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Equal(t, []emission{{0, 20}}, rec.take())
}

func TestTitleBarStats(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "IDLE")
	assert.Contains(t, m.View(), "42")
}

func TestFormatMs(t *testing.T) {
	assert.Equal(t, "60 ms", formatMs(60))
	assert.Equal(t, "1.50 s", formatMs(1500))
	assert.Equal(t, "60.00 s", formatMs(60000))
}
