package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaminmoo/lsbeacon/internal/ble"
	"github.com/vitaminmoo/lsbeacon/internal/broadcast"
	"github.com/vitaminmoo/lsbeacon/internal/catalog"
	"github.com/vitaminmoo/lsbeacon/internal/config"
	"github.com/vitaminmoo/lsbeacon/internal/engine"
)

type recordingTransport struct {
	mu      sync.Mutex
	indices []int
}

func (r *recordingTransport) Advertise(req broadcast.AdvertiseRequest) error {
	idx, ok := catalog.Lookup(req.Payload)
	if !ok {
		idx = -1
	}
	r.mu.Lock()
	r.indices = append(r.indices, idx)
	r.mu.Unlock()
	return nil
}

func (r *recordingTransport) StopAdvertising() error { return nil }

func (r *recordingTransport) sent() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.indices...)
}

func testSettings() *config.Settings {
	return &config.Settings{
		Adapter:        "hci0",
		TickInterval:   16 * time.Millisecond,
		RepeatInterval: time.Second,
		SelectBurst:    10,
		OffBurst:       10,
		StopBurst:      20,
		OnBurstUnit:    20 * time.Millisecond,
		MaxOnBurst:     10,
		AdvertiseMode:  "low-latency",
		TxPower:        "high",
	}
}

func newTestSession(t *testing.T) (*Session, *recordingTransport, *clockwork.FakeClock) {
	t.Helper()
	tr := &recordingTransport{}
	clock := clockwork.NewFakeClock()
	sess, err := NewSession(testSettings(), tr, nil, clock)
	require.NoError(t, err)
	return sess, tr, clock
}

func repeat(index, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = index
	}
	return out
}

// assertStopsAfter checks that sent is some attempts of index followed by the
// full STOP burst and nothing else. The STOP supersedes whatever part of the
// selection burst had not gone out yet.
func assertStopsAfter(t *testing.T, sent []int, index int) {
	t.Helper()
	require.GreaterOrEqual(t, len(sent), 20)
	head, tail := sent[:len(sent)-20], sent[len(sent)-20:]
	assert.Equal(t, repeat(0, 20), tail)
	for _, idx := range head {
		assert.Equal(t, index, idx)
	}
}

func cancelled() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestTiming(t *testing.T) {
	s := testSettings()
	s.StopBurst = 7
	s.OnBurstUnit = 5 * time.Millisecond

	timing := Timing(s)
	assert.Equal(t, time.Second, timing.RepeatInterval)
	assert.Equal(t, 7, timing.StopBurst)
	assert.Equal(t, 10, timing.MaxOnBurst)
	assert.Equal(t, 4, timing.OnBurst(20*time.Millisecond))
}

func TestBroadcastOptions(t *testing.T) {
	s := testSettings()
	s.AttemptSpacing = 20 * time.Millisecond

	opts, err := BroadcastOptions(s)
	require.NoError(t, err)
	assert.Equal(t, broadcast.ModeLowLatency, opts.Mode)
	assert.Equal(t, broadcast.TxPowerHigh, opts.TxPower)
	assert.Equal(t, 20*time.Millisecond, opts.AttemptSpacing)

	s.AdvertiseMode = "warp"
	_, err = BroadcastOptions(s)
	assert.Error(t, err)

	s.AdvertiseMode = "balanced"
	s.TxPower = "max"
	_, err = BroadcastOptions(s)
	assert.Error(t, err)
}

func TestSessionOrClose_LogsCloseFailure(t *testing.T) {
	var buf bytes.Buffer
	prevOut, prevVerbose := config.SetOutput(&buf), config.Verbose
	t.Cleanup(func() {
		config.SetOutput(prevOut)
		config.Verbose = prevVerbose
	})
	config.Verbose = true

	s := testSettings()
	s.AdvertiseMode = "warp"
	closed := 0
	closer := func() error {
		closed++
		return errors.New("adapter gone")
	}

	sess, err := sessionOrClose(s, &recordingTransport{}, closer, clockwork.NewFakeClock())
	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, 1, closed)
	assert.Contains(t, buf.String(), "[DEBUG] Failed to close advertiser on hci0: adapter gone")
}

func TestSessionOrClose_KeepsTransportOpen(t *testing.T) {
	closed := 0
	sess, err := sessionOrClose(testSettings(), &recordingTransport{}, func() error {
		closed++
		return nil
	}, clockwork.NewFakeClock())
	require.NoError(t, err)
	assert.Zero(t, closed)

	require.NoError(t, sess.Close())
	assert.Equal(t, 1, closed)
}

func TestDryRunTransport(t *testing.T) {
	var buf bytes.Buffer
	tr := NewDryRunTransport(&buf)

	payload, err := catalog.Resolve(0)
	require.NoError(t, err)
	require.NoError(t, tr.Advertise(broadcast.AdvertiseRequest{CompanyID: catalog.CompanyID, Payload: payload}))
	require.NoError(t, tr.StopAdvertising())

	assert.Equal(t, "[TX] FFF0 6D B6 43 CE 97 FE 42 7C E5 15 7D\n", buf.String())
}

func TestSelect_EndsWithStop(t *testing.T) {
	sess, tr, _ := newTestSession(t)

	require.NoError(t, Select(cancelled(), sess, 3, 0))
	require.NoError(t, sess.Close())

	assertStopsAfter(t, tr.sent(), 3)
}

func TestSelect_InvalidIndex(t *testing.T) {
	sess, tr, _ := newTestSession(t)

	err := Select(context.Background(), sess, 10, 0)
	require.ErrorIs(t, err, catalog.ErrInvalidIndex)
	require.NoError(t, sess.Close())
	assert.Empty(t, tr.sent())
}

func TestSelect_Deadline(t *testing.T) {
	sess, tr, clock := newTestSession(t)

	errc := make(chan error, 1)
	go func() { errc <- Select(context.Background(), sess, 5, time.Second) }()

	// driver ticker, deadline timer and status ticker
	wait, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(wait, 3))
	clock.Advance(time.Second)

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Select did not return after its deadline")
	}
	require.NoError(t, sess.Close())

	assertStopsAfter(t, tr.sent(), 5)
}

func TestPulse_EndsWithStop(t *testing.T) {
	sess, tr, _ := newTestSession(t)

	// No tick runs before the stop, so the train never leaves its entry.
	require.NoError(t, Pulse(cancelled(), sess, 4, 60, 1500, 0))
	require.NoError(t, sess.Close())
	assert.Equal(t, repeat(0, 20), tr.sent())
}

func TestPulse_InvalidArguments(t *testing.T) {
	sess, tr, _ := newTestSession(t)

	err := Pulse(context.Background(), sess, 4, 5, 1500, 0)
	require.ErrorIs(t, err, engine.ErrDurationRange)

	err = Pulse(context.Background(), sess, 4, 60, 60001, 0)
	require.ErrorIs(t, err, engine.ErrDurationRange)

	err = Pulse(context.Background(), sess, 12, 60, 1500, 0)
	require.ErrorIs(t, err, catalog.ErrInvalidIndex)

	require.NoError(t, sess.Close())
	assert.Empty(t, tr.sent())
}

func TestStop(t *testing.T) {
	sess, tr, _ := newTestSession(t)

	Stop(sess)
	require.NoError(t, sess.Close())
	assert.Equal(t, repeat(0, 20), tr.sent())
}

func TestPatterns(t *testing.T) {
	var buf bytes.Buffer
	Patterns(&buf)

	out := buf.String()
	assert.Contains(t, out, "Company ID: FFF0")
	assert.Contains(t, out, "6D B6 43 CE 97 FE 42 7C")
	assert.Contains(t, out, "STOP (All)")
	assert.Contains(t, out, "EC D4 E0")
	assert.Len(t, strings.Split(strings.TrimSuffix(out, "\n"), "\n"), 4+catalog.Len())
}

func TestDebugEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DebugEncode(&buf, testSettings(), 0))

	out := buf.String()
	assert.Contains(t, out, "Pattern:   0 (STOP (All))")
	assert.Contains(t, out, "Mode:      low-latency (100ms interval)")
	assert.Contains(t, out, "TX power:  high (1 dBm)")
	assert.Contains(t, out, "AD structure (15 bytes):")
	assert.Contains(t, out, "0000  0e ff f0 ff 6d b6 43 ce  97 fe 42 7c e5 15 7d")

	assert.ErrorIs(t, DebugEncode(&buf, testSettings(), -1), catalog.ErrInvalidIndex)
}

func TestDebugScale(t *testing.T) {
	var buf bytes.Buffer
	DebugScale(&buf, testSettings(), 10)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, []string{"0.0", "10", "1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"50.0", "775", "10"}, strings.Fields(lines[6]))
	assert.Equal(t, []string{"100.0", "60000", "10"}, strings.Fields(lines[11]))
}

func TestFormatSighting(t *testing.T) {
	payload, err := catalog.Resolve(2)
	require.NoError(t, err)

	line := formatSighting(ble.Sighting{
		At:      time.Date(2024, 1, 1, 12, 30, 5, 250_000_000, time.UTC),
		Address: "AA:BB:CC:DD:EE:FF",
		RSSI:    -61,
		Index:   2,
		Payload: payload,
	})
	assert.Contains(t, line, "12:30:05.250")
	assert.Contains(t, line, "AA:BB:CC:DD:EE:FF")
	assert.Contains(t, line, "-61 dBm")
	assert.Contains(t, line, "Speed 2 (All)")
}
