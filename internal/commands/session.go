package commands

import (
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/vitaminmoo/lsbeacon/internal/ble"
	"github.com/vitaminmoo/lsbeacon/internal/broadcast"
	"github.com/vitaminmoo/lsbeacon/internal/config"
	"github.com/vitaminmoo/lsbeacon/internal/engine"
)

// Session is an engine wired to a broadcaster and a transport.
type Session struct {
	Settings    *config.Settings
	Clock       clockwork.Clock
	Engine      *engine.Engine
	Broadcaster *broadcast.Broadcaster

	closeTransport func() error
}

// Timing converts settings into engine constants.
func Timing(s *config.Settings) engine.Timing {
	return engine.Timing{
		RepeatInterval: s.RepeatInterval,
		SelectBurst:    s.SelectBurst,
		OffBurst:       s.OffBurst,
		StopBurst:      s.StopBurst,
		OnBurstUnit:    s.OnBurstUnit,
		MaxOnBurst:     s.MaxOnBurst,
	}
}

// BroadcastOptions converts settings into broadcaster options.
func BroadcastOptions(s *config.Settings) (broadcast.Options, error) {
	mode, err := broadcast.ParseAdvertiseMode(s.AdvertiseMode)
	if err != nil {
		return broadcast.Options{}, err
	}
	power, err := broadcast.ParseTxPower(s.TxPower)
	if err != nil {
		return broadcast.Options{}, err
	}
	return broadcast.Options{
		Mode:           mode,
		TxPower:        power,
		AttemptSpacing: s.AttemptSpacing,
	}, nil
}

// OpenSession opens the advertising transport (or a dry-run printer) and
// builds an engine on the real clock.
func OpenSession(s *config.Settings, dryRun bool) (*Session, error) {
	if dryRun {
		config.Debugf("Dry run, nothing is transmitted")
		return NewSession(s, NewDryRunTransport(os.Stdout), nil, clockwork.NewRealClock())
	}

	adv, err := ble.NewAdvertiser(s.Adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to open advertiser on %s: %w", s.Adapter, err)
	}
	return sessionOrClose(s, adv, adv.Close, clockwork.NewRealClock())
}

// sessionOrClose is NewSession that releases the transport when the session
// cannot be built.
func sessionOrClose(s *config.Settings, t broadcast.Transport, closeTransport func() error, clock clockwork.Clock) (*Session, error) {
	sess, err := NewSession(s, t, closeTransport, clock)
	if err != nil {
		if cerr := closeTransport(); cerr != nil {
			config.Debugf("Failed to close advertiser on %s: %v", s.Adapter, cerr)
		}
		return nil, err
	}
	return sess, nil
}

// NewSession wires an engine to t. closeTransport, if not nil, runs after the
// broadcaster has drained.
func NewSession(s *config.Settings, t broadcast.Transport, closeTransport func() error, clock clockwork.Clock) (*Session, error) {
	opts, err := BroadcastOptions(s)
	if err != nil {
		return nil, err
	}
	b := broadcast.New(t, opts)
	return &Session{
		Settings:       s,
		Clock:          clock,
		Engine:         engine.New(b, clock, Timing(s)),
		Broadcaster:    b,
		closeTransport: closeTransport,
	}, nil
}

// Close drains pending bursts and releases the transport.
func (s *Session) Close() error {
	err := s.Broadcaster.Close()
	if s.closeTransport != nil {
		if cerr := s.closeTransport(); cerr != nil && err == nil {
			err = cerr
		}
	}
	st := s.Broadcaster.Stats()
	config.Debugf("Broadcaster: %d bursts, %d attempts, %d failures, %d dropped, %d superseded",
		st.Bursts, st.Attempts, st.Failures, st.Dropped, st.Superseded)
	return err
}
