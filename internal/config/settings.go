package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Settings are the process defaults for the engine, the broadcaster and the
// advertising transport. They come from the environment (or a .env file) and
// are never written back.
type Settings struct {
	Adapter string `env:"LSB_ADAPTER" default:"hci0"`

	TickInterval   time.Duration `env:"LSB_TICK_INTERVAL" default:"16ms"`
	RepeatInterval time.Duration `env:"LSB_REPEAT_INTERVAL" default:"1s"`
	SelectBurst    int           `env:"LSB_SELECT_BURST" default:"10"`
	OffBurst       int           `env:"LSB_OFF_BURST" default:"10"`
	StopBurst      int           `env:"LSB_STOP_BURST" default:"20"`
	OnBurstUnit    time.Duration `env:"LSB_ON_BURST_UNIT" default:"20ms"`
	MaxOnBurst     int           `env:"LSB_MAX_ON_BURST" default:"10"`

	AttemptSpacing time.Duration `env:"LSB_ATTEMPT_SPACING" default:"0s"`
	AdvertiseMode  string        `env:"LSB_ADVERTISE_MODE" default:"low-latency"`
	TxPower        string        `env:"LSB_TX_POWER" default:"high"`

	PulsePattern int `env:"LSB_PULSE_PATTERN" default:"4"`
	PulseOnMs    int `env:"LSB_PULSE_ON_MS" default:"60"`
	PulseOffMs   int `env:"LSB_PULSE_OFF_MS" default:"1500"`
}

// Load reads Settings from the environment, after applying an optional .env
// file in the working directory.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		Debugf("No .env file loaded: %v", err)
	}

	var s Settings
	if err := env.Load(&s, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings the engine cannot run with.
func (s *Settings) Validate() error {
	if s.Adapter == "" {
		return errors.New("LSB_ADAPTER must not be empty")
	}
	if s.TickInterval <= 0 {
		return fmt.Errorf("LSB_TICK_INTERVAL must be positive, got %s", s.TickInterval)
	}
	if s.RepeatInterval <= 0 {
		return fmt.Errorf("LSB_REPEAT_INTERVAL must be positive, got %s", s.RepeatInterval)
	}
	if s.OnBurstUnit <= 0 {
		return fmt.Errorf("LSB_ON_BURST_UNIT must be positive, got %s", s.OnBurstUnit)
	}
	if s.AttemptSpacing < 0 {
		return fmt.Errorf("LSB_ATTEMPT_SPACING must not be negative, got %s", s.AttemptSpacing)
	}

	bursts := map[string]int{
		"LSB_SELECT_BURST": s.SelectBurst,
		"LSB_OFF_BURST":    s.OffBurst,
		"LSB_STOP_BURST":   s.StopBurst,
		"LSB_MAX_ON_BURST": s.MaxOnBurst,
	}
	for name, v := range bursts {
		if v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", name, v)
		}
	}
	return nil
}
