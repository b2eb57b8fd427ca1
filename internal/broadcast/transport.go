package broadcast

import (
	"fmt"
	"strings"
	"time"
)

// AdvertiseMode selects the advertising interval. The numbering follows the
// Android advertiser the device was first driven from.
type AdvertiseMode int

const (
	ModeLowPower AdvertiseMode = iota
	ModeBalanced
	ModeLowLatency
)

// Interval returns the advertising interval for the mode.
func (m AdvertiseMode) Interval() time.Duration {
	switch m {
	case ModeLowPower:
		return 1000 * time.Millisecond
	case ModeBalanced:
		return 250 * time.Millisecond
	default:
		return 100 * time.Millisecond
	}
}

func (m AdvertiseMode) String() string {
	switch m {
	case ModeLowPower:
		return "low-power"
	case ModeBalanced:
		return "balanced"
	case ModeLowLatency:
		return "low-latency"
	}
	return fmt.Sprintf("AdvertiseMode(%d)", int(m))
}

// ParseAdvertiseMode accepts "low-power", "balanced" or "low-latency".
func ParseAdvertiseMode(s string) (AdvertiseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low-power", "lowpower", "0":
		return ModeLowPower, nil
	case "balanced", "1":
		return ModeBalanced, nil
	case "low-latency", "lowlatency", "2":
		return ModeLowLatency, nil
	}
	return 0, fmt.Errorf("unknown advertise mode %q", s)
}

// TxPowerLevel selects the transmit power.
type TxPowerLevel int

const (
	TxPowerUltraLow TxPowerLevel = iota
	TxPowerLow
	TxPowerMedium
	TxPowerHigh
)

// DBm returns the nominal transmit power for the level.
func (l TxPowerLevel) DBm() int16 {
	switch l {
	case TxPowerUltraLow:
		return -21
	case TxPowerLow:
		return -15
	case TxPowerMedium:
		return -7
	default:
		return 1
	}
}

func (l TxPowerLevel) String() string {
	switch l {
	case TxPowerUltraLow:
		return "ultra-low"
	case TxPowerLow:
		return "low"
	case TxPowerMedium:
		return "medium"
	case TxPowerHigh:
		return "high"
	}
	return fmt.Sprintf("TxPowerLevel(%d)", int(l))
}

// ParseTxPower accepts "ultra-low", "low", "medium" or "high".
func ParseTxPower(s string) (TxPowerLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ultra-low", "ultralow", "0":
		return TxPowerUltraLow, nil
	case "low", "1":
		return TxPowerLow, nil
	case "medium", "2":
		return TxPowerMedium, nil
	case "high", "3":
		return TxPowerHigh, nil
	}
	return 0, fmt.Errorf("unknown tx power level %q", s)
}

// AdvertiseRequest is one best-effort, one-shot advertisement.
type AdvertiseRequest struct {
	CompanyID uint16
	Payload   []byte
	Mode      AdvertiseMode
	TxPower   TxPowerLevel
}

// Transport puts advertisements on the air. Implementations may block for
// the duration of one attempt. The broadcaster never calls a transport from
// two goroutines at once.
type Transport interface {
	Advertise(req AdvertiseRequest) error
	StopAdvertising() error
}
