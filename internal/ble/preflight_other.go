//go:build !linux

package ble

import (
	"fmt"

	"tinygo.org/x/bluetooth"
)

// Preflight enables the default adapter. Enabling fails when Bluetooth is
// off, so a successful return means it is powered.
func Preflight(adapterID string, powerOn bool) (*AdapterStatus, error) {
	if err := bluetooth.DefaultAdapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable Bluetooth: %w", err)
	}
	return &AdapterStatus{
		ID:                 adapterID,
		Address:            "unknown",
		Powered:            true,
		SupportedInstances: -1,
		ActiveInstances:    -1,
	}, nil
}
