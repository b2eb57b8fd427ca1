//go:build linux

package ble

import (
	"fmt"

	"github.com/vitaminmoo/lsbeacon/internal/config"
)

// Preflight inspects the BlueZ adapter and optionally powers it on.
func Preflight(adapterID string, powerOn bool) (*AdapterStatus, error) {
	bz, err := newBluez(adapterID)
	if err != nil {
		return nil, err
	}
	defer bz.close()

	status := &AdapterStatus{ID: adapterID, SupportedInstances: -1, ActiveInstances: -1}

	if status.Address, err = bz.getString(adapterIface, "Address"); err != nil {
		return nil, fmt.Errorf("adapter %s not found: %w", adapterID, err)
	}
	if status.Name, err = bz.getString(adapterIface, "Alias"); err != nil {
		config.Debugf("Alias: %v", err)
	}
	if status.Powered, err = bz.getBool(adapterIface, "Powered"); err != nil {
		return nil, fmt.Errorf("read Powered: %w", err)
	}

	if !status.Powered && powerOn {
		config.Debugf("Powering on %s", adapterID)
		if err := bz.setProp(adapterIface, "Powered", true); err != nil {
			return nil, fmt.Errorf("power on %s: %w", adapterID, err)
		}
		status.Powered = true
	}

	// LEAdvertisingManager1 only exists on adapters that can advertise.
	if n, err := bz.getByte(advertisingManagerIface, "SupportedInstances"); err == nil {
		status.SupportedInstances = n
	} else {
		config.Debugf("SupportedInstances: %v", err)
	}
	if n, err := bz.getByte(advertisingManagerIface, "ActiveInstances"); err == nil {
		status.ActiveInstances = n
	}

	return status, nil
}
