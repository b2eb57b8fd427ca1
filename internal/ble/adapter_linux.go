//go:build linux

package ble

import "tinygo.org/x/bluetooth"

func scanAdapter(adapterID string) *bluetooth.Adapter {
	return bluetooth.NewAdapter(adapterID)
}
