//go:build !linux

package ble

import "tinygo.org/x/bluetooth"

func scanAdapter(string) *bluetooth.Adapter {
	return bluetooth.DefaultAdapter
}
