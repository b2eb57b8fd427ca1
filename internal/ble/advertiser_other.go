//go:build !linux

package ble

import (
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/vitaminmoo/lsbeacon/internal/broadcast"
	"github.com/vitaminmoo/lsbeacon/internal/config"
)

// Advertiser broadcasts manufacturer data through the platform stack. Every
// attempt stops, reconfigures and restarts the advertisement.
type Advertiser struct {
	adv *bluetooth.Advertisement

	mu      sync.Mutex
	started bool
}

// NewAdvertiser enables the default adapter. adapterID only selects an
// adapter on Linux.
func NewAdvertiser(adapterID string) (*Advertiser, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable Bluetooth: %w", err)
	}
	config.Debugf("Using default adapter (requested %q)", adapterID)
	return &Advertiser{adv: adapter.DefaultAdvertisement()}, nil
}

// Advertise replaces the advertised payload and starts advertising it.
func (a *Advertiser) Advertise(req broadcast.AdvertiseRequest) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		if err := a.adv.Stop(); err != nil {
			config.Debugf("Stop before restart: %v", err)
		}
		a.started = false
	}

	err := a.adv.Configure(bluetooth.AdvertisementOptions{
		AdvertisementType: bluetooth.AdvertisingTypeNonConnInd,
		Interval:          bluetooth.NewDuration(req.Mode.Interval()),
		ManufacturerData: []bluetooth.ManufacturerDataElement{
			{CompanyID: req.CompanyID, Data: req.Payload},
		},
	})
	if err != nil {
		return fmt.Errorf("configure advertisement: %w", err)
	}
	if err := a.adv.Start(); err != nil {
		return fmt.Errorf("start advertisement: %w", err)
	}
	a.started = true
	return nil
}

// StopAdvertising stops the advertisement if it is running.
func (a *Advertiser) StopAdvertising() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return nil
	}
	a.started = false
	return a.adv.Stop()
}

// Close stops advertising.
func (a *Advertiser) Close() error {
	return a.StopAdvertising()
}
