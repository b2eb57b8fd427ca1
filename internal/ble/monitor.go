package ble

import (
	"context"
	"fmt"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/vitaminmoo/lsbeacon/internal/catalog"
	"github.com/vitaminmoo/lsbeacon/internal/config"
)

// Sighting is one catalog command seen in a received advertisement.
type Sighting struct {
	At      time.Time
	Address string
	RSSI    int16
	Index   int
	Payload []byte
}

// Monitor scans for advertisements carrying catalog commands and calls fn
// for each one until ctx is done.
func Monitor(ctx context.Context, adapterID string, fn func(Sighting)) error {
	adapter := scanAdapter(adapterID)
	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable Bluetooth: %w", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			if err := adapter.StopScan(); err != nil {
				config.Debugf("StopScan: %v", err)
			}
		case <-stop:
		}
	}()

	config.Debugf("Scanning on %s", adapterID)
	err := adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		for _, s := range matchSightings(result.ManufacturerData()) {
			s.At = time.Now()
			s.Address = result.Address.String()
			s.RSSI = result.RSSI
			fn(s)
		}
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return nil
}

// matchSightings picks catalog commands out of manufacturer data elements.
func matchSightings(elems []bluetooth.ManufacturerDataElement) []Sighting {
	var out []Sighting
	for _, e := range elems {
		if e.CompanyID != catalog.CompanyID {
			continue
		}
		idx, ok := catalog.Lookup(e.Data)
		if !ok {
			config.Debugf("Unknown payload under %04X: % X", e.CompanyID, e.Data)
			continue
		}
		out = append(out, Sighting{Index: idx, Payload: append([]byte(nil), e.Data...)})
	}
	return out
}
