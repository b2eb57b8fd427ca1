//go:build linux

package ble

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"

	"github.com/vitaminmoo/lsbeacon/internal/broadcast"
	"github.com/vitaminmoo/lsbeacon/internal/config"
)

// Advertiser broadcasts manufacturer data through BlueZ. Every attempt
// re-registers the advertisement so the controller restarts it with the new
// payload.
type Advertiser struct {
	bz    *bluez
	props *prop.Properties

	mu         sync.Mutex
	registered bool
}

// advertisement is the exported org.bluez.LEAdvertisement1 object.
type advertisement struct{}

// Release is called by BlueZ when it removes the advertisement on its own.
func (advertisement) Release() *dbus.Error {
	config.Debugf("BlueZ released the advertisement")
	return nil
}

// NewAdvertiser connects to BlueZ and exports the advertisement object for
// the adapter (e.g. "hci0").
func NewAdvertiser(adapterID string) (*Advertiser, error) {
	bz, err := newBluez(adapterID)
	if err != nil {
		return nil, err
	}

	path := dbus.ObjectPath(advertisementPath)
	if err := bz.conn.Export(advertisement{}, path, advertisementIface); err != nil {
		bz.close()
		return nil, fmt.Errorf("export advertisement: %w", err)
	}

	mode := broadcast.ModeLowLatency
	props, err := prop.Export(bz.conn, path, prop.Map{
		advertisementIface: {
			"Type":             {Value: advertisementType, Emit: prop.EmitFalse},
			"ManufacturerData": {Value: map[uint16]dbus.Variant{}, Emit: prop.EmitFalse},
			"MinInterval":      {Value: intervalMs(mode), Emit: prop.EmitFalse},
			"MaxInterval":      {Value: intervalMs(mode), Emit: prop.EmitFalse},
			"TxPower":          {Value: broadcast.TxPowerHigh.DBm(), Emit: prop.EmitFalse},
		},
	})
	if err != nil {
		bz.close()
		return nil, fmt.Errorf("export advertisement properties: %w", err)
	}

	config.Debugf("Exported %s on %s", advertisementPath, bz.adapter)
	return &Advertiser{bz: bz, props: props}, nil
}

// Advertise replaces the advertised payload and (re)registers it.
func (a *Advertiser) Advertise(req broadcast.AdvertiseRequest) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registered {
		if err := a.bz.unregisterAdvertisement(advertisementPath); err != nil {
			config.Debugf("Unregister before restart: %v", err)
		}
		a.registered = false
	}

	a.props.SetMust(advertisementIface, "ManufacturerData", map[uint16]dbus.Variant{
		req.CompanyID: dbus.MakeVariant(req.Payload),
	})
	a.props.SetMust(advertisementIface, "MinInterval", intervalMs(req.Mode))
	a.props.SetMust(advertisementIface, "MaxInterval", intervalMs(req.Mode))
	a.props.SetMust(advertisementIface, "TxPower", req.TxPower.DBm())

	if err := a.bz.registerAdvertisement(advertisementPath); err != nil {
		return fmt.Errorf("register advertisement: %w", err)
	}
	a.registered = true
	return nil
}

// StopAdvertising removes the advertisement if one is registered.
func (a *Advertiser) StopAdvertising() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.registered {
		return nil
	}
	a.registered = false
	if err := a.bz.unregisterAdvertisement(advertisementPath); err != nil {
		return fmt.Errorf("unregister advertisement: %w", err)
	}
	return nil
}

// Close stops advertising and releases the bus connection.
func (a *Advertiser) Close() error {
	err := a.StopAdvertising()
	a.bz.close()
	return err
}

func intervalMs(m broadcast.AdvertiseMode) uint32 {
	return uint32(m.Interval().Milliseconds())
}
