//go:build linux

package ble

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// bluez wraps a private system D-Bus connection for BlueZ operations.
type bluez struct {
	conn    *dbus.Conn
	adapter dbus.ObjectPath
}

func newBluez(adapterID string) (*bluez, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}

	// Quick check that BlueZ is on the bus.
	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		conn.Close()
		return nil, fmt.Errorf("list bus names: %w", err)
	}
	found := false
	for _, n := range names {
		if n == bluezBus {
			found = true
			break
		}
	}
	if !found {
		conn.Close()
		return nil, fmt.Errorf("org.bluez not found on system bus, is bluetooth.service running?")
	}

	return &bluez{
		conn:    conn,
		adapter: dbus.ObjectPath(bluezRoot + adapterID),
	}, nil
}

func (b *bluez) close() {
	b.conn.Close()
}

// --- property helpers ---

func (b *bluez) getProp(iface, prop string) (dbus.Variant, error) {
	obj := b.conn.Object(bluezBus, b.adapter)
	var v dbus.Variant
	err := obj.Call(propsIface+".Get", 0, iface, prop).Store(&v)
	return v, err
}

func (b *bluez) setProp(iface, prop string, val interface{}) error {
	obj := b.conn.Object(bluezBus, b.adapter)
	return obj.Call(propsIface+".Set", 0, iface, prop, dbus.MakeVariant(val)).Err
}

func (b *bluez) getBool(iface, prop string) (bool, error) {
	v, err := b.getProp(iface, prop)
	if err != nil {
		return false, err
	}
	val, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("property %s is not bool", prop)
	}
	return val, nil
}

func (b *bluez) getString(iface, prop string) (string, error) {
	v, err := b.getProp(iface, prop)
	if err != nil {
		return "", err
	}
	val, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("property %s is not string", prop)
	}
	return val, nil
}

func (b *bluez) getByte(iface, prop string) (int, error) {
	v, err := b.getProp(iface, prop)
	if err != nil {
		return 0, err
	}
	val, ok := v.Value().(byte)
	if !ok {
		return 0, fmt.Errorf("property %s is not byte", prop)
	}
	return int(val), nil
}

// --- advertising manager ---

func (b *bluez) registerAdvertisement(path dbus.ObjectPath) error {
	obj := b.conn.Object(bluezBus, b.adapter)
	return obj.Call(advertisingManagerIface+".RegisterAdvertisement", 0, path, map[string]dbus.Variant{}).Err
}

func (b *bluez) unregisterAdvertisement(path dbus.ObjectPath) error {
	obj := b.conn.Object(bluezBus, b.adapter)
	return obj.Call(advertisingManagerIface+".UnregisterAdvertisement", 0, path).Err
}
