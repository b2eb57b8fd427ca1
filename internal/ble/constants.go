package ble

const (
	// bluezBus is the well-known name BlueZ owns on the system bus
	bluezBus = "org.bluez"

	// bluezRoot prefixes adapter object paths (e.g. /org/bluez/hci0)
	bluezRoot = "/org/bluez/"

	adapterIface            = "org.bluez.Adapter1"
	advertisingManagerIface = "org.bluez.LEAdvertisingManager1"
	advertisementIface      = "org.bluez.LEAdvertisement1"
	propsIface              = "org.freedesktop.DBus.Properties"

	// advertisementPath is where our LEAdvertisement1 object is exported
	advertisementPath = "/io/vitaminmoo/lsbeacon/advertisement0"

	// advertisementType is non-connectable, non-scannable
	advertisementType = "broadcast"
)
