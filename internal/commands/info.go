package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vitaminmoo/lsbeacon/internal/ble"
	"github.com/vitaminmoo/lsbeacon/internal/catalog"
	"github.com/vitaminmoo/lsbeacon/internal/config"
	"github.com/vitaminmoo/lsbeacon/internal/util"
)

// Patterns lists the command catalog.
func Patterns(w io.Writer) {
	fmt.Fprintf(w, "Company ID: %04X\n", catalog.CompanyID)
	fmt.Fprintf(w, "Prefix:     %s\n\n", util.HexString(catalog.Prefix[:]))
	fmt.Fprintf(w, "%-5s %-18s %s\n", "INDEX", "NAME", "OPCODE")
	for _, e := range catalog.All() {
		fmt.Fprintf(w, "%-5d %-18s %s\n", e.Index, e.Name, util.HexString(e.Opcode[:]))
	}
}

// Monitor prints catalog commands heard on the air until ctx is done or d
// elapses.
func Monitor(ctx context.Context, adapterID string, d time.Duration) error {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	fmt.Println("Listening for commands, Ctrl+C to stop...")
	count := 0
	err := ble.Monitor(ctx, adapterID, func(s ble.Sighting) {
		count++
		fmt.Println(formatSighting(s))
	})
	if err != nil {
		return err
	}
	fmt.Printf("%d commands seen\n", count)
	return nil
}

func formatSighting(s ble.Sighting) string {
	name := "?"
	if e, err := catalog.Get(s.Index); err == nil {
		name = e.Name
	}
	return fmt.Sprintf("%s  %s  %4d dBm  %d %-18s %s",
		s.At.Format("15:04:05.000"), s.Address, s.RSSI, s.Index, name, util.HexString(s.Payload))
}

// Doctor checks that the adapter can advertise.
func Doctor(adapterID string, powerOn bool) error {
	status, err := ble.Preflight(adapterID, powerOn)
	if err != nil {
		return err
	}
	fmt.Println(status)
	if !status.CanAdvertise() {
		if !status.Powered {
			return fmt.Errorf("adapter %s is powered off (try --power-on)", adapterID)
		}
		return fmt.Errorf("adapter %s has no free advertising slots", adapterID)
	}
	fmt.Println("OK")
	config.Debugf("Preflight passed for %s", adapterID)
	return nil
}
