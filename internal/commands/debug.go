package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/vitaminmoo/lsbeacon/internal/catalog"
	"github.com/vitaminmoo/lsbeacon/internal/config"
	"github.com/vitaminmoo/lsbeacon/internal/engine"
	"github.com/vitaminmoo/lsbeacon/internal/logscale"
	"github.com/vitaminmoo/lsbeacon/internal/util"
)

// DebugEncode prints the advertising request for a catalog entry without
// transmitting it.
func DebugEncode(w io.Writer, s *config.Settings, index int) error {
	entry, err := catalog.Get(index)
	if err != nil {
		return err
	}
	opts, err := BroadcastOptions(s)
	if err != nil {
		return err
	}

	payload := entry.Payload()
	fmt.Fprintf(w, "Pattern:   %d (%s)\n", entry.Index, entry.Name)
	fmt.Fprintf(w, "Company:   %04X\n", catalog.CompanyID)
	fmt.Fprintf(w, "Mode:      %s (%s interval)\n", opts.Mode, opts.Mode.Interval())
	fmt.Fprintf(w, "TX power:  %s (%d dBm)\n", opts.TxPower, opts.TxPower.DBm())
	fmt.Fprintf(w, "Payload (%d bytes):\n", len(payload))
	util.PrintHexDump(w, payload)

	// AD structure as it appears on air: length, type 0xFF, company LE, data
	ad := make([]byte, 0, 4+len(payload))
	ad = append(ad, byte(3+len(payload)), 0xFF, byte(catalog.CompanyID&0xFF), byte(catalog.CompanyID>>8))
	ad = append(ad, payload...)
	fmt.Fprintf(w, "AD structure (%d bytes):\n", len(ad))
	util.PrintHexDump(w, ad)
	return nil
}

// DebugScale prints slider positions against the durations they select and
// the ON burst each would produce.
func DebugScale(w io.Writer, s *config.Settings, steps int) {
	if steps < 1 {
		steps = 10
	}
	scale := logscale.New(engine.MinDurationMs, engine.MaxDurationMs)
	timing := Timing(s)

	fmt.Fprintf(w, "%-8s %-10s %s\n", "POS", "MS", "ON BURST")
	for i := 0; i <= steps; i++ {
		pos := logscale.Steps * float64(i) / float64(steps)
		ms := scale.Value(pos)
		fmt.Fprintf(w, "%-8.1f %-10d %d\n", pos, ms, timing.OnBurst(time.Duration(ms)*time.Millisecond))
	}
}
