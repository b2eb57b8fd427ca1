package commands

import (
	"fmt"
	"io"

	"github.com/vitaminmoo/lsbeacon/internal/broadcast"
	"github.com/vitaminmoo/lsbeacon/internal/config"
	"github.com/vitaminmoo/lsbeacon/internal/util"
)

// DryRunTransport prints each advertising attempt instead of transmitting.
type DryRunTransport struct {
	w io.Writer
}

func NewDryRunTransport(w io.Writer) *DryRunTransport {
	return &DryRunTransport{w: w}
}

func (t *DryRunTransport) Advertise(req broadcast.AdvertiseRequest) error {
	_, err := fmt.Fprintf(t.w, "[TX] %04X %s\n", req.CompanyID, util.HexString(req.Payload))
	return err
}

func (t *DryRunTransport) StopAdvertising() error {
	config.Debugf("Dry run: advertising stopped")
	return nil
}
