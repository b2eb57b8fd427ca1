package catalog

import (
	"bytes"
	"errors"
	"fmt"
)

// CompanyID is the manufacturer identifier the payloads are advertised under.
// It travels next to the payload, never inside it.
const CompanyID uint16 = 0xFFF0

// StopIndex is the universal STOP command.
const StopIndex = 0

// PayloadLen is the length of every payload: prefix + opcode.
const PayloadLen = len(Prefix) + 3

// Prefix is shared by every command payload.
var Prefix = [8]byte{0x6D, 0xB6, 0x43, 0xCE, 0x97, 0xFE, 0x42, 0x7C}

// ErrInvalidIndex is returned for pattern indices outside the catalog.
var ErrInvalidIndex = errors.New("invalid pattern index")

// Entry is one command in the catalog.
type Entry struct {
	Index  int
	Name   string
	Opcode [3]byte
}

// Payload returns the manufacturer data bytes for the entry.
func (e Entry) Payload() []byte {
	p := make([]byte, 0, PayloadLen)
	p = append(p, Prefix[:]...)
	return append(p, e.Opcode[:]...)
}

var entries = [...]Entry{
	{0, "STOP (All)", [3]byte{0xE5, 0x15, 0x7D}},
	{1, "Speed 1 (All)", [3]byte{0xE4, 0x9C, 0x6C}},
	{2, "Speed 2 (All)", [3]byte{0xE7, 0x07, 0x5E}},
	{3, "Speed 3 (All)", [3]byte{0xE6, 0x8E, 0x4F}},
	{4, "Pattern 4", [3]byte{0xE1, 0x31, 0x3B}},
	{5, "Pattern 5", [3]byte{0xE0, 0xB8, 0x2A}},
	{6, "Pattern 6", [3]byte{0xE3, 0x23, 0x18}},
	{7, "Pattern 7", [3]byte{0xE2, 0xAA, 0x09}},
	{8, "Pattern 8", [3]byte{0xED, 0x5D, 0xF1}},
	{9, "Pattern 9", [3]byte{0xEC, 0xD4, 0xE0}},
}

// Len returns the number of commands.
func Len() int {
	return len(entries)
}

// Valid reports whether index names a catalog entry.
func Valid(index int) bool {
	return index >= 0 && index < len(entries)
}

// Get returns the entry for index.
func Get(index int) (Entry, error) {
	if !Valid(index) {
		return Entry{}, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidIndex, index, len(entries)-1)
	}
	return entries[index], nil
}

// Resolve returns the payload for index. The returned slice is a fresh copy.
func Resolve(index int) ([]byte, error) {
	e, err := Get(index)
	if err != nil {
		return nil, err
	}
	return e.Payload(), nil
}

// All returns a copy of the catalog in index order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries[:])
	return out
}

// Lookup maps a received payload back to its index.
func Lookup(payload []byte) (int, bool) {
	if len(payload) != PayloadLen || !bytes.HasPrefix(payload, Prefix[:]) {
		return 0, false
	}
	for _, e := range entries {
		if bytes.Equal(payload[len(Prefix):], e.Opcode[:]) {
			return e.Index, true
		}
	}
	return 0, false
}
