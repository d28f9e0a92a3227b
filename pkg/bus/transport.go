package bus

import (
	"errors"
	"fmt"
)

// I2C address window for the chip family. The three hardware address pins
// select one of eight consecutive addresses.
const (
	BaseAddress uint8 = 0x20
	MaxAddress  uint8 = 0x27
)

// TransportInfo describes a transport implementation and, where known, the
// hardware behind it.
type TransportInfo struct {
	Name         string
	Vendor       string
	Model        string
	SerialNumber string
	BusSpeedHz   int
	Notes        string
}

// Label returns a user-friendly description of the transport.
func (i TransportInfo) Label() string {
	if i.Model != "" {
		return fmt.Sprintf("%s (%s)", i.Name, i.Model)
	}
	return i.Name
}

// Transport abstracts byte-level register access to a single expander
// chip. Addresses passed to ReadByte/WriteByte are register addresses
// within the chip; the chip's bus address is fixed at construction.
//
// Implementations are assumed synchronous and blocking. Errors are
// returned as-is to the driver core and from there to the caller.
type Transport interface {
	Info() (TransportInfo, error)
	ReadByte(reg uint8) (uint8, error)
	WriteByte(reg uint8, value uint8) error
	Close() error
}

// ErrNotImplemented lets backends signal that a capability is unavailable
// on the current platform or hardware without relying on fmt.Errorf each
// time.
var ErrNotImplemented = errors.New("bus: not implemented")

// ValidateAddress checks that addr falls in the chip family's address
// window.
func ValidateAddress(addr uint8) error {
	if addr < BaseAddress || addr > MaxAddress {
		return fmt.Errorf("bus: chip address 0x%02X outside 0x%02X-0x%02X", addr, BaseAddress, MaxAddress)
	}
	return nil
}
