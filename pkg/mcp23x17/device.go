package mcp23x17

import (
	"fmt"

	"github.com/JoakimHagen/MCP23X17/pkg/bus"
)

// Device models a whole expander chip: two Ports plus a Pin facade for each
// of the 16 I/O lines. Device holds no register state of its own; all state
// lives in the two Ports.
type Device struct {
	A *Port
	B *Port

	pins [16]*Pin
}

// NewDevice wires a Device and its 16 Pins to the given transport. Pins 0-7
// map to side A, pins 8-15 to side B.
func NewDevice(t bus.Transport) *Device {
	d := &Device{
		A: NewPort(t, SideA),
		B: NewPort(t, SideB),
	}
	for i := range d.pins {
		port := d.A
		if i >= 8 {
			port = d.B
		}
		pin, err := NewPin(port, uint8(i%8))
		if err != nil {
			// Unreachable: i%8 is always in range.
			panic(err)
		}
		d.pins[i] = pin
	}
	return d
}

// Pin returns the facade for line n, where 0-7 are side A bits 0-7 and
// 8-15 are side B bits 0-7.
func (d *Device) Pin(n int) (*Pin, error) {
	if n < 0 || n >= len(d.pins) {
		return nil, fmt.Errorf("mcp23x17: pin number %d out of range 0-15", n)
	}
	return d.pins[n], nil
}

// PortPin returns the facade for the given side and bit.
func (d *Device) PortPin(side Side, bit uint8) (*Pin, error) {
	n := int(bit)
	if side == SideB {
		n += 8
	}
	if bit > 7 {
		return nil, fmt.Errorf("mcp23x17: pin bit %d out of range 0-7", bit)
	}
	return d.pins[n], nil
}

// Read merges both ports' values for the register into one 16-bit word:
// side A in bits 0-7, side B in bits 8-15. A port whose mask slice is zero
// is skipped entirely; the result is masked again at the end.
func (d *Device) Read(r Register, mask uint16) (uint16, error) {
	var word uint16
	if mask&0x00FF != 0 {
		v, err := d.A.Read(r)
		if err != nil {
			return 0, err
		}
		word |= uint16(v)
	}
	if mask&0xFF00 != 0 {
		v, err := d.B.Read(r)
		if err != nil {
			return 0, err
		}
		word |= uint16(v) << 8
	}
	return word & mask, nil
}

// WriteMasked sets or clears the masked bits of the register on both
// ports. A port whose 8-bit mask slice is fully set gets a plain 0x00/0xFF
// write, a partially set slice gets a masked read-modify-write, and a zero
// slice is skipped.
func (d *Device) WriteMasked(r Register, value bool, mask uint16) error {
	if err := writePortMasked(d.A, r, value, uint8(mask)); err != nil {
		return err
	}
	return writePortMasked(d.B, r, value, uint8(mask>>8))
}

func writePortMasked(p *Port, r Register, value bool, mask uint8) error {
	switch mask {
	case 0x00:
		return nil
	case 0xFF:
		full := uint8(0x00)
		if value {
			full = 0xFF
		}
		return p.Write(r, full)
	default:
		return p.MaskedWrite(r, value, mask)
	}
}

// WriteWord splits a 16-bit value into its low and high bytes and writes
// them to side A and side B independently, with no masking.
func (d *Device) WriteWord(r Register, value uint16) error {
	if err := d.A.Write(r, uint8(value)); err != nil {
		return err
	}
	return d.B.Write(r, uint8(value>>8))
}

// ReadPins returns the 16-bit live pin state (GPIO on both sides).
func (d *Device) ReadPins() (uint16, error) {
	return d.Read(GPIO, 0xFFFF)
}

// Reset restores the hardware defaults on both ports. The two resets are
// independent; there is no ordering requirement between the sides.
func (d *Device) Reset() error {
	if err := d.A.Reset(); err != nil {
		return err
	}
	return d.B.Reset()
}

// SetCaching toggles the write-behind cache on both ports.
func (d *Device) SetCaching(on bool) {
	d.A.SetCaching(on)
	d.B.SetCaching(on)
}

// Commit flushes both ports' pending writes.
func (d *Device) Commit() error {
	if err := d.A.Commit(); err != nil {
		return err
	}
	return d.B.Commit()
}

// ConfigFlag reports whether the given IOCON bit is set. The flags are
// chip-global; they are always read through Port A.
func (d *Device) ConfigFlag(flag ConfigFlag) (bool, error) {
	v, err := d.A.readConfig()
	if err != nil {
		return false, err
	}
	return v&uint8(flag) != 0, nil
}

// SetConfigFlag sets or clears the given IOCON bit through Port A. Setting
// or clearing FlagBankMode additionally switches both Ports' address
// translation so subsequent accesses on either side stay consistent with
// the chip.
func (d *Device) SetConfigFlag(flag ConfigFlag, on bool) error {
	v, err := d.A.readConfig()
	if err != nil {
		return err
	}
	if on {
		v |= uint8(flag)
	} else {
		v &^= uint8(flag)
	}
	if err := d.A.writeConfig(v); err != nil {
		return err
	}
	if flag&FlagBankMode != 0 {
		d.A.SetBank(on)
		d.B.SetBank(on)
	}
	return nil
}

// InterruptPolarity reports the INTPOL flag (INT pins active-high).
func (d *Device) InterruptPolarity() (bool, error) { return d.ConfigFlag(FlagIntPolarity) }

// SetInterruptPolarity sets the INTPOL flag.
func (d *Device) SetInterruptPolarity(on bool) error { return d.SetConfigFlag(FlagIntPolarity, on) }

// OpenDrain reports the ODR flag (INT pins open-drain).
func (d *Device) OpenDrain() (bool, error) { return d.ConfigFlag(FlagOpenDrain) }

// SetOpenDrain sets the ODR flag.
func (d *Device) SetOpenDrain(on bool) error { return d.SetConfigFlag(FlagOpenDrain, on) }

// HardwareAddress reports the HAEN flag (hardware address pins enabled).
func (d *Device) HardwareAddress() (bool, error) { return d.ConfigFlag(FlagHardwareAddress) }

// SetHardwareAddress sets the HAEN flag.
func (d *Device) SetHardwareAddress(on bool) error { return d.SetConfigFlag(FlagHardwareAddress, on) }

// SlewRateDisabled reports the DISSLW flag.
func (d *Device) SlewRateDisabled() (bool, error) { return d.ConfigFlag(FlagSlewRateDisable) }

// SetSlewRateDisabled sets the DISSLW flag.
func (d *Device) SetSlewRateDisabled(on bool) error { return d.SetConfigFlag(FlagSlewRateDisable, on) }

// SequentialDisabled reports the SEQOP flag. The driver itself always uses
// byte-mode register access; the flag only affects other bus masters.
func (d *Device) SequentialDisabled() (bool, error) { return d.ConfigFlag(FlagSequentialDisable) }

// SetSequentialDisabled sets the SEQOP flag.
func (d *Device) SetSequentialDisabled(on bool) error {
	return d.SetConfigFlag(FlagSequentialDisable, on)
}

// InterruptMirror reports the MIRROR flag (INT pins internally connected).
func (d *Device) InterruptMirror() (bool, error) { return d.ConfigFlag(FlagInterruptMirror) }

// SetInterruptMirror sets the MIRROR flag.
func (d *Device) SetInterruptMirror(on bool) error { return d.SetConfigFlag(FlagInterruptMirror, on) }

// BankMode reports the BANK flag.
func (d *Device) BankMode() (bool, error) { return d.ConfigFlag(FlagBankMode) }

// SetBankMode sets the BANK flag and switches both Ports' addressing.
func (d *Device) SetBankMode(on bool) error { return d.SetConfigFlag(FlagBankMode, on) }

// DumpRegisters reads every enumerated register on both sides and returns
// the merged 16-bit values, in register index order. Intended for
// diagnostics; every value goes through the normal caching path.
func (d *Device) DumpRegisters() (map[Register]uint16, error) {
	dump := make(map[Register]uint16, len(Registers()))
	for _, r := range Registers() {
		v, err := d.Read(r, 0xFFFF)
		if err != nil {
			return nil, fmt.Errorf("mcp23x17: dump %s: %w", r, err)
		}
		dump[r] = v
	}
	return dump, nil
}
