package mcp23x17

import (
	"fmt"
	"strings"
)

// Register is the logical index of one of the chip's per-port 8-bit
// registers. The same index exists on both sides; the physical transport
// address depends on the side and the IOCON BANK bit (see Port.address).
type Register uint8

const (
	// IODIR selects the data direction per bit. 1 = input, 0 = output.
	// Hardware reset default is 0xFF (all inputs).
	IODIR Register = iota

	// IPOL inverts the polarity of the corresponding GPIO bit when set.
	IPOL

	// GPINTEN enables interrupt-on-change per bit. The pin must also be
	// configured as an input for the interrupt to fire.
	GPINTEN

	// DEFVAL holds the comparison value for interrupt-on-change when the
	// matching INTCON bit is set.
	DEFVAL

	// INTCON selects the interrupt comparison source: 0 compares against
	// the previous pin value, 1 compares against DEFVAL.
	INTCON

	// regIOCON is the shared chip configuration register. It is not part
	// of the exported Register enumeration; Device reaches it through a
	// dedicated path on Port A (see Device.ConfigFlag).
	regIOCON

	// GPPU enables the internal 100 kOhm pull-up per input bit.
	GPPU

	// INTF is the read-only interrupt flag register.
	INTF

	// INTCAP is the read-only pin-state capture taken when an interrupt
	// occurred.
	INTCAP

	// GPIO is the live pin-state view. Reading returns the pin values;
	// writing is hardware-equivalent to writing OLAT.
	GPIO

	// OLAT is the output latch, the only writable target for output state.
	OLAT

	registerCount
)

// registerNames indexes by Register. IOCON is deliberately unnamed so it
// cannot be reached through ParseRegister.
var registerNames = [registerCount]string{
	IODIR:   "IODIR",
	IPOL:    "IPOL",
	GPINTEN: "GPINTEN",
	DEFVAL:  "DEFVAL",
	INTCON:  "INTCON",
	GPPU:    "GPPU",
	INTF:    "INTF",
	INTCAP:  "INTCAP",
	GPIO:    "GPIO",
	OLAT:    "OLAT",
}

func (r Register) String() string {
	if int(r) < len(registerNames) && registerNames[r] != "" {
		return registerNames[r]
	}
	return fmt.Sprintf("Register(%d)", uint8(r))
}

// Registers returns all registers addressable through the Port/Device/Pin
// register operations, in index order.
func Registers() []Register {
	return []Register{IODIR, IPOL, GPINTEN, DEFVAL, INTCON, GPPU, INTF, INTCAP, GPIO, OLAT}
}

// ParseRegister resolves a register name (case-insensitive) to its index.
func ParseRegister(name string) (Register, error) {
	upper := strings.ToUpper(name)
	for i, n := range registerNames {
		if n != "" && n == upper {
			return Register(i), nil
		}
	}
	return 0, fmt.Errorf("mcp23x17: unknown register %q", name)
}

// ConfigFlag is a bit of the shared IOCON configuration register. The flags
// are chip-global even though IOCON is addressable from both sides.
type ConfigFlag uint8

const (
	// FlagIntPolarity makes the INT pins active-high instead of active-low.
	FlagIntPolarity ConfigFlag = 1 << 1
	// FlagOpenDrain configures the INT pins as open-drain outputs,
	// overriding FlagIntPolarity.
	FlagOpenDrain ConfigFlag = 1 << 2
	// FlagHardwareAddress enables the hardware address pins (MCP23S17).
	FlagHardwareAddress ConfigFlag = 1 << 3
	// FlagSlewRateDisable disables slew rate control on the SDA output.
	FlagSlewRateDisable ConfigFlag = 1 << 4
	// FlagSequentialDisable disables sequential (auto-increment) operation,
	// so the address pointer stays put after each transfer.
	FlagSequentialDisable ConfigFlag = 1 << 5
	// FlagInterruptMirror internally connects the two INT pins.
	FlagInterruptMirror ConfigFlag = 1 << 6
	// FlagBankMode switches register addressing from paired to banked.
	FlagBankMode ConfigFlag = 1 << 7
)

// Side designates one of the chip's two 8-bit I/O groups.
type Side uint8

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// resetValues holds the hardware defaults written by Port.Reset, in the
// order they are queued. GPIO is covered by OLAT; IOCON is left alone.
var resetValues = [...]struct {
	reg Register
	val uint8
}{
	{IODIR, 0xFF},
	{IPOL, 0x00},
	{GPINTEN, 0x00},
	{DEFVAL, 0x00},
	{INTCON, 0x00},
	{GPPU, 0x00},
	{INTF, 0x00},
	{INTCAP, 0x00},
	{OLAT, 0x00},
}
