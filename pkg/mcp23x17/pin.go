package mcp23x17

import "fmt"

// Pin is a stateless per-bit facade over one Port's registers. It holds
// only its binding: the Port, the bit index, and the precomputed single-bit
// mask. Every accessor is a masked read or write forwarded to the Port.
type Pin struct {
	port *Port
	bit  uint8
	mask uint8
}

// NewPin binds a Pin to one Port and one bit index 0-7.
func NewPin(p *Port, bit uint8) (*Pin, error) {
	if bit > 7 {
		return nil, fmt.Errorf("mcp23x17: pin bit %d out of range 0-7", bit)
	}
	return &Pin{port: p, bit: bit, mask: 1 << bit}, nil
}

// Bit returns the bit index within the port.
func (p *Pin) Bit() uint8 { return p.bit }

// Side returns the side of the bound port.
func (p *Pin) Side() Side { return p.port.Side() }

func (p *Pin) String() string {
	return fmt.Sprintf("%s%d", p.port.Side(), p.bit)
}

func (p *Pin) readBit(r Register) (bool, error) {
	v, err := p.port.Read(r)
	if err != nil {
		return false, err
	}
	return v&p.mask != 0, nil
}

func (p *Pin) writeBit(r Register, on bool) error {
	return p.port.MaskedWrite(r, on, p.mask)
}

// IsInput reports the pin's direction (IODIR bit, true = input).
func (p *Pin) IsInput() (bool, error) { return p.readBit(IODIR) }

// SetInput configures the pin as input (true) or output (false). Making a
// pin an input does not enable the pull-up; that is a separate flag.
func (p *Pin) SetInput(input bool) error { return p.writeBit(IODIR, input) }

// PullUp reports whether the internal pull-up is connected (GPPU bit).
func (p *Pin) PullUp() (bool, error) { return p.readBit(GPPU) }

// SetPullUp connects or disconnects the internal 100 kOhm pull-up.
func (p *Pin) SetPullUp(on bool) error { return p.writeBit(GPPU, on) }

// Inverted reports whether the pin's GPIO reading is inverted (IPOL bit).
func (p *Pin) Inverted() (bool, error) { return p.readBit(IPOL) }

// SetInverted enables or disables input polarity inversion.
func (p *Pin) SetInverted(on bool) error { return p.writeBit(IPOL, on) }

// Value reads the pin's current level from the GPIO register.
func (p *Pin) Value() (bool, error) { return p.readBit(GPIO) }

// SetValue drives the pin by masked-writing the OLAT register. It only has
// a visible effect when the pin is configured as an output.
func (p *Pin) SetValue(on bool) error { return p.writeBit(OLAT, on) }

// OutputLatch reads the pin's OLAT bit directly.
func (p *Pin) OutputLatch() (bool, error) { return p.readBit(OLAT) }

// SetOutputLatch writes the pin's OLAT bit directly.
func (p *Pin) SetOutputLatch(on bool) error { return p.writeBit(OLAT, on) }

// InterruptEnabled reports the pin's GPINTEN bit.
func (p *Pin) InterruptEnabled() (bool, error) { return p.readBit(GPINTEN) }

// SetInterruptEnabled enables interrupt-on-change for the pin. The pin
// must also be an input for the interrupt to fire.
func (p *Pin) SetInterruptEnabled(on bool) error { return p.writeBit(GPINTEN, on) }

// DefaultValue reports the pin's DEFVAL comparison bit.
func (p *Pin) DefaultValue() (bool, error) { return p.readBit(DEFVAL) }

// SetDefaultValue sets the DEFVAL comparison bit.
func (p *Pin) SetDefaultValue(on bool) error { return p.writeBit(DEFVAL, on) }

// CompareToDefault reports the pin's INTCON bit (compare against DEFVAL
// instead of the previous value).
func (p *Pin) CompareToDefault() (bool, error) { return p.readBit(INTCON) }

// SetCompareToDefault sets the pin's INTCON bit.
func (p *Pin) SetCompareToDefault(on bool) error { return p.writeBit(INTCON, on) }

// InterruptFlag reads the pin's INTF bit.
func (p *Pin) InterruptFlag() (bool, error) { return p.readBit(INTF) }

// CapturedValue reads the pin's INTCAP bit, the level captured when the
// last interrupt occurred.
func (p *Pin) CapturedValue() (bool, error) { return p.readBit(INTCAP) }
