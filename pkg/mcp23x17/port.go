package mcp23x17

import (
	"github.com/JoakimHagen/MCP23X17/pkg/bus"
)

// cacheSlot is one optional cached register byte. A slot with known unset
// has never been observed and forces a hardware access; this is distinct
// from a known zero and the distinction is load-bearing for Update's diff.
type cacheSlot struct {
	value uint8
	known bool
}

// Port drives one side of the expander. It owns that side's register cache,
// the FIFO queue of pending deferred writes, and the addressing-mode state.
// A Port is the only component that touches the transport.
//
// Port is not safe for concurrent use; callers that share a Port across
// goroutines must serialize access externally.
type Port struct {
	xport bus.Transport
	side  Side

	cache [registerCount]cacheSlot
	queue []Register

	bank    bool
	caching bool
}

// NewPort binds a Port for the given side to a transport. Caching starts
// disabled so every access goes to hardware until SetCaching(true).
func NewPort(t bus.Transport, side Side) *Port {
	return &Port{xport: t, side: side}
}

// Side reports which I/O group this Port drives.
func (p *Port) Side() Side { return p.side }

// Transport returns the underlying transport for access to backend
// details.
func (p *Port) Transport() bus.Transport { return p.xport }

// Bank reports the current addressing-mode flag.
func (p *Port) Bank() bool { return p.bank }

// SetBank switches the address translation scheme. It only changes how
// logical indices map to transport addresses; it does not touch IOCON.
// Use Device.SetBankMode to change the chip-side flag and both Ports
// together.
func (p *Port) SetBank(bank bool) { p.bank = bank }

// Caching reports whether writes are being deferred.
func (p *Port) Caching() bool { return p.caching }

// SetCaching toggles the write-behind cache. Disabling caching does not
// commit; entries already queued stay pending until an explicit Commit.
func (p *Port) SetCaching(on bool) { p.caching = on }

// Pending returns the registers currently queued for commit, oldest first.
func (p *Port) Pending() []Register {
	return append([]Register(nil), p.queue...)
}

// address translates a logical register index to the transport address.
// The chip interprets addresses according to the IOCON BANK bit, so the
// mapping is recomputed on every access rather than cached.
func (p *Port) address(r Register) uint8 {
	if p.bank {
		if p.side == SideB {
			return uint8(r) | 0x10
		}
		return uint8(r)
	}
	addr := uint8(r) << 1
	if p.side == SideB {
		addr |= 1
	}
	return addr
}

// Read returns the register value, from the cache when caching is enabled
// and the slot is known. A hardware read always refreshes the cache, even
// with caching disabled, so the cache stays consistent if caching is
// enabled later.
func (p *Port) Read(r Register) (uint8, error) {
	if p.caching && p.cache[r].known {
		return p.cache[r].value, nil
	}
	v, err := p.xport.ReadByte(p.address(r))
	if err != nil {
		return 0, err
	}
	p.cache[r] = cacheSlot{value: v, known: true}
	return v, nil
}

// Write stores value into the register, deferred or immediate depending on
// the caching mode.
//
// GPIO cannot be written on this chip; a GPIO write is hardware-equivalent
// to an OLAT write and is redirected accordingly. If the cache already
// holds value for the target register the call is a no-op, in every
// caching mode. With caching enabled the register is queued for Commit,
// keeping its original queue position if already pending.
func (p *Port) Write(r Register, value uint8) error {
	if r == GPIO {
		r = OLAT
	}
	if s := p.cache[r]; s.known && s.value == value {
		return nil
	}
	if p.caching && r == OLAT {
		p.cache[GPIO] = latchReadback(p.cache[IODIR], p.cache[GPIO], value)
	}
	p.cache[r] = cacheSlot{value: value, known: true}
	if p.caching {
		p.enqueue(r)
		return nil
	}
	return p.xport.WriteByte(p.address(r), value)
}

// MaskedWrite sets (value=true) or clears (value=false) the masked bits of
// the register, reading the current value through the normal caching path.
func (p *Port) MaskedWrite(r Register, value bool, mask uint8) error {
	current, err := p.Read(r)
	if err != nil {
		return err
	}
	if value {
		current |= mask
	} else {
		current &^= mask
	}
	return p.Write(r, current)
}

// Update reads the register from hardware regardless of the cache and
// returns a bitwise diff against the previous cached value: old XOR new,
// or 0xFF when no prior value was cached. This is the sanctioned way to
// detect external pin changes while caching is enabled, since Read never
// bypasses a fresh cache hit.
func (p *Port) Update(r Register) (uint8, error) {
	v, err := p.xport.ReadByte(p.address(r))
	if err != nil {
		return 0, err
	}
	diff := uint8(0xFF)
	if s := p.cache[r]; s.known {
		diff = s.value ^ v
	}
	p.cache[r] = cacheSlot{value: v, known: true}
	return diff, nil
}

// Commit drains the write queue in FIFO order, writing each pending
// register's cached value to hardware. On a transport failure the failed
// register and everything queued after it remain pending. Commit is valid
// in any caching mode.
func (p *Port) Commit() error {
	for len(p.queue) > 0 {
		r := p.queue[0]
		if err := p.xport.WriteByte(p.address(r), p.cache[r].value); err != nil {
			return err
		}
		p.queue = p.queue[1:]
	}
	p.queue = nil
	return nil
}

// Reset writes the hardware default to every register except GPIO and
// IOCON, through the normal Write path so the writes participate in
// caching, then commits unconditionally so the defaults always reach
// hardware whatever the caller's caching preference.
func (p *Port) Reset() error {
	for _, rv := range resetValues {
		if err := p.Write(rv.reg, rv.val); err != nil {
			return err
		}
	}
	return p.Commit()
}

func (p *Port) enqueue(r Register) {
	for _, q := range p.queue {
		if q == r {
			return
		}
	}
	p.queue = append(p.queue, r)
}

// readConfig returns the IOCON value through the normal caching path.
// Only Device uses this; IOCON is not part of the Register enumeration.
func (p *Port) readConfig() (uint8, error) {
	return p.Read(regIOCON)
}

// writeConfig writes IOCON directly to hardware, never through the queue.
// The cache slot is refreshed so later reads stay coherent.
func (p *Port) writeConfig(value uint8) error {
	if err := p.xport.WriteByte(p.address(regIOCON), value); err != nil {
		return err
	}
	p.cache[regIOCON] = cacheSlot{value: value, known: true}
	return nil
}

// latchReadback computes the synthetic GPIO cache entry after an OLAT
// write. On hardware, writing OLAT immediately changes the GPIO reading
// for output-configured bits; updating the cache here keeps a caching
// consumer's GPIO reads correct without a bus round-trip.
//
// With direction unknown, or mixed direction and no prior GPIO value, the
// old entry is returned untouched and the cache stays stale until an
// explicit Update. Callers that rely on the simulated value must read
// IODIR and GPIO once before trusting it.
func latchReadback(dir, gpio cacheSlot, olat uint8) cacheSlot {
	if !dir.known {
		return gpio
	}
	if dir.value == 0x00 {
		// All outputs: GPIO mirrors the latch exactly.
		return cacheSlot{value: olat, known: true}
	}
	if !gpio.known {
		return gpio
	}
	// Keep bits belonging to inputs, replace bits belonging to outputs.
	return cacheSlot{value: gpio.value&dir.value | olat&^dir.value, known: true}
}
