package bus

import "fmt"

// OpKind distinguishes journalled bus operations.
type OpKind uint8

const (
	OpRead OpKind = iota
	OpWrite
)

func (k OpKind) String() string {
	if k == OpWrite {
		return "write"
	}
	return "read"
}

// Op records one transport access for inspection within tests.
type Op struct {
	Kind  OpKind
	Addr  uint8
	Value uint8 // value written, or value returned by a read
}

// AccessHook lets tests intercept each access before the simulator applies
// it. Returning a non-nil error makes the access fail without touching the
// simulated registers.
type AccessHook func(kind OpKind, addr uint8, value uint8) error

// Register file indices inside the simulator. These match the chip's
// logical register layout on either side.
const (
	simIODIR = iota
	simIPOL
	simGPINTEN
	simDEFVAL
	simINTCON
	simIOCON
	simGPPU
	simINTF
	simINTCAP
	simGPIO
	simOLAT
	simRegCount
)

const simBankBit = 0x80

// SimTransport is an in-memory register file emulating one MCP23X17. It
// honors the chip's addressing quirks so driver behavior can be exercised
// without hardware:
//
//   - register addresses are decoded through the simulator's own IOCON
//     BANK bit, in both the paired and banked layouts
//   - writes to GPIO land in OLAT
//   - GPIO reads combine OLAT (output bits) with externally injected pin
//     levels (input bits), inverted per IPOL
//   - INTF and INTCAP are read-only; tests seed them via SetRegister
//   - IOCON is a single shared byte reachable from both sides' addresses
//
// Every access is journalled and can be failed through OnAccess.
type SimTransport struct {
	// regs holds both sides' registers; the IOCON slot of side A is the
	// shared configuration byte and side B's slot is unused.
	regs   [2][simRegCount]uint8
	levels [2]uint8 // externally driven input pin levels per side

	OnAccess AccessHook

	ops    []Op
	closed bool
}

// NewSimTransport returns a simulator holding the chip's hardware reset
// state: all pins inputs, every other register zero, paired addressing.
func NewSimTransport() *SimTransport {
	s := &SimTransport{}
	s.regs[0][simIODIR] = 0xFF
	s.regs[1][simIODIR] = 0xFF
	return s
}

func (s *SimTransport) Info() (TransportInfo, error) {
	return TransportInfo{
		Name:  "Simulator",
		Model: "MCP23X17 register file",
		Notes: "in-memory, no hardware",
	}, nil
}

func (s *SimTransport) ReadByte(reg uint8) (uint8, error) {
	if s.closed {
		return 0, fmt.Errorf("bus: simulator closed")
	}
	side, idx, err := s.decode(reg)
	if err != nil {
		return 0, err
	}
	if s.OnAccess != nil {
		if err := s.OnAccess(OpRead, reg, 0); err != nil {
			return 0, err
		}
	}

	var v uint8
	switch idx {
	case simIOCON:
		v = s.regs[0][simIOCON]
	case simGPIO:
		iodir := s.regs[side][simIODIR]
		pins := s.regs[side][simOLAT]&^iodir | s.levels[side]&iodir
		v = pins ^ s.regs[side][simIPOL]
	default:
		v = s.regs[side][idx]
	}

	s.ops = append(s.ops, Op{Kind: OpRead, Addr: reg, Value: v})
	return v, nil
}

func (s *SimTransport) WriteByte(reg uint8, value uint8) error {
	if s.closed {
		return fmt.Errorf("bus: simulator closed")
	}
	side, idx, err := s.decode(reg)
	if err != nil {
		return err
	}
	if s.OnAccess != nil {
		if err := s.OnAccess(OpWrite, reg, value); err != nil {
			return err
		}
	}

	switch idx {
	case simIOCON:
		s.regs[0][simIOCON] = value
	case simGPIO:
		s.regs[side][simOLAT] = value
	case simINTF, simINTCAP:
		// Read-only on hardware; the write is accepted and dropped.
	default:
		s.regs[side][idx] = value
	}

	s.ops = append(s.ops, Op{Kind: OpWrite, Addr: reg, Value: value})
	return nil
}

func (s *SimTransport) Close() error {
	s.closed = true
	return nil
}

// decode maps a transport address to (side, register index) under the
// simulator's current BANK bit.
func (s *SimTransport) decode(addr uint8) (int, uint8, error) {
	if s.regs[0][simIOCON]&simBankBit != 0 {
		side := 0
		if addr&0x10 != 0 {
			side = 1
		}
		idx := addr & 0x0F
		if idx >= simRegCount {
			return 0, 0, fmt.Errorf("bus: invalid banked address 0x%02X", addr)
		}
		return side, idx, nil
	}
	idx := addr >> 1
	if idx >= simRegCount {
		return 0, 0, fmt.Errorf("bus: invalid paired address 0x%02X", addr)
	}
	return int(addr & 1), idx, nil
}

// SetPinLevels drives the externally visible levels of one side's input
// pins (side 0 = A, 1 = B). Bits of output-configured pins are ignored by
// GPIO reads.
func (s *SimTransport) SetPinLevels(side int, levels uint8) {
	s.levels[side] = levels
}

// Register returns the stored value of one side's register by logical
// index 0-10, bypassing journal and read semantics. GPIO returns what a
// bus read would see.
func (s *SimTransport) Register(side int, index uint8) uint8 {
	switch index {
	case simIOCON:
		return s.regs[0][simIOCON]
	case simGPIO:
		iodir := s.regs[side][simIODIR]
		pins := s.regs[side][simOLAT]&^iodir | s.levels[side]&iodir
		return pins ^ s.regs[side][simIPOL]
	}
	return s.regs[side][index]
}

// SetRegister seeds one side's register by logical index 0-10, bypassing
// the write semantics (INTF and INTCAP are settable here).
func (s *SimTransport) SetRegister(side int, index uint8, value uint8) {
	if index == simIOCON {
		s.regs[0][simIOCON] = value
		return
	}
	s.regs[side][index] = value
}

// Ops returns a copy of the journalled accesses in order.
func (s *SimTransport) Ops() []Op {
	return append([]Op(nil), s.ops...)
}

// ClearOps empties the journal.
func (s *SimTransport) ClearOps() {
	s.ops = nil
}
