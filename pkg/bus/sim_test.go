package bus

import (
	"errors"
	"testing"
)

func TestSimResetState(t *testing.T) {
	s := NewSimTransport()
	for side := 0; side < 2; side++ {
		if v := s.Register(side, simIODIR); v != 0xFF {
			t.Fatalf("side %d IODIR = 0x%02X, want 0xFF", side, v)
		}
		if v := s.Register(side, simOLAT); v != 0x00 {
			t.Fatalf("side %d OLAT = 0x%02X, want 0x00", side, v)
		}
	}
	if v := s.Register(0, simIOCON); v != 0x00 {
		t.Fatalf("IOCON = 0x%02X, want 0x00 (paired addressing)", v)
	}
}

func TestSimPairedDecode(t *testing.T) {
	s := NewSimTransport()

	if err := s.WriteByte(0x0C, 0x11); err != nil { // GPPU A
		t.Fatalf("WriteByte returned error: %v", err)
	}
	if err := s.WriteByte(0x0D, 0x22); err != nil { // GPPU B
		t.Fatalf("WriteByte returned error: %v", err)
	}
	if a, b := s.Register(0, simGPPU), s.Register(1, simGPPU); a != 0x11 || b != 0x22 {
		t.Fatalf("GPPU = A 0x%02X B 0x%02X, want 0x11/0x22", a, b)
	}

	if _, err := s.ReadByte(0x16); err == nil {
		t.Fatalf("paired read at 0x16 succeeded, want invalid address error")
	}
}

func TestSimBankedDecode(t *testing.T) {
	s := NewSimTransport()
	// Flip BANK through the bus itself, at the paired IOCON address.
	if err := s.WriteByte(0x0A, simBankBit); err != nil {
		t.Fatalf("WriteByte returned error: %v", err)
	}

	if err := s.WriteByte(0x06, 0x33); err != nil { // banked GPPU A
		t.Fatalf("WriteByte returned error: %v", err)
	}
	if err := s.WriteByte(0x16, 0x44); err != nil { // banked GPPU B
		t.Fatalf("WriteByte returned error: %v", err)
	}
	if a, b := s.Register(0, simGPPU), s.Register(1, simGPPU); a != 0x33 || b != 0x44 {
		t.Fatalf("GPPU = A 0x%02X B 0x%02X, want 0x33/0x44", a, b)
	}

	// IOCON stays reachable from both sides and is one shared byte.
	va, err := s.ReadByte(0x05)
	if err != nil {
		t.Fatalf("ReadByte returned error: %v", err)
	}
	vb, err := s.ReadByte(0x15)
	if err != nil {
		t.Fatalf("ReadByte returned error: %v", err)
	}
	if va != simBankBit || vb != simBankBit {
		t.Fatalf("IOCON = A 0x%02X B 0x%02X, want shared 0x%02X", va, vb, simBankBit)
	}

	if _, err := s.ReadByte(0x0B); err == nil {
		t.Fatalf("banked read at 0x0B succeeded, want invalid address error")
	}
}

func TestSimGPIOWriteAliasesOLAT(t *testing.T) {
	s := NewSimTransport()

	if err := s.WriteByte(0x12, 0xA5); err != nil { // GPIO A
		t.Fatalf("WriteByte returned error: %v", err)
	}
	if v := s.Register(0, simOLAT); v != 0xA5 {
		t.Fatalf("OLAT = 0x%02X, want GPIO write redirected", v)
	}
}

func TestSimGPIORead(t *testing.T) {
	s := NewSimTransport()
	// Lower nibble output, upper nibble input.
	s.SetRegister(0, simIODIR, 0xF0)
	s.SetRegister(0, simOLAT, 0xFF)
	s.SetPinLevels(0, 0x50)

	v, err := s.ReadByte(0x12)
	if err != nil {
		t.Fatalf("ReadByte returned error: %v", err)
	}
	if v != 0x0F|0x50 {
		t.Fatalf("GPIO = 0x%02X, want 0x5F (latch low, levels high)", v)
	}

	// IPOL inverts per bit.
	s.SetRegister(0, simIPOL, 0xF0)
	v, err = s.ReadByte(0x12)
	if err != nil {
		t.Fatalf("ReadByte returned error: %v", err)
	}
	if v != 0x0F|0xA0 {
		t.Fatalf("inverted GPIO = 0x%02X, want 0xAF", v)
	}
}

func TestSimInterruptRegistersReadOnly(t *testing.T) {
	s := NewSimTransport()
	s.SetRegister(0, simINTF, 0x08)
	s.SetRegister(0, simINTCAP, 0x88)

	// Bus writes are accepted and dropped.
	if err := s.WriteByte(0x0E, 0x00); err != nil { // INTF A
		t.Fatalf("WriteByte returned error: %v", err)
	}
	if err := s.WriteByte(0x10, 0x00); err != nil { // INTCAP A
		t.Fatalf("WriteByte returned error: %v", err)
	}

	if v := s.Register(0, simINTF); v != 0x08 {
		t.Fatalf("INTF = 0x%02X, want seeded 0x08", v)
	}
	if v := s.Register(0, simINTCAP); v != 0x88 {
		t.Fatalf("INTCAP = 0x%02X, want seeded 0x88", v)
	}
}

func TestSimJournal(t *testing.T) {
	s := NewSimTransport()

	if err := s.WriteByte(0x00, 0x0F); err != nil {
		t.Fatalf("WriteByte returned error: %v", err)
	}
	if _, err := s.ReadByte(0x00); err != nil {
		t.Fatalf("ReadByte returned error: %v", err)
	}

	want := []Op{
		{Kind: OpWrite, Addr: 0x00, Value: 0x0F},
		{Kind: OpRead, Addr: 0x00, Value: 0x0F},
	}
	ops := s.Ops()
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("op %d = %+v, want %+v", i, ops[i], want[i])
		}
	}

	s.ClearOps()
	if len(s.Ops()) != 0 {
		t.Fatalf("journal not empty after ClearOps")
	}
}

func TestSimAccessHook(t *testing.T) {
	s := NewSimTransport()
	errInjected := errors.New("injected")
	s.OnAccess = func(kind OpKind, addr uint8, value uint8) error {
		if kind == OpWrite && addr == 0x0C {
			return errInjected
		}
		return nil
	}

	if err := s.WriteByte(0x0C, 0x7F); !errors.Is(err, errInjected) {
		t.Fatalf("WriteByte error = %v, want injected", err)
	}
	// The failed access changed nothing and was not journalled.
	if v := s.Register(0, simGPPU); v != 0x00 {
		t.Fatalf("GPPU = 0x%02X after failed write, want 0x00", v)
	}
	if len(s.Ops()) != 0 {
		t.Fatalf("failed access journalled: %v", s.Ops())
	}

	if err := s.WriteByte(0x0D, 0x7F); err != nil {
		t.Fatalf("WriteByte returned error: %v", err)
	}
}

func TestSimClosed(t *testing.T) {
	s := NewSimTransport()
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, err := s.ReadByte(0x00); err == nil {
		t.Fatalf("ReadByte succeeded on closed simulator")
	}
	if err := s.WriteByte(0x00, 0x00); err == nil {
		t.Fatalf("WriteByte succeeded on closed simulator")
	}
}

func TestValidateAddress(t *testing.T) {
	for _, addr := range []uint8{0x20, 0x23, 0x27} {
		if err := ValidateAddress(addr); err != nil {
			t.Fatalf("ValidateAddress(0x%02X) returned error: %v", addr, err)
		}
	}
	for _, addr := range []uint8{0x1F, 0x28, 0x00} {
		if err := ValidateAddress(addr); err == nil {
			t.Fatalf("ValidateAddress(0x%02X) succeeded, want error", addr)
		}
	}
}
