package mcp23x17

import "testing"

func TestRegistersExcludeConfig(t *testing.T) {
	regs := Registers()
	if len(regs) != 10 {
		t.Fatalf("Registers() has %d entries, want 10", len(regs))
	}
	for _, r := range regs {
		if r == regIOCON {
			t.Fatalf("Registers() exposes the configuration register")
		}
	}
	// Index order must be preserved across the IOCON gap.
	if regs[4] != INTCON || regs[5] != GPPU {
		t.Fatalf("Registers()[4:6] = %s, %s, want INTCON, GPPU", regs[4], regs[5])
	}
}

func TestParseRegister(t *testing.T) {
	cases := []struct {
		name    string
		want    Register
		wantErr bool
	}{
		{"IODIR", IODIR, false},
		{"gpio", GPIO, false},
		{"Olat", OLAT, false},
		{"INTCAP", INTCAP, false},
		{"IOCON", 0, true},
		{"bogus", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseRegister(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseRegister(%q) succeeded, want error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRegister(%q) returned error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRegister(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestRegisterString(t *testing.T) {
	if got := GPINTEN.String(); got != "GPINTEN" {
		t.Fatalf("GPINTEN.String() = %q", got)
	}
	if got := regIOCON.String(); got != "Register(5)" {
		t.Fatalf("regIOCON.String() = %q, want fallback form", got)
	}
	if got := Register(42).String(); got != "Register(42)" {
		t.Fatalf("Register(42).String() = %q", got)
	}
}

func TestSideString(t *testing.T) {
	if SideA.String() != "A" || SideB.String() != "B" {
		t.Fatalf("Side strings = %q/%q, want A/B", SideA, SideB)
	}
}
