// Package boardmap maps board-level signal names to expander pins.
//
// A board map file has one signal per line: a name, a pin designator
// (side letter plus bit, e.g. B3), a mode (input or output), and optional
// flags (pullup, invert). Hash comments and blank lines are ignored:
//
//	# name   pin   mode     flags
//	relay1   B3    output
//	door     A0    input    pullup invert
//
// The CLI loads a board map so commands can address pins by signal name,
// and Map.Apply pushes the described configuration into a driver Device.
package boardmap

import (
	"fmt"
	"strings"

	"github.com/JoakimHagen/MCP23X17/pkg/mcp23x17"
)

// Mode is a signal's configured direction.
type Mode uint8

const (
	ModeInput Mode = iota
	ModeOutput
)

func (m Mode) String() string {
	if m == ModeOutput {
		return "output"
	}
	return "input"
}

// Entry is one resolved signal definition.
type Entry struct {
	Name   string
	Side   mcp23x17.Side
	Bit    uint8
	Mode   Mode
	PullUp bool
	Invert bool
}

// Pin returns the entry's pin designator, e.g. "B3".
func (e Entry) Pin() string {
	return fmt.Sprintf("%s%d", e.Side, e.Bit)
}

// Map is a validated board map. Entries keep file order; lookups by signal
// name are case-sensitive.
type Map struct {
	entries []Entry
	byName  map[string]int
}

// Entries returns the signals in file order.
func (m *Map) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Lookup resolves a signal name.
func (m *Map) Lookup(name string) (Entry, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Apply configures every mapped pin on the device: direction, pull-up and
// polarity inversion. With caching enabled on the device the writes are
// deferred until the caller commits.
func (m *Map) Apply(d *mcp23x17.Device) error {
	for _, e := range m.entries {
		pin, err := d.PortPin(e.Side, e.Bit)
		if err != nil {
			return fmt.Errorf("boardmap: signal %s: %w", e.Name, err)
		}
		if err := pin.SetInput(e.Mode == ModeInput); err != nil {
			return fmt.Errorf("boardmap: signal %s: set direction: %w", e.Name, err)
		}
		if err := pin.SetPullUp(e.PullUp); err != nil {
			return fmt.Errorf("boardmap: signal %s: set pull-up: %w", e.Name, err)
		}
		if err := pin.SetInverted(e.Invert); err != nil {
			return fmt.Errorf("boardmap: signal %s: set polarity: %w", e.Name, err)
		}
	}
	return nil
}

// ParsePinName resolves a pin designator like "A0" or "b7" to its side and
// bit index.
func ParsePinName(s string) (mcp23x17.Side, uint8, error) {
	if len(s) != 2 {
		return 0, 0, fmt.Errorf("boardmap: invalid pin designator %q", s)
	}
	var side mcp23x17.Side
	switch s[0] {
	case 'A', 'a':
		side = mcp23x17.SideA
	case 'B', 'b':
		side = mcp23x17.SideB
	default:
		return 0, 0, fmt.Errorf("boardmap: invalid pin side in %q", s)
	}
	if s[1] < '0' || s[1] > '7' {
		return 0, 0, fmt.Errorf("boardmap: invalid pin bit in %q", s)
	}
	return side, s[1] - '0', nil
}

// resolve turns the raw parse tree into a validated Map.
func resolve(file *astFile) (*Map, error) {
	m := &Map{byName: make(map[string]int)}
	for _, raw := range file.Entries {
		if _, dup := m.byName[raw.Name]; dup {
			return nil, fmt.Errorf("boardmap: %s: duplicate signal %q", raw.Pos, raw.Name)
		}

		side, bit, err := ParsePinName(raw.Pin)
		if err != nil {
			return nil, fmt.Errorf("boardmap: %s: %w", raw.Pos, err)
		}

		var mode Mode
		switch strings.ToLower(raw.Mode) {
		case "input":
			mode = ModeInput
		case "output":
			mode = ModeOutput
		default:
			return nil, fmt.Errorf("boardmap: %s: unknown mode %q (want input or output)", raw.Pos, raw.Mode)
		}

		e := Entry{Name: raw.Name, Side: side, Bit: bit, Mode: mode}
		for _, flag := range raw.Flags {
			switch strings.ToLower(flag) {
			case "pullup":
				e.PullUp = true
			case "invert":
				e.Invert = true
			default:
				return nil, fmt.Errorf("boardmap: %s: unknown flag %q", raw.Pos, flag)
			}
		}

		m.byName[e.Name] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m, nil
}
