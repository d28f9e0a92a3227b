package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags restores every flag variable to its default so tests do not
// leak state into each other.
func resetFlags() {
	verbose = false
	transportType = "sim"
	bridgeSerial = ""
	i2cBusNum = 1
	chipAddr = "0x20"
	boardFile = ""
	noCache = false

	readMask = "0xFFFF"
	pinHigh = false
	pinLow = false
	pinToggle = false
	pinRead = false
}

// runCommand executes the root command with args and returns captured
// stdout. Reading happens in a background goroutine to keep the pipe
// buffer from blocking on Windows.
func runCommand(t *testing.T, args []string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	resetFlags()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	<-done

	return buf.String(), err
}

func TestReadE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "iodir defaults",
			args:        []string{"read", "iodir"},
			wantContain: []string{"IODIR = 0xFFFF"},
		},
		{
			name:        "gpio side A only",
			args:        []string{"read", "gpio", "--mask", "0x00FF"},
			wantContain: []string{"GPIO = 0x0000"},
		},
		{
			name:    "unknown register",
			args:    []string{"read", "bogus"},
			wantErr: true,
		},
		{
			name:    "config register hidden",
			args:    []string{"read", "iocon"},
			wantErr: true,
		},
		{
			name:    "invalid mask",
			args:    []string{"read", "iodir", "--mask", "0xZZ"},
			wantErr: true,
		},
		{
			name:    "missing register argument",
			args:    []string{"read"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCommand(t, tt.args)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestWriteE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "write olat",
			args:        []string{"write", "olat", "0x00AA"},
			wantContain: []string{"OLAT := 0x00AA"},
		},
		{
			name:        "decimal value",
			args:        []string{"write", "iodir", "0"},
			wantContain: []string{"IODIR := 0x0000"},
		},
		{
			name:        "write through without cache",
			args:        []string{"write", "gppu", "0x0101", "--no-cache"},
			wantContain: []string{"GPPU := 0x0101"},
		},
		{
			name:    "invalid value",
			args:    []string{"write", "olat", "notanumber"},
			wantErr: true,
		},
		{
			name:    "value out of range",
			args:    []string{"write", "olat", "0x10000"},
			wantErr: true,
		},
		{
			name:    "missing value argument",
			args:    []string{"write", "olat"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCommand(t, tt.args)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestPinE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "drive high",
			args:        []string{"pin", "A3", "--high"},
			wantContain: []string{"Pin A3 set high"},
		},
		{
			name:        "drive low",
			args:        []string{"pin", "b7", "--low"},
			wantContain: []string{"Pin B7 set low"},
		},
		{
			name:        "toggle from reset latch",
			args:        []string{"pin", "A0", "--toggle"},
			wantContain: []string{"Pin A0 toggled to true"},
		},
		{
			name:        "default is read",
			args:        []string{"pin", "A0"},
			wantContain: []string{"Pin A0 = 0"},
		},
		{
			name:    "conflicting actions",
			args:    []string{"pin", "A0", "--high", "--low"},
			wantErr: true,
		},
		{
			name:    "bad designator",
			args:    []string{"pin", "Z9"},
			wantErr: true,
		},
		{
			name:    "missing pin argument",
			args:    []string{"pin"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCommand(t, tt.args)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestBoardMapE2E(t *testing.T) {
	mapFile := filepath.Join(t.TempDir(), "panel.map")
	content := "# test panel\nrelay1  B3  output\ndoor    A0  input  pullup\n"
	if err := os.WriteFile(mapFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write board map: %v", err)
	}

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "drive by signal name",
			args:        []string{"pin", "relay1", "--high", "--board", mapFile},
			wantContain: []string{"Pin B3 set high"},
		},
		{
			name:        "read by signal name",
			args:        []string{"pin", "door", "--read", "--board", mapFile},
			wantContain: []string{"Pin A0 = 0"},
		},
		{
			name:        "designators still work",
			args:        []string{"pin", "A1", "--board", mapFile},
			wantContain: []string{"Pin A1 = 0"},
		},
		{
			name:    "unknown signal",
			args:    []string{"pin", "missing", "--board", mapFile},
			wantErr: true,
		},
		{
			name:    "board map file missing",
			args:    []string{"pin", "relay1", "--board", filepath.Join(t.TempDir(), "nope.map")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCommand(t, tt.args)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestInfoE2E(t *testing.T) {
	output, err := runCommand(t, []string{"info"})
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}

	for _, want := range []string{
		"Transport Information",
		"Simulator",
		"Registers (B:A)",
		"IODIR",
		"0xFFFF",
		"OLAT",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing: %q\nGot:\n%s", want, output)
		}
	}
}

func TestResetE2E(t *testing.T) {
	output, err := runCommand(t, []string{"reset"})
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Device reset to hardware defaults") {
		t.Errorf("Output missing reset confirmation, got:\n%s", output)
	}
}

func TestVerboseFlag(t *testing.T) {
	output, err := runCommand(t, []string{"read", "iodir", "-v"})
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Creating sim transport") {
		t.Errorf("Verbose output missing transport line, got:\n%s", output)
	}
}

func TestTransportSelectionErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown transport", []string{"read", "iodir", "--transport", "bogus"}},
		{"invalid chip address", []string{"read", "iodir", "--addr", "0xZZ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCommand(t, tt.args); err == nil {
				t.Errorf("Expected error but got none")
			}
		})
	}
}
