package bus

import (
	"fmt"
	"sync"
	"time"
)

const (
	// Default I2C bus speed programmed at open.
	DefaultBusSpeedHz = 400_000

	// How long to poll the I2C engine for read data before giving up.
	readPollAttempts = 50
	readPollDelay    = time.Millisecond
)

// MCP2221Transport implements Transport over a Microchip MCP2221A
// USB-to-I2C bridge, bound to one chip address.
type MCP2221Transport struct {
	transport *hidTransport
	protocol  *MCP2221Protocol

	addr    uint8
	speedHz int
	info    TransportInfo

	mu sync.Mutex
}

// NewMCP2221 opens the first attached MCP2221A (or the one matching
// serial, when non-empty) and binds it to the chip at addr.
func NewMCP2221(addr uint8, serial string) (*MCP2221Transport, error) {
	if err := ValidateAddress(addr); err != nil {
		return nil, err
	}

	transport, err := newHIDTransport(serial)
	if err != nil {
		return nil, fmt.Errorf("failed to open USB device: %w", err)
	}

	t := &MCP2221Transport{
		transport: transport,
		protocol:  NewMCP2221Protocol(transport.PacketSize()),
		addr:      addr,
		speedHz:   DefaultBusSpeedHz,
	}

	if err := t.setup(); err != nil {
		transport.Close()
		return nil, err
	}

	t.queryInfo()
	return t, nil
}

// setup cancels any transfer a previous session left behind and programs
// the default bus speed.
func (t *MCP2221Transport) setup() error {
	cmd, err := t.protocol.EncodeStatus(true, t.speedHz)
	if err != nil {
		return err
	}
	resp, err := t.transport.WriteRead(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize I2C engine: %w", err)
	}
	return t.protocol.DecodeStatus(resp)
}

func (t *MCP2221Transport) queryInfo() {
	serial, _ := t.transport.dev.SerialNumber()
	manufacturer, _ := t.transport.dev.Manufacturer()
	product, _ := t.transport.dev.Product()

	t.info = TransportInfo{
		Name:         "MCP2221 USB-I2C bridge",
		Vendor:       manufacturer,
		Model:        product,
		SerialNumber: serial,
		BusSpeedHz:   t.speedHz,
		Notes:        fmt.Sprintf("chip address 0x%02X", t.addr),
	}
}

// Info returns bridge details captured at open.
func (t *MCP2221Transport) Info() (TransportInfo, error) {
	return t.info, nil
}

// SetSpeed reprograms the I2C bus clock.
func (t *MCP2221Transport) SetSpeed(hz int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd, err := t.protocol.EncodeStatus(false, hz)
	if err != nil {
		return err
	}
	resp, err := t.transport.WriteRead(cmd)
	if err != nil {
		return fmt.Errorf("set speed failed: %w", err)
	}
	if err := t.protocol.DecodeStatus(resp); err != nil {
		return err
	}
	t.speedHz = hz
	t.info.BusSpeedHz = hz
	return nil
}

// ReadByte reads one register: a write of the register address without a
// stop condition, then a repeated-start read of one byte.
func (t *MCP2221Transport) ReadByte(reg uint8) (uint8, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.i2cWrite([]byte{reg}, true); err != nil {
		return 0, fmt.Errorf("register pointer write failed: %w", err)
	}

	cmd := t.protocol.EncodeI2CRead(t.addr, 1, true)
	resp, err := t.transport.WriteRead(cmd)
	if err != nil {
		return 0, fmt.Errorf("read command failed: %w", err)
	}
	if _, err := t.protocol.DecodeTransfer(resp); err != nil {
		return 0, err
	}

	data, err := t.collectReadData(1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// WriteByte writes one register as a two-byte I2C transfer.
func (t *MCP2221Transport) WriteByte(reg uint8, value uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.i2cWrite([]byte{reg, value}, false)
}

func (t *MCP2221Transport) i2cWrite(data []byte, noStop bool) error {
	cmd, err := t.protocol.EncodeI2CWrite(t.addr, data, noStop)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < readPollAttempts; attempt++ {
		resp, err := t.transport.WriteRead(cmd)
		if err != nil {
			return err
		}
		busy, err := t.protocol.DecodeTransfer(resp)
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
		time.Sleep(readPollDelay)
	}
	return fmt.Errorf("bus: i2c engine stayed busy")
}

// collectReadData polls the engine until the requested bytes arrive.
func (t *MCP2221Transport) collectReadData(n int) ([]byte, error) {
	cmd := t.protocol.EncodeGetI2CData()
	for attempt := 0; attempt < readPollAttempts; attempt++ {
		resp, err := t.transport.WriteRead(cmd)
		if err != nil {
			return nil, fmt.Errorf("get-data command failed: %w", err)
		}
		data, ready, err := t.protocol.DecodeGetI2CData(resp)
		if err != nil {
			return nil, err
		}
		if ready {
			if len(data) < n {
				return nil, fmt.Errorf("bus: short i2c read (%d of %d bytes)", len(data), n)
			}
			return data, nil
		}
		time.Sleep(readPollDelay)
	}
	return nil, fmt.Errorf("bus: i2c read timed out")
}

// Close cancels any pending transfer and releases the USB device.
func (t *MCP2221Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.transport == nil {
		return nil
	}
	if cmd, err := t.protocol.EncodeStatus(true, 0); err == nil {
		t.transport.WriteRead(cmd)
	}
	err := t.transport.Close()
	t.transport = nil
	return err
}
