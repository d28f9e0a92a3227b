package bus

import "fmt"

// MCP2221 HID command IDs
const (
	CmdStatusSetParameters = 0x10
	CmdGetI2CData          = 0x40
	CmdI2CWrite            = 0x90
	CmdI2CRead             = 0x91
	CmdI2CReadRepeated     = 0x93
	CmdI2CWriteNoStop      = 0x94
)

// Status/Set Parameters sub-command markers
const (
	StatusCancelTransfer = 0x10
	StatusSetSpeed       = 0x20
)

// Response codes
const (
	RespOK   = 0x00
	RespBusy = 0x01
)

// ReadLenError is reported in the byte-count field of a Get I2C Data
// response when the engine has no data for us yet.
const ReadLenError = 127

// The I2C engine derives its clock from a 12 MHz source; the divider set
// through Status/Set Parameters is 12 MHz / speed - 3.
const i2cClockHz = 12_000_000

// MCP2221Protocol encodes and decodes the MCP2221A's 64-byte HID command
// reports. It carries no connection state, so it can be exercised without
// a device attached.
type MCP2221Protocol struct {
	PacketSize int
}

// NewMCP2221Protocol creates a protocol handler for the given report size.
func NewMCP2221Protocol(packetSize int) *MCP2221Protocol {
	return &MCP2221Protocol{PacketSize: packetSize}
}

func (p *MCP2221Protocol) packet() []byte {
	return make([]byte, p.PacketSize)
}

// EncodeStatus builds a Status/Set Parameters command. cancel aborts any
// transfer the I2C engine is stuck in; speedHz, when non-zero, reprograms
// the bus clock.
func (p *MCP2221Protocol) EncodeStatus(cancel bool, speedHz int) ([]byte, error) {
	cmd := p.packet()
	cmd[0] = CmdStatusSetParameters
	if cancel {
		cmd[2] = StatusCancelTransfer
	}
	if speedHz > 0 {
		div := i2cClockHz/speedHz - 3
		if div < 0 || div > 255 {
			return nil, fmt.Errorf("bus: i2c speed %d Hz out of range", speedHz)
		}
		cmd[3] = StatusSetSpeed
		cmd[4] = byte(div)
	}
	return cmd, nil
}

// DecodeStatus checks a Status/Set Parameters response.
func (p *MCP2221Protocol) DecodeStatus(resp []byte) error {
	if len(resp) < 2 {
		return fmt.Errorf("bus: status response too short")
	}
	if resp[0] != CmdStatusSetParameters {
		return fmt.Errorf("bus: unexpected command echo 0x%02X", resp[0])
	}
	if resp[1] != RespOK {
		return fmt.Errorf("bus: status command failed (0x%02X)", resp[1])
	}
	return nil
}

// EncodeI2CWrite builds an I2C write of data to the 7-bit chip address.
// noStop keeps the bus claimed so a repeated-start read can follow.
func (p *MCP2221Protocol) EncodeI2CWrite(addr uint8, data []byte, noStop bool) ([]byte, error) {
	if len(data) > p.PacketSize-4 {
		return nil, fmt.Errorf("bus: i2c write of %d bytes exceeds packet", len(data))
	}
	cmd := p.packet()
	cmd[0] = CmdI2CWrite
	if noStop {
		cmd[0] = CmdI2CWriteNoStop
	}
	cmd[1] = byte(len(data))
	cmd[2] = byte(len(data) >> 8)
	cmd[3] = addr << 1
	copy(cmd[4:], data)
	return cmd, nil
}

// EncodeI2CRead builds an I2C read of n bytes from the 7-bit chip address.
// repeated issues a repeated start instead of a fresh start condition.
func (p *MCP2221Protocol) EncodeI2CRead(addr uint8, n int, repeated bool) []byte {
	cmd := p.packet()
	cmd[0] = CmdI2CRead
	if repeated {
		cmd[0] = CmdI2CReadRepeated
	}
	cmd[1] = byte(n)
	cmd[2] = byte(n >> 8)
	cmd[3] = addr<<1 | 1
	return cmd
}

// DecodeTransfer checks the immediate response to an I2C read or write
// command. A busy engine is reported as errBusy=true so the caller can
// retry after the engine settles.
func (p *MCP2221Protocol) DecodeTransfer(resp []byte) (busy bool, err error) {
	if len(resp) < 2 {
		return false, fmt.Errorf("bus: transfer response too short")
	}
	switch resp[1] {
	case RespOK:
		return false, nil
	case RespBusy:
		return true, nil
	default:
		return false, fmt.Errorf("bus: i2c transfer failed (0x%02X)", resp[1])
	}
}

// EncodeGetI2CData builds the command that fetches bytes collected by a
// previous read transfer.
func (p *MCP2221Protocol) EncodeGetI2CData() []byte {
	cmd := p.packet()
	cmd[0] = CmdGetI2CData
	return cmd
}

// DecodeGetI2CData extracts the collected bytes. ready=false means the
// engine has not finished the transfer yet.
func (p *MCP2221Protocol) DecodeGetI2CData(resp []byte) (data []byte, ready bool, err error) {
	if len(resp) < 4 {
		return nil, false, fmt.Errorf("bus: get-data response too short")
	}
	if resp[0] != CmdGetI2CData {
		return nil, false, fmt.Errorf("bus: unexpected command echo 0x%02X", resp[0])
	}
	if resp[1] != RespOK {
		return nil, false, nil
	}
	n := int(resp[3])
	if n == ReadLenError {
		return nil, false, nil
	}
	if 4+n > len(resp) {
		return nil, false, fmt.Errorf("bus: get-data count %d exceeds packet", n)
	}
	return append([]byte(nil), resp[4:4+n]...), true, nil
}
