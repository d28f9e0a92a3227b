//go:build linux

package bus

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// I2C_SLAVE ioctl from linux/i2c-dev.h.
const i2cSlave = 0x0703

// I2CDevTransport implements Transport over a Linux /dev/i2c-N character
// device, bound to one chip address.
type I2CDevTransport struct {
	fd   int
	bus  int
	addr uint8
}

// NewI2CDev opens /dev/i2c-<busNum> and selects the chip at addr.
func NewI2CDev(busNum int, addr uint8) (*I2CDevTransport, error) {
	if err := ValidateAddress(addr); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/dev/i2c-%d", busNum)
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("bus: open %s: %w", path, err)
	}

	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bus: select address 0x%02X on %s: %w", addr, path, err)
	}

	return &I2CDevTransport{fd: fd, bus: busNum, addr: addr}, nil
}

func (t *I2CDevTransport) Info() (TransportInfo, error) {
	return TransportInfo{
		Name:  "Linux i2c-dev",
		Model: fmt.Sprintf("/dev/i2c-%d", t.bus),
		Notes: fmt.Sprintf("chip address 0x%02X", t.addr),
	}, nil
}

// ReadByte writes the register address, then reads one byte back.
func (t *I2CDevTransport) ReadByte(reg uint8) (uint8, error) {
	if _, err := unix.Write(t.fd, []byte{reg}); err != nil {
		return 0, fmt.Errorf("bus: write register pointer 0x%02X: %w", reg, err)
	}
	buf := make([]byte, 1)
	n, err := unix.Read(t.fd, buf)
	if err != nil {
		return 0, fmt.Errorf("bus: read register 0x%02X: %w", reg, err)
	}
	if n != 1 {
		return 0, fmt.Errorf("bus: short read of register 0x%02X", reg)
	}
	return buf[0], nil
}

// WriteByte writes the register address and value in one transfer.
func (t *I2CDevTransport) WriteByte(reg uint8, value uint8) error {
	if _, err := unix.Write(t.fd, []byte{reg, value}); err != nil {
		return fmt.Errorf("bus: write register 0x%02X: %w", reg, err)
	}
	return nil
}

func (t *I2CDevTransport) Close() error {
	if t.fd < 0 {
		return nil
	}
	err := unix.Close(t.fd)
	t.fd = -1
	return err
}
