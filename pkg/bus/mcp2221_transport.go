package bus

import (
	"fmt"
	"time"

	"github.com/google/gousb"
)

const (
	// MCP2221A USB identifiers
	VendorIDMicrochip = 0x04D8
	ProductIDMCP2221  = 0x00DD

	// HID reports are fixed at 64 bytes on this part.
	mcp2221PacketSize = 64

	mcp2221Timeout = 5 * time.Second
)

// hidTransport handles the USB interrupt-endpoint plumbing for the
// MCP2221A's HID interface.
type hidTransport struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	intf *gousb.Interface

	epOut *gousb.OutEndpoint
	epIn  *gousb.InEndpoint

	packetSize int
	timeout    time.Duration
}

// newHIDTransport opens the first MCP2221A on the bus, optionally matching
// a serial number, and claims its HID interface.
func newHIDTransport(serial string) (*hidTransport, error) {
	ctx := gousb.NewContext()

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == VendorIDMicrochip && desc.Product == ProductIDMCP2221
	})
	if err != nil && len(devs) == 0 {
		ctx.Close()
		return nil, fmt.Errorf("USB error: %w", err)
	}

	var dev *gousb.Device
	for _, d := range devs {
		if dev != nil {
			d.Close()
			continue
		}
		if serial != "" {
			sn, _ := d.SerialNumber()
			if sn != serial {
				d.Close()
				continue
			}
		}
		dev = d
	}
	if dev == nil {
		ctx.Close()
		if serial != "" {
			return nil, fmt.Errorf("MCP2221 with serial %q not found", serial)
		}
		return nil, fmt.Errorf("device not found (VID:0x%04X PID:0x%04X)", VendorIDMicrochip, ProductIDMCP2221)
	}

	// Detach usbhid so we can claim the interface on Linux.
	if err := dev.SetAutoDetach(true); err != nil {
		// Not fatal on all platforms
	}

	t := &hidTransport{
		ctx:        ctx,
		dev:        dev,
		packetSize: mcp2221PacketSize,
		timeout:    mcp2221Timeout,
	}

	if err := t.claimInterface(); err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}

	return t, nil
}

// claimInterface finds and claims the HID interface. The MCP2221A exposes
// CDC and HID functions; the I2C engine lives behind HID.
func (t *hidTransport) claimInterface() error {
	cfg, err := t.dev.Config(1)
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}

	hidIntfNum := -1
	for _, intf := range cfg.Desc.Interfaces {
		if len(intf.AltSettings) > 0 && intf.AltSettings[0].Class == gousb.ClassHID {
			hidIntfNum = intf.Number
			break
		}
	}
	if hidIntfNum == -1 {
		return fmt.Errorf("HID interface not found")
	}

	intf, err := cfg.Interface(hidIntfNum, 0)
	if err != nil {
		return fmt.Errorf("failed to claim interface %d: %w", hidIntfNum, err)
	}
	t.intf = intf

	if err := t.findEndpoints(); err != nil {
		intf.Close()
		return err
	}
	return nil
}

// findEndpoints discovers the interrupt IN and OUT endpoints.
func (t *hidTransport) findEndpoints() error {
	setting := t.intf.Setting

	var outAddr, inAddr int
	for _, ep := range setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeInterrupt {
			continue
		}
		switch ep.Direction {
		case gousb.EndpointDirectionOut:
			if outAddr == 0 {
				outAddr = ep.Number
			}
		case gousb.EndpointDirectionIn:
			if inAddr == 0 {
				inAddr = ep.Number
				if ep.MaxPacketSize > 0 && ep.MaxPacketSize < t.packetSize {
					t.packetSize = ep.MaxPacketSize
				}
			}
		}
	}

	if outAddr == 0 {
		return fmt.Errorf("interrupt OUT endpoint not found")
	}
	if inAddr == 0 {
		return fmt.Errorf("interrupt IN endpoint not found")
	}

	epOut, err := t.intf.OutEndpoint(outAddr)
	if err != nil {
		return fmt.Errorf("failed to open OUT endpoint: %w", err)
	}
	t.epOut = epOut

	epIn, err := t.intf.InEndpoint(inAddr)
	if err != nil {
		return fmt.Errorf("failed to open IN endpoint: %w", err)
	}
	t.epIn = epIn

	return nil
}

// WriteRead performs a command/response transaction. Reports are fixed
// size, so the command is padded to the packet length.
func (t *hidTransport) WriteRead(cmd []byte) ([]byte, error) {
	packet := make([]byte, t.packetSize)
	copy(packet, cmd)

	if _, err := t.epOut.Write(packet); err != nil {
		return nil, fmt.Errorf("USB write failed: %w", err)
	}

	resp := make([]byte, t.packetSize)
	n, err := t.epIn.Read(resp)
	if err != nil {
		return nil, fmt.Errorf("USB read failed: %w", err)
	}
	return resp[:n], nil
}

// PacketSize returns the negotiated report size.
func (t *hidTransport) PacketSize() int {
	return t.packetSize
}

// Close releases USB resources.
func (t *hidTransport) Close() error {
	if t.intf != nil {
		t.intf.Close()
		t.intf = nil
	}
	if t.dev != nil {
		t.dev.Close()
		t.dev = nil
	}
	if t.ctx != nil {
		t.ctx.Close()
		t.ctx = nil
	}
	return nil
}

// BridgeInfo describes a discovered MCP2221A bridge.
type BridgeInfo struct {
	VID          uint16
	PID          uint16
	SerialNumber string
	Description  string
}

// EnumerateMCP2221 finds all connected MCP2221A bridges.
func EnumerateMCP2221() ([]BridgeInfo, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	bridges := make([]BridgeInfo, 0)

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == VendorIDMicrochip && desc.Product == ProductIDMCP2221
	})
	if err != nil && len(devs) == 0 {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	for _, dev := range devs {
		serial, _ := dev.SerialNumber()
		manufacturer, _ := dev.Manufacturer()
		product, _ := dev.Product()

		bridges = append(bridges, BridgeInfo{
			VID:          uint16(dev.Desc.Vendor),
			PID:          uint16(dev.Desc.Product),
			SerialNumber: serial,
			Description:  fmt.Sprintf("%s %s", manufacturer, product),
		})
		dev.Close()
	}

	return bridges, nil
}
