package cmd

import (
	"fmt"
	"strconv"

	"github.com/JoakimHagen/MCP23X17/pkg/boardmap"
	"github.com/JoakimHagen/MCP23X17/pkg/bus"
	"github.com/JoakimHagen/MCP23X17/pkg/mcp23x17"
)

// createTransport builds the transport selected by the global flags.
func createTransport() (bus.Transport, error) {
	addr64, err := strconv.ParseUint(chipAddr, 0, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid chip address %q: %w", chipAddr, err)
	}
	addr := uint8(addr64)

	switch transportType {
	case "sim", "simulator":
		return bus.NewSimTransport(), nil
	case "mcp2221", "usb":
		return bus.NewMCP2221(addr, bridgeSerial)
	case "i2cdev", "i2c":
		return bus.NewI2CDev(i2cBusNum, addr)
	default:
		return nil, fmt.Errorf("unknown transport type %q", transportType)
	}
}

// openDevice builds the transport and wraps it in a driver Device with the
// requested caching mode. When a board map is given its pin configuration
// is applied immediately.
func openDevice() (*mcp23x17.Device, *boardmap.Map, error) {
	if verbose {
		fmt.Printf("Creating %s transport...\n", transportType)
	}

	xport, err := createTransport()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create transport: %w", err)
	}

	dev := mcp23x17.NewDevice(xport)
	dev.SetCaching(!noCache)

	var bmap *boardmap.Map
	if boardFile != "" {
		if verbose {
			fmt.Printf("Loading board map: %s\n", boardFile)
		}
		bmap, err = boardmap.LoadFile(boardFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load board map: %w", err)
		}
		if err := bmap.Apply(dev); err != nil {
			return nil, nil, fmt.Errorf("failed to apply board map: %w", err)
		}
	}

	return dev, bmap, nil
}

// resolvePin finds a pin by board map signal name or by designator, in
// that order.
func resolvePin(dev *mcp23x17.Device, bmap *boardmap.Map, name string) (*mcp23x17.Pin, error) {
	if bmap != nil {
		if entry, ok := bmap.Lookup(name); ok {
			return dev.PortPin(entry.Side, entry.Bit)
		}
	}

	side, bit, err := boardmap.ParsePinName(name)
	if err != nil {
		if bmap != nil {
			return nil, fmt.Errorf("no signal or pin named %q in board map or A0-B7", name)
		}
		return nil, err
	}
	return dev.PortPin(side, bit)
}
