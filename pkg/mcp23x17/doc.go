// Package mcp23x17 is a host-side driver core for the MCP23017/MCP23S17
// family of dual-port 8-bit I/O expanders.
//
// The package exposes three layers over an injected byte transport:
//   - Port: one side's registers, with an optional write-behind cache
//   - Device: whole-chip 16-bit operations and IOCON configuration flags
//   - Pin: a per-bit facade over a Port
//
// # Caching model
//
// Each Port keeps an 11-slot cache of optional register bytes and a FIFO
// queue of registers with pending deferred writes. With caching enabled:
//
//   - Read returns the cached value when one is known, touching the bus
//     only on a cache miss.
//   - Write updates the cache and queues the register for Commit. A write
//     of the value already cached is skipped entirely, and re-writing an
//     already-queued register keeps its queue position.
//   - Commit drains the queue in first-write order, one bus write per
//     pending register.
//   - Update forces a bus read and returns a bitwise diff against the old
//     cached value (0xFF when nothing was cached), which is the only way
//     to observe external input changes past a warm cache.
//
// Writing OLAT also updates the cached GPIO value for output-configured
// bits, mirroring what the chip does, so cached GPIO reads stay correct
// without a bus round-trip. When the direction register has never been
// read the GPIO cache is deliberately left stale; read IODIR and GPIO once
// before trusting cached pin state.
//
// With caching disabled every write goes straight to the bus, but reads
// still refresh the cache so enabling caching later starts consistent.
//
// # Addressing
//
// The chip has two register address layouts selected by the IOCON BANK
// bit. Address translation is recomputed on every access from the Port's
// side and bank flag; Device.SetBankMode flips the chip flag and both
// Ports' translation together.
//
// # Usage
//
//	xport := bus.NewSimTransport()
//	dev := mcp23x17.NewDevice(xport)
//	dev.SetCaching(true)
//
//	pin, _ := dev.PortPin(mcp23x17.SideB, 3)
//	_ = pin.SetInput(false)
//	_ = pin.SetValue(true)
//	_ = dev.Commit() // flush deferred writes to the bus
//
// # Concurrency
//
// Everything here is single-threaded and synchronous. A Port runs each
// operation to completion on the caller's goroutine with no internal
// locking; wrap a Port or Device in external mutual exclusion if it must
// be shared.
//
// # Errors
//
// Transport failures propagate to the caller unwrapped. There is no
// rollback: a failed write leaves the cache holding the intended value, and
// a failed Commit leaves the undelivered registers queued for the next
// attempt. There is no retry logic; every bus access is attempted exactly
// once. The only validated precondition is the Pin bit index.
package mcp23x17
