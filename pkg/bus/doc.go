// Package bus provides the byte-level transports behind the mcp23x17
// driver core.
//
// A Transport gives register-addressed access to a single chip. Three
// implementations ship with the module:
//
//   - SimTransport: an in-memory register file for tests and offline use
//   - MCP2221Transport: a Microchip MCP2221A USB-to-I2C bridge via gousb
//   - I2CDevTransport: the Linux /dev/i2c-N character device (linux only)
//
// The driver core treats the transport as opaque: it issues single-byte
// register reads and writes and propagates transport errors untouched.
package bus
