//go:build !linux

package bus

import "fmt"

// NewI2CDev is only available on Linux; elsewhere it reports
// ErrNotImplemented.
func NewI2CDev(busNum int, addr uint8) (Transport, error) {
	return nil, fmt.Errorf("i2c-dev transport requires linux: %w", ErrNotImplemented)
}
