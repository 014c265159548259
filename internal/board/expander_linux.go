//go:build linux

package board

import (
	"fmt"

	"github.com/davecheney/i2c"
)

// OpenExpander opens the MCP23017 on the given I2C bus.
func OpenExpander(bus int, addr uint8, digits int) (*ExpanderDriver, error) {
	dev, err := i2c.New(addr, bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c-%d addr %#02x: %w", bus, addr, err)
	}
	d, err := NewExpanderDriver(dev, digits)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return d, nil
}
