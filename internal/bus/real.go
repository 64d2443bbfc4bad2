package bus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultSpeed is the standard-mode rate every device on the bus supports.
const DefaultSpeed = 100 * physic.KiloHertz

// Real is an I2C bus opened through periph.
type Real struct {
	bus i2c.BusCloser
}

// Open initializes the periph host drivers and opens the named I2C bus
// ("" picks the first one available, "1" is /dev/i2c-1).
func Open(name string, speed physic.Frequency) (*Real, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	if speed > 0 {
		if err := b.SetSpeed(speed); err != nil {
			b.Close()
			return nil, fmt.Errorf("set i2c speed %s: %w", speed, err)
		}
	}
	return &Real{bus: b}, nil
}

// Tx forwards to the periph bus.
func (r *Real) Tx(addr uint16, w, rd []byte) error {
	return r.bus.Tx(addr, w, rd)
}

// String names the underlying bus.
func (r *Real) String() string {
	return r.bus.String()
}

// Close releases the bus.
func (r *Real) Close() error {
	return r.bus.Close()
}
