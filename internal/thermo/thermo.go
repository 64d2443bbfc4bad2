// Package thermo samples a DS1631 digital thermometer in one-shot mode.
package thermo

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/alarm-clock/internal/bus"
	"github.com/sweeney/alarm-clock/internal/clock"
)

// DefaultAddress is the sensor with A2..A0 grounded.
const DefaultAddress = 0x48

// Command bytes.
const (
	cmdStartConvert = 0x51
	cmdReadTemp     = 0xAA
	cmdAccessConfig = 0xAC
)

// configOneShot selects 12-bit resolution (R1=R0=1) and one-shot mode.
const configOneShot = 0x0D

// ConversionTime is the worst-case 12-bit conversion time.
const ConversionTime = 750 * time.Millisecond

// Sensor range.
const (
	MinCelsius = -55.0
	MaxCelsius = 125.0
)

// ErrMalformed means the sensor returned a value it cannot produce.
var ErrMalformed = errors.New("thermo: reading out of sensor range")

// Device is one DS1631.
type Device struct {
	tx   bus.Transport
	clk  clock.Clock
	addr uint16
}

// New creates a driver; addr 0 uses DefaultAddress.
func New(tx bus.Transport, clk clock.Clock, addr uint16) *Device {
	if addr == 0 {
		addr = DefaultAddress
	}
	return &Device{tx: tx, clk: clk, addr: addr}
}

// Configure puts the sensor in 12-bit one-shot mode.
func (d *Device) Configure() error {
	if err := bus.WriteBytes(d.tx, d.addr, []byte{cmdAccessConfig, configOneShot}); err != nil {
		return fmt.Errorf("configure sensor: %w", err)
	}
	return nil
}

// ReadCelsius starts a conversion, blocks for ConversionTime and reads the
// result.
func (d *Device) ReadCelsius() (float64, error) {
	if err := bus.WriteByte(d.tx, d.addr, cmdStartConvert); err != nil {
		return 0, fmt.Errorf("start conversion: %w", err)
	}
	d.clk.Sleep(ConversionTime)

	var buf [2]byte
	if err := bus.ReadRegister(d.tx, d.addr, cmdReadTemp, buf[:]); err != nil {
		return 0, fmt.Errorf("read temperature: %w", err)
	}
	c := Decode(buf[0], buf[1])
	if c < MinCelsius || c > MaxCelsius {
		return 0, fmt.Errorf("%w: %.2f", ErrMalformed, c)
	}
	return c, nil
}

// Decode converts the two temperature bytes (MSB first, two's complement,
// 1/256 °C per count) to degrees Celsius.
func Decode(msb, lsb byte) float64 {
	raw := int16(uint16(msb)<<8 | uint16(lsb))
	return float64(raw) / 256
}
