package thermo

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/sweeney/alarm-clock/internal/bus"
	"github.com/sweeney/alarm-clock/internal/clock"
)

// sensor emulates the DS1631 command set.
type sensor struct {
	clk        clock.Clock
	config     byte
	temp       [2]byte
	started    time.Time
	conversion bool
	reads      int
}

func (s *sensor) Tx(w, r []byte) error {
	if len(w) == 0 {
		return errors.New("read without command")
	}
	switch w[0] {
	case cmdStartConvert:
		s.started = s.clk.Now()
		s.conversion = true
	case cmdAccessConfig:
		if len(w) > 1 {
			s.config = w[1]
		}
	case cmdReadTemp:
		s.reads++
		if s.conversion && s.clk.Now().Sub(s.started) < ConversionTime {
			// Mid-conversion reads return the power-on value.
			copy(r, []byte{0xC9, 0x00})
			return nil
		}
		copy(r, s.temp[:])
	}
	return nil
}

func newTestDevice() (*Device, *sensor, *bus.Fake, *clock.Fake) {
	clk := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := &sensor{clk: clk}
	f := bus.NewFake()
	f.Attach(DefaultAddress, s)
	return New(f, clk, 0), s, f, clk
}

func TestDecode(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		msb, lsb byte
		want     float64
	}{
		{0x19, 0x00, 25.0},
		{0x19, 0x80, 25.5},
		{0x00, 0x10, 0.0625},
		{0x00, 0x00, 0},
		{0xFF, 0x80, -0.5},
		{0xE6, 0xF0, -25.0625},
		{0x7D, 0x00, 125},
		{0xC9, 0x00, -55},
	}
	for _, tt := range tests {
		c.Assert(Decode(tt.msb, tt.lsb), qt.Equals, tt.want, qt.Commentf("% X", []byte{tt.msb, tt.lsb}))
	}
}

func TestConfigure(t *testing.T) {
	c := qt.New(t)
	d, s, _, _ := newTestDevice()
	c.Assert(d.Configure(), qt.IsNil)
	c.Assert(s.config, qt.Equals, byte(0x0D))
}

func TestReadCelsiusWaitsForConversion(t *testing.T) {
	c := qt.New(t)
	d, s, f, clk := newTestDevice()
	s.temp = [2]byte{0x15, 0x40}

	got, err := d.ReadCelsius()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, 21.25)
	c.Assert(clk.Slept(), qt.Equals, ConversionTime)
	c.Assert(s.reads, qt.Equals, 1)

	writes := f.Writes(DefaultAddress)
	c.Assert(writes, qt.DeepEquals, [][]byte{{0x51}, {0xAA}})
}

func TestReadCelsiusMalformed(t *testing.T) {
	c := qt.New(t)
	d, s, _, _ := newTestDevice()
	s.temp = [2]byte{0x7F, 0xFF}

	_, err := d.ReadCelsius()
	c.Assert(err, qt.ErrorIs, ErrMalformed)
}

func TestReadCelsiusBusFailure(t *testing.T) {
	c := qt.New(t)
	d, _, f, clk := newTestDevice()
	f.Fail(DefaultAddress, errors.New("nack"))

	_, err := d.ReadCelsius()
	c.Assert(bus.IsTransferError(err), qt.IsTrue)
	// No settle wait when the start command was not acknowledged.
	c.Assert(clk.Slept(), qt.Equals, time.Duration(0))
}
