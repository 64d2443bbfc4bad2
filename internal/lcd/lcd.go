// Package lcd drives an HD44780 character display through a PCF8574 I2C
// backpack in 4-bit mode.
//
// Expander bit map: P0=RS, P1=RW, P2=EN, P3=backlight, P4..P7=D4..D7.
//
// Every call goes straight to the bus; nothing is buffered and failed
// transfers are not retried. The first failure is returned as a
// *bus.Error and the rest of the operation is abandoned.
package lcd

import (
	"time"

	"github.com/sweeney/alarm-clock/internal/bus"
	"github.com/sweeney/alarm-clock/internal/clock"
)

// DefaultAddress is the usual PCF8574 backpack address (0x3F on PCF8574A).
const DefaultAddress = 0x27

// Expander bits.
const (
	bitRS        = 1 << 0
	bitRW        = 1 << 1
	bitEN        = 1 << 2
	bitBacklight = 1 << 3
)

// Controller commands.
const (
	CmdClear       = 0x01
	CmdHome        = 0x02
	CmdEntryMode   = 0x06 // increment, no shift
	CmdDisplayOn   = 0x0C // display on, cursor off, blink off
	CmdFunctionSet = 0x28 // 4-bit, 2 lines, 5x8 font
	CmdSetDDRAM    = 0x80
)

// Settle times from the HD44780 datasheet; these are minimums.
const (
	PulseWidth  = 1 * time.Microsecond
	CommandTime = 50 * time.Microsecond
	ClearTime   = 2 * time.Millisecond
	PowerOnTime = 50 * time.Millisecond

	// Reset-by-instruction waits after the first and second 0x3 nibble.
	ResetTime      = 4100 * time.Microsecond
	ResetShortTime = 100 * time.Microsecond
)

// resetNibbles is the 0x33, 0x32 handshake sent nibble by nibble. It pushes
// the controller from any state into 4-bit mode before the function set.
var resetNibbles = []struct {
	v    byte
	wait time.Duration
}{
	{0x30, ResetTime},
	{0x30, ResetShortTime},
	{0x30, 0},
	{0x20, 0},
}

// initSequence follows the handshake.
var initSequence = []byte{CmdFunctionSet, CmdDisplayOn, CmdEntryMode}

// rowOffsets maps a row to its DDRAM start address.
var rowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

// Config describes the attached module.
type Config struct {
	Address uint16
	Cols    int
	Rows    int
}

// Device is one display.
type Device struct {
	tx        bus.Transport
	clk       clock.Clock
	addr      uint16
	cols      int
	rows      int
	backlight byte
}

// New creates a display driver. It does not touch the bus; call Init before
// anything else.
func New(tx bus.Transport, clk clock.Clock, cfg Config) *Device {
	if cfg.Address == 0 {
		cfg.Address = DefaultAddress
	}
	if cfg.Cols <= 0 {
		cfg.Cols = 20
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 2
	}
	if cfg.Rows > len(rowOffsets) {
		cfg.Rows = len(rowOffsets)
	}
	return &Device{
		tx:        tx,
		clk:       clk,
		addr:      cfg.Address,
		cols:      cfg.Cols,
		rows:      cfg.Rows,
		backlight: bitBacklight,
	}
}

// Cols returns the configured width.
func (d *Device) Cols() int { return d.cols }

// Init runs the power-on handshake and leaves the display cleared with the
// cursor hidden.
func (d *Device) Init() error {
	d.clk.Sleep(PowerOnTime)
	for _, n := range resetNibbles {
		if err := d.pushNibble(n.v); err != nil {
			return err
		}
		d.clk.Sleep(n.wait)
	}
	for _, c := range initSequence {
		if err := d.Command(c); err != nil {
			return err
		}
	}
	return d.Clear()
}

// Command sends an instruction byte (RS low).
func (d *Device) Command(c byte) error {
	return d.send(c, 0)
}

// Write sends a data byte (RS high) at the cursor.
func (d *Device) Write(b byte) error {
	return d.send(b, bitRS)
}

// SetBacklight switches the backlight. The new state is pushed to the
// expander immediately and OR'd into every later byte.
func (d *Device) SetBacklight(on bool) error {
	if on {
		d.backlight = bitBacklight
	} else {
		d.backlight = 0
	}
	return bus.WriteByte(d.tx, d.addr, d.backlight)
}

// Backlight reports the current backlight state.
func (d *Device) Backlight() bool {
	return d.backlight != 0
}

// Clear blanks the display and homes the cursor.
func (d *Device) Clear() error {
	if err := d.Command(CmdClear); err != nil {
		return err
	}
	d.clk.Sleep(ClearTime)
	return nil
}

// Home moves the cursor to 0,0 without clearing.
func (d *Device) Home() error {
	if err := d.Command(CmdHome); err != nil {
		return err
	}
	d.clk.Sleep(ClearTime)
	return nil
}

// SetCursor moves the cursor. Out of range positions clamp to the last row
// or column.
func (d *Device) SetCursor(col, row int) error {
	if row < 0 {
		row = 0
	}
	if row >= d.rows {
		row = d.rows - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= d.cols {
		col = d.cols - 1
	}
	return d.Command(CmdSetDDRAM | (byte(col) + rowOffsets[row]))
}

// Print writes text at the cursor, truncated to the display width.
func (d *Device) Print(text string) error {
	n := 0
	for _, r := range text {
		if n == d.cols {
			break
		}
		b := byte('?')
		if r >= 0x20 && r < 0x7F {
			b = byte(r)
		}
		if err := d.Write(b); err != nil {
			return err
		}
		n++
	}
	return nil
}

// send splits b into two nibble pushes, high nibble first.
func (d *Device) send(b byte, mode byte) error {
	if err := d.pushNibble(b&0xF0 | mode); err != nil {
		return err
	}
	return d.pushNibble((b<<4)&0xF0 | mode)
}

// pushNibble latches one nibble with a high-then-low strobe on EN.
func (d *Device) pushNibble(v byte) error {
	v |= d.backlight
	if err := bus.WriteByte(d.tx, d.addr, v|bitEN); err != nil {
		return err
	}
	d.clk.Sleep(PulseWidth)
	if err := bus.WriteByte(d.tx, d.addr, v&^bitEN); err != nil {
		return err
	}
	d.clk.Sleep(CommandTime)
	return nil
}
