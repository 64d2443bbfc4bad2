// Package bus wraps the two-wire serial bus shared by the display, the RTC
// and the temperature sensor.
//
// The transport owns start/stop framing. Every device-level transfer is one
// Tx call: a write, a read, or a write followed by a repeated-start read.
// Failed transfers come back as *Error so callers can tell a bus fault from
// their own validation failures.
package bus

import (
	"errors"
	"fmt"
)

// Transport performs one framed transaction with the device at addr.
// It is satisfied by periph's i2c.Bus and TinyGo's machine.I2C.
type Transport interface {
	Tx(addr uint16, w, r []byte) error
}

// Op names the kind of transfer that failed.
type Op string

const (
	OpWrite Op = "write"
	OpRead  Op = "read"
	OpTx    Op = "write-read"
)

// Error is a failed (unacknowledged or aborted) transfer.
type Error struct {
	Addr uint16
	Op   Op
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bus %s 0x%02X: %v", e.Op, e.Addr, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNoDevice is returned by transports when nothing acknowledges addr.
var ErrNoDevice = errors.New("no device acknowledged")

// IsTransferError reports whether err wraps a *Error.
func IsTransferError(err error) bool {
	var be *Error
	return errors.As(err, &be)
}

func tx(t Transport, addr uint16, op Op, w, r []byte) error {
	if err := t.Tx(addr, w, r); err != nil {
		return &Error{Addr: addr, Op: op, Err: err}
	}
	return nil
}

// WriteByte sends a single byte to addr.
func WriteByte(t Transport, addr uint16, b byte) error {
	return tx(t, addr, OpWrite, []byte{b}, nil)
}

// WriteBytes sends p to addr in one transaction.
func WriteBytes(t Transport, addr uint16, p []byte) error {
	return tx(t, addr, OpWrite, p, nil)
}

// ReadBytes reads n bytes from addr.
func ReadBytes(t Transport, addr uint16, n int) ([]byte, error) {
	r := make([]byte, n)
	if err := tx(t, addr, OpRead, nil, r); err != nil {
		return nil, err
	}
	return r, nil
}

// WriteRegister writes data starting at register reg.
func WriteRegister(t Transport, addr uint16, reg byte, data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	return tx(t, addr, OpWrite, w, nil)
}

// ReadRegister fills data starting at register reg.
func ReadRegister(t Transport, addr uint16, reg byte, data []byte) error {
	return tx(t, addr, OpTx, []byte{reg}, data)
}
