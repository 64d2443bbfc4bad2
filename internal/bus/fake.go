package bus

import (
	"fmt"
	"sync"
)

// Device answers transactions addressed to one bus address in a Fake.
type Device interface {
	Tx(w, r []byte) error
}

// Transfer is one recorded transaction.
type Transfer struct {
	Addr uint16
	W    []byte
	R    []byte
}

// Fake is an in-memory bus for tests. Transactions to addresses without a
// device fail with ErrNoDevice, like a NACK on real hardware.
type Fake struct {
	mu      sync.Mutex
	devices map[uint16]Device
	fail    map[uint16]error

	// Log records every transaction, including failed ones.
	Log []Transfer
}

// NewFake creates an empty bus.
func NewFake() *Fake {
	return &Fake{
		devices: make(map[uint16]Device),
		fail:    make(map[uint16]error),
	}
}

// Attach places dev at addr.
func (f *Fake) Attach(addr uint16, dev Device) {
	f.mu.Lock()
	f.devices[addr] = dev
	f.mu.Unlock()
}

// Fail makes every transaction to addr return err until cleared with a nil err.
func (f *Fake) Fail(addr uint16, err error) {
	f.mu.Lock()
	if err == nil {
		delete(f.fail, addr)
	} else {
		f.fail[addr] = err
	}
	f.mu.Unlock()
}

// Tx dispatches to the attached device.
func (f *Fake) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	dev := f.devices[addr]
	ferr := f.fail[addr]
	f.mu.Unlock()

	var err error
	switch {
	case ferr != nil:
		err = ferr
	case dev == nil:
		err = ErrNoDevice
	default:
		err = dev.Tx(w, r)
	}

	rec := Transfer{Addr: addr, W: append([]byte(nil), w...)}
	if err == nil {
		rec.R = append([]byte(nil), r...)
	}
	f.mu.Lock()
	f.Log = append(f.Log, rec)
	f.mu.Unlock()
	return err
}

// Writes returns the write payloads sent to addr, in order.
func (f *Fake) Writes(addr uint16) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]byte
	for _, t := range f.Log {
		if t.Addr == addr && len(t.W) > 0 {
			out = append(out, t.W)
		}
	}
	return out
}

// Reset clears the transaction log.
func (f *Fake) Reset() {
	f.mu.Lock()
	f.Log = nil
	f.mu.Unlock()
}

// Registers is a register-file device: the first written byte sets the
// register pointer, further written bytes are stored with auto-increment,
// and reads continue from the pointer.
type Registers struct {
	mu   sync.Mutex
	Mem  [256]byte
	ptr  byte
	Hook func(reg byte, val byte) // observes every stored byte
}

// Tx implements Device.
func (d *Registers) Tx(w, r []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(w) > 0 {
		d.ptr = w[0]
		for _, b := range w[1:] {
			d.Mem[d.ptr] = b
			if d.Hook != nil {
				d.Hook(d.ptr, b)
			}
			d.ptr++
		}
	}
	for i := range r {
		r[i] = d.Mem[d.ptr]
		d.ptr++
	}
	return nil
}

// Get returns the value of reg.
func (d *Registers) Get(reg byte) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Mem[reg]
}

// Set stores val in reg without moving the pointer.
func (d *Registers) Set(reg, val byte) {
	d.mu.Lock()
	d.Mem[reg] = val
	d.mu.Unlock()
}

// Latch is a device without registers (a port expander): every written byte
// replaces the output latch, reads return Input.
type Latch struct {
	mu     sync.Mutex
	Out    byte
	Input  byte
	Writes []byte
}

// Tx implements Device.
func (d *Latch) Tx(w, r []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range w {
		d.Out = b
		d.Writes = append(d.Writes, b)
	}
	for i := range r {
		r[i] = d.Input
	}
	return nil
}

// Bytes returns a copy of every byte written so far.
func (d *Latch) Bytes() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.Writes...)
}

// Clear forgets recorded writes.
func (d *Latch) Clear() {
	d.mu.Lock()
	d.Writes = nil
	d.mu.Unlock()
}

// String is used in test failure messages.
func (t Transfer) String() string {
	return fmt.Sprintf("0x%02X w=% X r=% X", t.Addr, t.W, t.R)
}
