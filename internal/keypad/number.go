package keypad

import (
	"errors"
	"fmt"
	"strconv"
)

// MaxDigits bounds numeric entry; further digits are dropped.
const MaxDigits = 5

// ErrOutOfRange is returned by NumberEntry.Push when a confirmed value is
// outside the requested range.
var ErrOutOfRange = errors.New("value out of range")

// NumberEntry accumulates a decimal number from key presses. Only digits
// and KeyConfirm are significant.
type NumberEntry struct {
	Min, Max int
	digits   []rune
}

// NewNumberEntry creates an accumulator accepting [min, max].
func NewNumberEntry(min, max int) *NumberEntry {
	return &NumberEntry{Min: min, Max: max}
}

// Push applies one key. On KeyConfirm it returns done=true with the value,
// or an ErrOutOfRange error after clearing the accumulator.
func (n *NumberEntry) Push(k rune) (value int, done bool, err error) {
	switch {
	case IsDigit(k):
		if len(n.digits) < MaxDigits {
			n.digits = append(n.digits, k)
		}
		return 0, false, nil
	case k == KeyConfirm:
		v, perr := strconv.Atoi(string(n.digits))
		n.digits = n.digits[:0]
		if perr != nil || v < n.Min || v > n.Max {
			return 0, false, fmt.Errorf("%w: want %d-%d", ErrOutOfRange, n.Min, n.Max)
		}
		return v, true, nil
	}
	return 0, false, nil
}

// Text returns the digits entered so far.
func (n *NumberEntry) Text() string {
	return string(n.digits)
}
