//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealMatrix is not available on non-Linux platforms.
type RealMatrix struct{}

// NewRealMatrix returns an error on non-Linux platforms.
func NewRealMatrix(chipName string, rowPins, colPins [4]int) (*RealMatrix, error) {
	return nil, errUnsupported
}

// SetRow is not implemented on non-Linux platforms.
func (m *RealMatrix) SetRow(row int, high bool) error { return errUnsupported }

// Column is not implemented on non-Linux platforms.
func (m *RealMatrix) Column(col int) (bool, error) { return true, errUnsupported }

// Close is not implemented on non-Linux platforms.
func (m *RealMatrix) Close() error { return nil }

var _ Output = (*RealIndicator)(nil)

// RealIndicator is not available on non-Linux platforms.
type RealIndicator struct{}

// NewRealIndicator returns an error on non-Linux platforms.
func NewRealIndicator(chipName string, pin int) (*RealIndicator, error) {
	return nil, errUnsupported
}

// Set is not implemented on non-Linux platforms.
func (i *RealIndicator) Set(on bool) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (i *RealIndicator) Close() error { return nil }
