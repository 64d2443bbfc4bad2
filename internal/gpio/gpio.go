// Package gpio provides the keypad matrix lines and the alarm indicator
// output with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

// Output is a single digital output line.
type Output interface {
	Set(on bool) error
	Close() error
}

// Default line offsets on gpiochip0 (BCM numbering).
var (
	DefaultRowPins = [4]int{5, 6, 13, 19}
	DefaultColPins = [4]int{12, 16, 20, 21}
)

// DefaultIndicatorPin drives the alarm sounder/LED.
const DefaultIndicatorPin = 26

// DefaultChip is the GPIO character device.
const DefaultChip = "gpiochip0"
