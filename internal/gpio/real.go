//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealMatrix drives keypad rows and senses columns on actual hardware.
// Rows are outputs idling high; columns are inputs with pull-ups, so an
// idle column reads high and a pressed key on a low row pulls it low.
type RealMatrix struct {
	chip *gpiocdev.Chip
	rows *gpiocdev.Lines
	cols *gpiocdev.Lines

	rowVals []int
	colVals []int
}

// NewRealMatrix requests the row and column lines on chipName.
func NewRealMatrix(chipName string, rowPins, colPins [4]int) (*RealMatrix, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	rows, err := chip.RequestLines(rowPins[:], gpiocdev.AsOutput(1, 1, 1, 1), gpiocdev.WithConsumer("keypad-rows"))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request row pins %v: %w", rowPins, err)
	}

	cols, err := chip.RequestLines(colPins[:], gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer("keypad-cols"))
	if err != nil {
		rows.Close()
		chip.Close()
		return nil, fmt.Errorf("request column pins %v: %w", colPins, err)
	}

	return &RealMatrix{
		chip:    chip,
		rows:    rows,
		cols:    cols,
		rowVals: []int{1, 1, 1, 1},
		colVals: make([]int, 4),
	}, nil
}

// SetRow drives one row line.
func (m *RealMatrix) SetRow(row int, high bool) error {
	v := 0
	if high {
		v = 1
	}
	if m.rowVals[row] == v {
		return nil
	}
	m.rowVals[row] = v
	if err := m.rows.SetValues(m.rowVals); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

// Column reads one column line (true = high).
func (m *RealMatrix) Column(col int) (bool, error) {
	if err := m.cols.Values(m.colVals); err != nil {
		return false, fmt.Errorf("read column %d: %w", col, err)
	}
	return m.colVals[col] != 0, nil
}

// Close releases GPIO resources.
// Rows are returned to inputs with pull-up before closing so nothing is left
// driven low.
func (m *RealMatrix) Close() error {
	var errs []error

	if m.rows != nil {
		if err := m.rows.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure rows: %w", err))
		}
		if err := m.rows.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rows: %w", err))
		}
	}
	if m.cols != nil {
		if err := m.cols.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close columns: %w", err))
		}
	}
	if m.chip != nil {
		if err := m.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

var _ Output = (*RealIndicator)(nil)

// RealIndicator is the alarm indicator output line.
type RealIndicator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealIndicator requests pin as an output, initially off.
func NewRealIndicator(chipName string, pin int) (*RealIndicator, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("alarm-indicator"))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request indicator pin %d: %w", pin, err)
	}
	return &RealIndicator{chip: chip, line: line}, nil
}

// Set switches the indicator.
func (i *RealIndicator) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := i.line.SetValue(v); err != nil {
		return fmt.Errorf("set indicator: %w", err)
	}
	return nil
}

// Close turns the indicator off and releases the line.
func (i *RealIndicator) Close() error {
	var errs []error
	if i.line != nil {
		if err := i.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("indicator off: %w", err))
		}
		if err := i.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close indicator: %w", err))
		}
	}
	if i.chip != nil {
		if err := i.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
