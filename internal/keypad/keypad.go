// Package keypad scans a 4x4 matrix keypad: rows are driven low one at a
// time and a low column identifies the key.
package keypad

import (
	"context"
	"fmt"
	"time"

	"github.com/sweeney/alarm-clock/internal/clock"
)

// Keys is the symbol table, row-major.
var Keys = [4][4]rune{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'E', '0', 'F', 'D'},
}

// Well-known keys.
const (
	KeyConfirm rune = 'E'
	KeyMode    rune = 'F'
)

// Defaults for the scan loop.
const (
	DefaultDebounce     = 30 * time.Millisecond
	DefaultScanInterval = 5 * time.Millisecond
)

// Matrix is the row/column line pair. A row is active when driven low; a
// column reads false (low) while a key on an active row is pressed.
type Matrix interface {
	SetRow(row int, high bool) error
	Column(col int) (bool, error)
}

// Scanner scans a Matrix and debounces the result.
type Scanner struct {
	m        Matrix
	clk      clock.Clock
	deb      *Debouncer
	interval time.Duration
}

// Config tunes a Scanner. Zero values take the defaults.
type Config struct {
	Debounce     time.Duration
	ScanInterval time.Duration
}

// NewScanner creates a Scanner.
func NewScanner(m Matrix, clk clock.Clock, cfg Config) *Scanner {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = DefaultScanInterval
	}
	return &Scanner{
		m:        m,
		clk:      clk,
		deb:      NewDebouncer(cfg.Debounce),
		interval: cfg.ScanInterval,
	}
}

// Scan drives each row low in turn and returns the first pressed key, or 0.
// All rows are left high afterwards.
func (s *Scanner) Scan() (rune, error) {
	for row := range Keys {
		for r := range Keys {
			if err := s.m.SetRow(r, r != row); err != nil {
				return 0, fmt.Errorf("drive row %d: %w", r, err)
			}
		}
		for col := range Keys[row] {
			high, err := s.m.Column(col)
			if err != nil {
				s.release()
				return 0, fmt.Errorf("read column %d: %w", col, err)
			}
			if !high {
				if err := s.release(); err != nil {
					return 0, err
				}
				return Keys[row][col], nil
			}
		}
	}
	return 0, s.release()
}

func (s *Scanner) release() error {
	for r := range Keys {
		if err := s.m.SetRow(r, true); err != nil {
			return fmt.Errorf("release row %d: %w", r, err)
		}
	}
	return nil
}

// Poll runs one detection step without waiting for a key. It samples once,
// and keeps sampling at the scan interval only while a change is still
// settling.
func (s *Scanner) Poll(ctx context.Context) (rune, bool, error) {
	for {
		k, err := s.Scan()
		if err != nil {
			return 0, false, err
		}
		if key, ok := s.deb.Update(k, s.clk.Now()); ok {
			return key, true, nil
		}
		if !s.deb.Unsettled() {
			return 0, false, nil
		}
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		s.clk.Sleep(s.interval)
	}
}

// ReadKey blocks until a key is pressed or ctx is done. It returns after the
// key has also been released, so a later press of the same key is a new edge
// even when the caller stops scanning in between.
func (s *Scanner) ReadKey(ctx context.Context) (rune, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		k, err := s.Scan()
		if err != nil {
			return 0, err
		}
		if key, ok := s.deb.Update(k, s.clk.Now()); ok {
			s.waitRelease(ctx)
			return key, nil
		}
		s.clk.Sleep(s.interval)
	}
}

// waitRelease scans until the debounced level returns to no key. A line
// error or a done ctx ends the wait early; the press still stands and the
// next read starts from the held level.
func (s *Scanner) waitRelease(ctx context.Context) {
	for s.deb.Held() != 0 {
		if ctx.Err() != nil {
			return
		}
		s.clk.Sleep(s.interval)
		k, err := s.Scan()
		if err != nil {
			return
		}
		s.deb.Update(k, s.clk.Now())
	}
}

// IsDigit reports whether k is 0-9.
func IsDigit(k rune) bool {
	return k >= '0' && k <= '9'
}
