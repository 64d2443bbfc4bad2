package gpio

import (
	"sync"
	"time"
)

// Now is the time source a FakeMatrix reads; clock.Clock satisfies it.
type Now interface {
	Now() time.Time
}

// Press is one scripted key actuation.
type Press struct {
	Key rune
	// At is the earliest time the key goes down. Zero means as soon as the
	// previous press has been released for the gap.
	At time.Time
}

// FakeMatrix is a test double for a keypad matrix. Scripted presses are held
// for Hold and separated by Gap, measured on the supplied clock, so a real
// Scanner with a real Debouncer sees clean edges.
type FakeMatrix struct {
	mu     sync.Mutex
	clk    Now
	layout [4][4]rune
	rows   [4]bool

	queue    []Press
	cur      rune
	upAt     time.Time
	nextFree time.Time

	// Hold and Gap shape every press.
	Hold time.Duration
	Gap  time.Duration

	// RowError and ColumnError, if set, are returned by SetRow and Column.
	RowError    error
	ColumnError error

	// Pressed lists keys in the order they went down.
	Pressed []rune
}

// NewFakeMatrix creates a FakeMatrix using the given key layout.
func NewFakeMatrix(clk Now, layout [4][4]rune) *FakeMatrix {
	return &FakeMatrix{
		clk:    clk,
		layout: layout,
		rows:   [4]bool{true, true, true, true},
		Hold:   80 * time.Millisecond,
		Gap:    80 * time.Millisecond,
	}
}

// Type queues keys to be pressed one after another as soon as possible.
func (f *FakeMatrix) Type(keys string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		f.queue = append(f.queue, Press{Key: k})
	}
}

// PressAt queues key to go down no earlier than at.
func (f *FakeMatrix) PressAt(key rune, at time.Time) {
	f.mu.Lock()
	f.queue = append(f.queue, Press{Key: key, At: at})
	f.mu.Unlock()
}

// Remaining returns the number of presses not yet started or still held.
func (f *FakeMatrix) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.queue)
	if f.cur != 0 {
		n++
	}
	return n
}

// SetRow records the row level.
func (f *FakeMatrix) SetRow(row int, high bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RowError != nil {
		return f.RowError
	}
	f.rows[row] = high
	return nil
}

// Column reads low only when the held key sits on a row driven low.
func (f *FakeMatrix) Column(col int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ColumnError != nil {
		return true, f.ColumnError
	}
	key := f.down(f.clk.Now())
	if key == 0 {
		return true, nil
	}
	for r := range f.layout {
		for c := range f.layout[r] {
			if f.layout[r][c] == key && c == col && !f.rows[r] {
				return false, nil
			}
		}
	}
	return true, nil
}

// down returns the key held at now, starting the next scripted press when
// it is due. Caller holds mu.
func (f *FakeMatrix) down(now time.Time) rune {
	if f.cur != 0 {
		if now.Before(f.upAt) {
			return f.cur
		}
		f.cur = 0
		f.nextFree = f.upAt.Add(f.Gap)
	}
	if len(f.queue) == 0 {
		return 0
	}
	p := f.queue[0]
	start := f.nextFree
	if p.At.After(start) {
		start = p.At
	}
	if now.Before(start) {
		return 0
	}
	f.queue = f.queue[1:]
	f.cur = p.Key
	f.upAt = now.Add(f.Hold)
	f.Pressed = append(f.Pressed, p.Key)
	return f.cur
}

var _ Output = (*FakeIndicator)(nil)

// FakeIndicator records indicator transitions.
type FakeIndicator struct {
	mu  sync.Mutex
	clk Now

	// On is the current level.
	On bool
	// Changes records every Set call.
	Changes []Change
	// SetError, if set, is returned by Set.
	SetError error
	// Closed tracks if Close was called.
	Closed bool
}

// Change is one recorded Set call.
type Change struct {
	On bool
	At time.Time
}

// NewFakeIndicator creates a FakeIndicator; clk may be nil.
func NewFakeIndicator(clk Now) *FakeIndicator {
	return &FakeIndicator{clk: clk}
}

// Set records the new level.
func (f *FakeIndicator) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.On = on
	c := Change{On: on}
	if f.clk != nil {
		c.At = f.clk.Now()
	}
	f.Changes = append(f.Changes, c)
	return nil
}

// Flashes counts off-to-on transitions.
func (f *FakeIndicator) Flashes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	prev := false
	for _, c := range f.Changes {
		if c.On && !prev {
			n++
		}
		prev = c.On
	}
	return n
}

// Close marks the indicator as closed.
func (f *FakeIndicator) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
