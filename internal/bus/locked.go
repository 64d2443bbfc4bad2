package bus

import "sync"

// Locked serializes all transactions on a shared Transport. The devices on
// the bus do not tolerate interleaved transactions.
type Locked struct {
	mu sync.Mutex
	t  Transport
}

// NewLocked wraps t.
func NewLocked(t Transport) *Locked {
	return &Locked{t: t}
}

// Tx runs one transaction while holding the bus lock.
func (l *Locked) Tx(addr uint16, w, r []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Tx(addr, w, r)
}

// Do runs fn with exclusive access to the bus, for callers that need several
// transactions to happen back to back.
func (l *Locked) Do(fn func(t Transport) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.t)
}
