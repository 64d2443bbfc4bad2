package keypad

import "time"

// Debouncer turns raw scan samples into key-press events. A key is reported
// once, when it has been the only key seen for the threshold. It is not
// reported again until a release has been seen for the same threshold.
type Debouncer struct {
	threshold time.Duration

	stable       rune // debounced level, 0 = no key
	pending      rune // candidate level
	pendingSince time.Time
	primed       bool
}

// NewDebouncer creates a Debouncer with the given settle threshold.
func NewDebouncer(threshold time.Duration) *Debouncer {
	return &Debouncer{threshold: threshold}
}

// Update feeds one sample taken at now (0 = nothing pressed). It returns the
// key and true on a debounced press edge.
func (d *Debouncer) Update(key rune, now time.Time) (rune, bool) {
	if !d.primed || key != d.pending {
		d.primed = true
		d.pending = key
		d.pendingSince = now
	}

	if d.pending == d.stable {
		return 0, false
	}

	if now.Sub(d.pendingSince) < d.threshold {
		return 0, false
	}

	d.stable = d.pending
	if d.stable == 0 {
		return 0, false
	}
	return d.stable, true
}

// Unsettled reports whether the last sample differs from the debounced level
// and still needs more samples to resolve.
func (d *Debouncer) Unsettled() bool {
	return d.primed && d.pending != d.stable
}

// Held returns the debounced key currently held down, or 0.
func (d *Debouncer) Held() rune {
	return d.stable
}
