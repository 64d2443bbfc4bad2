package clock

import (
	"sync"
	"time"
)

// Fake is a virtual clock. Sleep advances Now by exactly d and returns
// immediately.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	slept time.Duration

	// hooks run (outside the lock) after every Sleep, with the new time.
	hooks []func(now time.Time)
}

// NewFake creates a Fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the virtual time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Sleep advances the virtual time by d.
func (f *Fake) Sleep(d time.Duration) {
	f.mu.Lock()
	if d > 0 {
		f.now = f.now.Add(d)
		f.slept += d
	}
	now := f.now
	hooks := f.hooks
	f.mu.Unlock()

	for _, h := range hooks {
		h(now)
	}
}

// Advance is Sleep under a name that reads better in tests.
func (f *Fake) Advance(d time.Duration) {
	f.Sleep(d)
}

// Slept returns the total virtual time spent sleeping.
func (f *Fake) Slept() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slept
}

// OnSleep registers fn to run after every Sleep.
func (f *Fake) OnSleep(fn func(now time.Time)) {
	f.mu.Lock()
	f.hooks = append(f.hooks, fn)
	f.mu.Unlock()
}

// CancelAfter calls cancel once virtual time has moved d past the current
// time. Used to stop otherwise endless loops in tests.
func (f *Fake) CancelAfter(d time.Duration, cancel func()) {
	deadline := f.Now().Add(d)
	var once sync.Once
	f.OnSleep(func(now time.Time) {
		if !now.Before(deadline) {
			once.Do(cancel)
		}
	})
}
