package clock

import (
	"testing"
	"time"
)

func TestFakeSleepAdvances(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	f.Sleep(250 * time.Millisecond)
	f.Sleep(50 * time.Microsecond)

	want := start.Add(250*time.Millisecond + 50*time.Microsecond)
	if !f.Now().Equal(want) {
		t.Errorf("Now: got %v, want %v", f.Now(), want)
	}
	if f.Slept() != 250*time.Millisecond+50*time.Microsecond {
		t.Errorf("Slept: got %v", f.Slept())
	}
}

func TestFakeNegativeSleepIgnored(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)
	f.Sleep(-time.Second)
	if !f.Now().Equal(start) {
		t.Errorf("negative sleep moved the clock to %v", f.Now())
	}
}

func TestFakeCancelAfter(t *testing.T) {
	f := NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	calls := 0
	f.CancelAfter(time.Second, func() { calls++ })

	f.Sleep(900 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("cancel called early")
	}
	f.Sleep(100 * time.Millisecond)
	f.Sleep(100 * time.Millisecond)
	if calls != 1 {
		t.Errorf("cancel calls: got %d, want 1", calls)
	}
}
