package keypad

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/gpio"
)

var testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestScanner(t *testing.T) (*Scanner, *gpio.FakeMatrix, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(testStart)
	m := gpio.NewFakeMatrix(clk, Keys)
	return NewScanner(m, clk, Config{}), m, clk
}

func TestScanEveryKey(t *testing.T) {
	s, m, clk := newTestScanner(t)

	for _, row := range Keys {
		for _, k := range row {
			m.Type(string(k))
			got, err := s.Scan()
			if err != nil {
				t.Fatalf("scan %c: %v", k, err)
			}
			if got != k {
				t.Errorf("scan: got %q, want %q", got, k)
			}
			clk.Advance(m.Hold + m.Gap)
		}
	}
}

func TestScanNothingPressed(t *testing.T) {
	s, _, _ := newTestScanner(t)
	got, err := s.Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("expected no key, got %q", got)
	}
}

func TestScanError(t *testing.T) {
	s, m, _ := newTestScanner(t)
	m.ColumnError = errors.New("line fault")
	if _, err := s.Scan(); err == nil {
		t.Error("expected error from column read")
	}
}

func TestReadKeySequence(t *testing.T) {
	s, m, _ := newTestScanner(t)
	m.Type("7A3E")

	var got []rune
	for i := 0; i < 4; i++ {
		k, err := s.ReadKey(context.Background())
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		got = append(got, k)
	}
	if string(got) != "7A3E" {
		t.Errorf("keys: got %q, want 7A3E", string(got))
	}
}

func TestReadKeySameKeyTwice(t *testing.T) {
	s, m, _ := newTestScanner(t)
	m.Type("55")

	for i := 0; i < 2; i++ {
		k, err := s.ReadKey(context.Background())
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if k != '5' {
			t.Errorf("read %d: got %q, want 5", i, k)
		}
	}
}

func TestReadKeyHeldReportsOnce(t *testing.T) {
	s, m, clk := newTestScanner(t)
	m.Hold = time.Second
	m.Type("9")

	k, err := s.ReadKey(context.Background())
	if err != nil || k != '9' {
		t.Fatalf("first read: %q, %v", k, err)
	}
	if clk.Now().Before(testStart.Add(m.Hold)) {
		t.Errorf("ReadKey returned at %v, before the key was released", clk.Now().Sub(testStart))
	}

	ctx, cancel := context.WithCancel(context.Background())
	clk.CancelAfter(2*time.Second, cancel)
	if _, err := s.ReadKey(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("held key must not repeat; got err %v", err)
	}
}

func TestReadKeySeesRepressWhileCallerBusy(t *testing.T) {
	s, m, clk := newTestScanner(t)
	m.PressAt('E', testStart)
	m.PressAt('E', testStart.Add(900*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clk.CancelAfter(5*time.Second, cancel)

	k, err := s.ReadKey(ctx)
	if err != nil || k != 'E' {
		t.Fatalf("first read: %q, %v", k, err)
	}

	// Caller shows a message; nothing scans while the second press goes down.
	clk.Advance(time.Second)

	k, err = s.ReadKey(ctx)
	if err != nil || k != 'E' {
		t.Fatalf("second read: %q, %v (pressed %q)", k, err, string(m.Pressed))
	}
}

func TestReadKeyReleaseWaitEndsOnCancel(t *testing.T) {
	s, m, clk := newTestScanner(t)
	m.Hold = time.Minute
	m.Type("3")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clk.CancelAfter(time.Second, cancel)

	k, err := s.ReadKey(ctx)
	if err != nil || k != '3' {
		t.Fatalf("read: %q, %v", k, err)
	}
	if clk.Now().After(testStart.Add(2 * time.Second)) {
		t.Errorf("release wait ran past cancel: %v", clk.Now().Sub(testStart))
	}
}

func TestReadKeyCancelled(t *testing.T) {
	s, _, _ := newTestScanner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.ReadKey(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPollNoKeyReturnsImmediately(t *testing.T) {
	s, _, clk := newTestScanner(t)
	_, ok, err := s.Poll(context.Background())
	if err != nil || ok {
		t.Fatalf("Poll: ok=%v err=%v", ok, err)
	}
	if clk.Slept() != 0 {
		t.Errorf("Poll with no key slept %v", clk.Slept())
	}
}

func TestPollResolvesPressWithinThreshold(t *testing.T) {
	s, m, clk := newTestScanner(t)
	m.Type("F")

	k, ok, err := s.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !ok || k != 'F' {
		t.Fatalf("Poll: got %q ok=%v, want F", k, ok)
	}
	if clk.Slept() > DefaultDebounce+DefaultScanInterval {
		t.Errorf("Poll took %v, want <= %v", clk.Slept(), DefaultDebounce+DefaultScanInterval)
	}
}

func TestDebouncerIgnoresBounce(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	now := testStart

	samples := []rune{'1', 0, '1', 0, '1'}
	for i, k := range samples {
		if _, ok := d.Update(k, now.Add(time.Duration(i)*5*time.Millisecond)); ok {
			t.Fatalf("sample %d: bounce produced an event", i)
		}
	}

	// '1' first seen again at 20ms; stable after 30ms more.
	if _, ok := d.Update('1', now.Add(45*time.Millisecond)); ok {
		t.Error("event before threshold")
	}
	k, ok := d.Update('1', now.Add(50*time.Millisecond))
	if !ok || k != '1' {
		t.Errorf("expected press of '1', got %q ok=%v", k, ok)
	}
	if d.Held() != '1' {
		t.Errorf("Held: got %q, want 1", d.Held())
	}
}

func TestDebouncerReleaseRequired(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	now := testStart

	d.Update('2', now)
	if _, ok := d.Update('2', now.Add(30*time.Millisecond)); !ok {
		t.Fatal("expected first press")
	}
	// Short release shorter than the threshold does not re-arm.
	d.Update(0, now.Add(40*time.Millisecond))
	d.Update('2', now.Add(50*time.Millisecond))
	if _, ok := d.Update('2', now.Add(200*time.Millisecond)); ok {
		t.Error("glitch release must not produce a second press")
	}

	d.Update(0, now.Add(210*time.Millisecond))
	d.Update(0, now.Add(240*time.Millisecond))
	if d.Held() != 0 {
		t.Fatalf("expected release, held=%q", d.Held())
	}
	d.Update('2', now.Add(250*time.Millisecond))
	if _, ok := d.Update('2', now.Add(280*time.Millisecond)); !ok {
		t.Error("expected second press after release")
	}
}
