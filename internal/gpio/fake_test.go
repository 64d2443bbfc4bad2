package gpio

import (
	"errors"
	"testing"
	"time"
)

type stepClock struct{ t time.Time }

func (s *stepClock) Now() time.Time { return s.t }

var testLayout = [4][4]rune{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'E', '0', 'F', 'D'},
}

func TestFakeMatrixColumnFollowsDrivenRow(t *testing.T) {
	clk := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewFakeMatrix(clk, testLayout)
	m.Type("6")

	// Row 1 not driven: column 2 stays high.
	high, err := m.Column(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !high {
		t.Error("column should be high while row 1 is not driven")
	}

	m.SetRow(1, false)
	high, _ = m.Column(2)
	if high {
		t.Error("column 2 should read low with row 1 driven and '6' held")
	}
	high, _ = m.Column(1)
	if !high {
		t.Error("column 1 should be high")
	}
}

func TestFakeMatrixHoldAndGap(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := &stepClock{t: start}
	m := NewFakeMatrix(clk, testLayout)
	m.Type("12")
	m.SetRow(0, false)

	if high, _ := m.Column(0); high {
		t.Fatal("'1' should be down at start")
	}

	clk.t = start.Add(m.Hold)
	if high, _ := m.Column(0); !high {
		t.Error("'1' should be released after Hold")
	}
	if high, _ := m.Column(1); !high {
		t.Error("'2' should wait for the gap")
	}

	clk.t = start.Add(m.Hold + m.Gap)
	if high, _ := m.Column(1); high {
		t.Error("'2' should be down after the gap")
	}
	if m.Remaining() != 1 {
		t.Errorf("Remaining: got %d, want 1", m.Remaining())
	}
	if string(m.Pressed) != "12" {
		t.Errorf("Pressed: got %q, want 12", string(m.Pressed))
	}
}

func TestFakeMatrixPressAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := &stepClock{t: start}
	m := NewFakeMatrix(clk, testLayout)
	m.PressAt('F', start.Add(time.Second))
	m.SetRow(3, false)

	if high, _ := m.Column(2); !high {
		t.Error("'F' should not be down before its time")
	}
	clk.t = start.Add(time.Second)
	if high, _ := m.Column(2); high {
		t.Error("'F' should be down at its time")
	}
}

func TestFakeMatrixErrors(t *testing.T) {
	m := NewFakeMatrix(&stepClock{}, testLayout)
	m.RowError = errors.New("row fault")
	if err := m.SetRow(0, false); err == nil {
		t.Error("expected row error")
	}
	m.ColumnError = errors.New("column fault")
	if _, err := m.Column(0); err == nil {
		t.Error("expected column error")
	}
}

func TestFakeIndicatorFlashes(t *testing.T) {
	ind := NewFakeIndicator(nil)
	for i := 0; i < 3; i++ {
		ind.Set(true)
		ind.Set(false)
	}
	ind.Set(false)
	if got := ind.Flashes(); got != 3 {
		t.Errorf("Flashes: got %d, want 3", got)
	}
	if ind.On {
		t.Error("indicator should end off")
	}

	ind.Close()
	if !ind.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeIndicatorAsOutput(t *testing.T) {
	fake := NewFakeIndicator(nil)
	var out Output = fake
	fake.SetError = errors.New("line busy")
	if err := out.Set(true); err == nil {
		t.Error("expected Set error through Output")
	}
	if err := out.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !fake.Closed {
		t.Error("Close through Output should reach the fake")
	}
}
