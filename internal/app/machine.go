package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/status"
)

// Timing holds the panel delays.
type Timing struct {
	RefreshWait  time.Duration // interruptible wait after each refresh
	PollInterval time.Duration // keypad poll slice inside the wait
	Flashes      int           // indicator on/off cycles per alarm
	FlashPeriod  time.Duration // each on and each off phase
	ConfirmTime  time.Duration // "Clock set!" / "Alarm set!" messages
	InvalidTime  time.Duration // "Invalid! Try again" message
	KeyRetry     time.Duration // back-off after a keypad line error
}

// DefaultTiming returns the standard timing.
func DefaultTiming() Timing {
	return Timing{
		RefreshWait:  5 * time.Second,
		PollInterval: 100 * time.Millisecond,
		Flashes:      10,
		FlashPeriod:  250 * time.Millisecond,
		ConfirmTime:  2 * time.Second,
		InvalidTime:  1 * time.Second,
		KeyRetry:     100 * time.Millisecond,
	}
}

// Fixed display texts.
const (
	TextInvalid     = "Invalid! Try again"
	TextClockSet    = "Clock set!"
	TextAlarmSet    = "Alarm set!"
	TextClockErr    = "CLOCK ERR"
	TextSensorErr   = "SENSOR ERR"
	TextAlarmBanner = "ALARM!"
	TextAlarmPrompt = "Press F to stop"
	TextCalculator  = "Calculator"
	TextCalcHelp    = "F to exit"
)

// Machine wires the drivers to the panel logic.
type Machine struct {
	Display   Display
	Keys      Keypad
	RTC       Clock
	Thermo    Thermometer
	Indicator Indicator
	Clock     clock.Clock
	Timing    Timing

	// Optional.
	Publisher Publisher
	Tracker   *status.Tracker
}

// Run performs setup once and then dispatches on the mode until ctx is done.
func (m *Machine) Run(ctx context.Context) error {
	c, err := m.Setup(ctx, Context{})
	if err != nil {
		return ignoreCancel(ctx, err)
	}
	log.Printf("setup complete: alarm %s", c.Alarm)

	for {
		if ctx.Err() != nil {
			return nil
		}
		switch c.Mode {
		case ModeCalculator:
			c, err = m.Calculator(ctx, c)
		default:
			c, err = m.Refresh(ctx, c)
		}
		if err != nil {
			return ignoreCancel(ctx, err)
		}
	}
}

func ignoreCancel(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil
	}
	return err
}

// show replaces the whole frame. Display faults are logged and counted;
// there is nowhere else to report them.
func (m *Machine) show(line1, line2 string) {
	if m.Tracker != nil {
		m.Tracker.SetFrame(line1, line2)
	}
	if err := m.Display.Clear(); err != nil {
		m.fault("display", err)
		return
	}
	if err := m.printAt(0, line1); err != nil {
		m.fault("display", err)
		return
	}
	if err := m.printAt(1, line2); err != nil {
		m.fault("display", err)
	}
}

func (m *Machine) printAt(row int, text string) error {
	if err := m.Display.SetCursor(0, row); err != nil {
		return err
	}
	return m.Display.Print(text)
}

func (m *Machine) fault(what string, err error) {
	log.Printf("%s error: %v", what, err)
	if m.Tracker != nil {
		m.Tracker.AddFault(what, err.Error())
	}
}

func (m *Machine) publish(t EventType, detail string) {
	e := Event{Timestamp: m.Clock.Now(), Type: t, Detail: detail}
	log.Printf("event: %s %s", e.Type, e.Detail)
	if m.Publisher == nil {
		return
	}
	if err := m.Publisher.PublishPanel(e); err != nil {
		log.Printf("publish error: %v", err)
		// Don't stop the panel on publish failure
	}
}

func (m *Machine) setMode(c Context, mode Mode) Context {
	c.Mode = mode
	if m.Tracker != nil {
		m.Tracker.SetMode(mode.String())
	}
	m.publish(EventMode, mode.String())
	return c
}

// readKey blocks for a key, riding out keypad line errors.
func (m *Machine) readKey(ctx context.Context) (rune, error) {
	for {
		k, err := m.Keys.ReadKey(ctx)
		if err == nil {
			return k, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		m.fault("keypad", err)
		m.Clock.Sleep(m.Timing.KeyRetry)
	}
}
