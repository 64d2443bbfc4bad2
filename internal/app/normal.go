package app

import (
	"context"
	"fmt"

	"github.com/sweeney/alarm-clock/internal/keypad"
)

// Refresh runs one normal-display cycle: alarm check, frame, then the
// interruptible wait.
func (m *Machine) Refresh(ctx context.Context, c Context) (Context, error) {
	fired, err := m.RTC.AlarmFired()
	if err != nil {
		m.fault("rtc", err)
		fired = false
	}
	if fired {
		return m.AlarmCycle(ctx, c)
	}

	line1 := TextClockErr
	if t, err := m.RTC.ReadTime(); err != nil {
		m.fault("rtc", err)
	} else {
		line1 = t.String()
	}

	var line2 string
	if c.ShowAlarm {
		line2 = "Alarm " + c.Alarm.String()
	} else {
		line2 = m.temperatureLine()
	}
	c.ShowAlarm = !c.ShowAlarm

	m.show(line1, line2)
	return m.Wait(ctx, c)
}

func (m *Machine) temperatureLine() string {
	celsius, err := m.Thermo.ReadCelsius()
	if err != nil {
		m.fault("sensor", err)
		return TextSensorErr
	}
	if m.Tracker != nil {
		m.Tracker.SetTemperature(celsius)
	}
	return fmt.Sprintf("Temp: %.1fC", celsius)
}

// Wait polls the keypad every PollInterval for RefreshWait. Key F switches
// to calculator mode and returns at once; other keys are ignored.
func (m *Machine) Wait(ctx context.Context, c Context) (Context, error) {
	deadline := m.Clock.Now().Add(m.Timing.RefreshWait)
	for m.Clock.Now().Before(deadline) {
		k, ok, err := m.Keys.Poll(ctx)
		switch {
		case ctx.Err() != nil:
			return c, ctx.Err()
		case err != nil:
			m.fault("keypad", err)
		case ok && k == keypad.KeyMode:
			return m.setMode(c, ModeCalculator), nil
		}
		m.Clock.Sleep(m.Timing.PollInterval)
	}
	return c, nil
}

// AlarmCycle handles a fired alarm: clear the flag, show the banner, flash
// the indicator, then block until F is pressed.
func (m *Machine) AlarmCycle(ctx context.Context, c Context) (Context, error) {
	if err := m.RTC.ClearAlarmFired(); err != nil {
		m.fault("rtc", err)
	}
	if m.Tracker != nil {
		m.Tracker.RecordAlarmFired()
	}

	banner := TextAlarmBanner
	if t, err := m.RTC.ReadTime(); err != nil {
		m.fault("rtc", err)
	} else {
		banner = fmt.Sprintf("%s %02d:%02d:%02d", TextAlarmBanner, t.Hour, t.Minute, t.Second)
	}
	m.show(banner, TextAlarmPrompt)
	m.publish(EventAlarmFired, c.Alarm.String())

	m.flash()

	for {
		k, err := m.readKey(ctx)
		if err != nil {
			m.setIndicator(false)
			return c, err
		}
		if k == keypad.KeyMode {
			break
		}
	}

	if m.Tracker != nil {
		m.Tracker.RecordAlarmAck()
	}
	m.publish(EventAlarmAck, "")
	return c, nil
}

func (m *Machine) flash() {
	for i := 0; i < m.Timing.Flashes; i++ {
		m.setIndicator(true)
		m.Clock.Sleep(m.Timing.FlashPeriod)
		m.setIndicator(false)
		m.Clock.Sleep(m.Timing.FlashPeriod)
	}
}

func (m *Machine) setIndicator(on bool) {
	if err := m.Indicator.Set(on); err != nil {
		m.fault("indicator", err)
	}
}
