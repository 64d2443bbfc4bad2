package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sweeney/alarm-clock/internal/keypad"
	"github.com/sweeney/alarm-clock/internal/rtc"
)

// Setup runs the clock wizard and then the alarm wizard. It is called once
// per boot.
func (m *Machine) Setup(ctx context.Context, c Context) (Context, error) {
	c, err := m.SetupClock(ctx, c)
	if err != nil {
		return c, err
	}
	return m.SetupAlarm(ctx, c)
}

// SetupClock prompts for the time and date and writes them to the RTC.
func (m *Machine) SetupClock(ctx context.Context, c Context) (Context, error) {
	hour, mer, minute, err := m.readTimeOfDay(ctx, "Set")
	if err != nil {
		return c, err
	}
	day, err := m.readNumber(ctx, "Day (1-31):", 1, 31)
	if err != nil {
		return c, err
	}
	month, err := m.readNumber(ctx, "Month (1-12):", 1, 12)
	if err != nil {
		return c, err
	}
	year, err := m.readNumber(ctx, "Year (2000-2099):", 2000, 2099)
	if err != nil {
		return c, err
	}
	weekday, err := m.readNumber(ctx, "Weekday (1-7):", 1, 7)
	if err != nil {
		return c, err
	}

	t := rtc.DateTime{
		Hour:    rtc.To24Hour(hour, mer),
		Minute:  minute,
		Weekday: weekday,
		Day:     day,
		Month:   month,
		Year:    year,
	}
	msg := TextClockSet
	if err := m.RTC.WriteTime(t); err != nil {
		m.fault("rtc", err)
		msg = TextClockErr
	} else {
		m.publish(EventClockSet, t.String())
	}
	m.show(msg, "")
	m.Clock.Sleep(m.Timing.ConfirmTime)
	return c, nil
}

// SetupAlarm prompts for the alarm and writes it to the RTC right away.
func (m *Machine) SetupAlarm(ctx context.Context, c Context) (Context, error) {
	hour, mer, minute, err := m.readTimeOfDay(ctx, "Alarm")
	if err != nil {
		return c, err
	}
	day, err := m.readNumber(ctx, "Alarm day (1-31):", 1, 31)
	if err != nil {
		return c, err
	}

	c.Alarm = AlarmSetting{
		Set:      true,
		Hour:     rtc.To24Hour(hour, mer),
		Minute:   minute,
		Day:      day,
		Meridiem: mer,
	}
	msg := TextAlarmSet
	if err := m.RTC.WriteAlarm(rtc.Alarm{Hour: c.Alarm.Hour, Minute: c.Alarm.Minute, Day: c.Alarm.Day}); err != nil {
		m.fault("rtc", err)
		msg = TextClockErr
	} else {
		m.publish(EventAlarmSet, c.Alarm.String())
	}
	if m.Tracker != nil {
		m.Tracker.SetAlarm(c.Alarm.String())
	}
	m.show(msg, c.Alarm.String())
	m.Clock.Sleep(m.Timing.ConfirmTime)
	return c, nil
}

func (m *Machine) readTimeOfDay(ctx context.Context, label string) (hour int, mer rtc.Meridiem, minute int, err error) {
	hour, err = m.readNumber(ctx, label+" hour (1-12):", 1, 12)
	if err != nil {
		return
	}
	minute, err = m.readNumber(ctx, label+" min (0-59):", 0, 59)
	if err != nil {
		return
	}
	mer, err = m.readMeridiem(ctx)
	return
}

// readNumber prompts on line 1, echoes digits on line 2 and re-prompts
// until a value in [min, max] is confirmed with E.
func (m *Machine) readNumber(ctx context.Context, prompt string, min, max int) (int, error) {
	entry := keypad.NewNumberEntry(min, max)
	m.show(prompt, "")
	for {
		k, err := m.readKey(ctx)
		if err != nil {
			return 0, err
		}
		v, done, err := entry.Push(k)
		switch {
		case errors.Is(err, keypad.ErrOutOfRange):
			m.show(TextInvalid, "")
			m.Clock.Sleep(m.Timing.InvalidTime)
			m.show(prompt, "")
		case done:
			return v, nil
		case keypad.IsDigit(k):
			m.show(prompt, entry.Text())
		}
	}
}

// readMeridiem is a single-select: 1 picks AM, 2 picks PM, E confirms the
// current pick.
func (m *Machine) readMeridiem(ctx context.Context) (rtc.Meridiem, error) {
	const prompt = "1:AM 2:PM then E"
	m.show(prompt, "")
	selected := false
	mer := rtc.AM
	for {
		k, err := m.readKey(ctx)
		if err != nil {
			return mer, err
		}
		switch k {
		case '1':
			mer, selected = rtc.AM, true
		case '2':
			mer, selected = rtc.PM, true
		case keypad.KeyConfirm:
			if selected {
				return mer, nil
			}
			continue
		default:
			continue
		}
		m.show(prompt, fmt.Sprintf("%s selected", mer))
	}
}
