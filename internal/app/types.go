// Package app is the panel state machine: one-time clock and alarm setup,
// then the normal display loop with its alarm acknowledgement and
// calculator modes.
//
// Everything runs on the caller's goroutine and blocks; the drivers are the
// only things that touch hardware. State lives in a Context value that the
// transition functions take and return.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sweeney/alarm-clock/internal/rtc"
)

// Mode is the top-level dispatch flag.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCalculator
)

func (m Mode) String() string {
	if m == ModeCalculator {
		return "CALCULATOR"
	}
	return "NORMAL"
}

// AlarmSetting mirrors what was written to the RTC alarm registers, kept
// for the "next alarm" line.
type AlarmSetting struct {
	Set      bool
	Hour     int // 0-23
	Minute   int
	Day      int
	Meridiem rtc.Meridiem
}

// String renders the setting in 12-hour form, e.g. "07:30AM D19".
func (a AlarmSetting) String() string {
	if !a.Set {
		return "--:--"
	}
	h, m := rtc.To12Hour(a.Hour)
	return fmt.Sprintf("%02d:%02d%s D%02d", h, a.Minute, m, a.Day)
}

// Context is the panel state carried between transitions.
type Context struct {
	Mode  Mode
	Alarm AlarmSetting
	// ShowAlarm selects the alarm line (instead of temperature) for the
	// next normal refresh.
	ShowAlarm bool
	Calc      Calc
}

// EventType names a panel event.
type EventType string

const (
	EventClockSet   EventType = "CLOCK_SET"
	EventAlarmSet   EventType = "ALARM_SET"
	EventAlarmFired EventType = "ALARM_FIRED"
	EventAlarmAck   EventType = "ALARM_ACK"
	EventMode       EventType = "MODE"
)

// Event is something worth telling the outside world about.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Detail    string
}

// Display is the character display.
type Display interface {
	Clear() error
	SetCursor(col, row int) error
	Print(text string) error
}

// Keypad yields debounced key presses.
type Keypad interface {
	ReadKey(ctx context.Context) (rune, error)
	Poll(ctx context.Context) (rune, bool, error)
}

// Clock is the RTC register model.
type Clock interface {
	ReadTime() (rtc.DateTime, error)
	WriteTime(t rtc.DateTime) error
	WriteAlarm(a rtc.Alarm) error
	AlarmFired() (bool, error)
	ClearAlarmFired() error
}

// Thermometer samples the temperature sensor.
type Thermometer interface {
	ReadCelsius() (float64, error)
}

// Indicator is the external alarm line.
type Indicator interface {
	Set(on bool) error
}

// Publisher sends panel events; failures are logged and otherwise ignored.
type Publisher interface {
	PublishPanel(event Event) error
}
