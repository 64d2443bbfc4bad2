// Package rtc reads and programs a DS3231 battery-backed real-time clock:
// the time registers, alarm 1 and its sticky alarm-fired flag.
//
// Every field on the wire is BCD. The clock always runs in 24-hour register
// mode; 12-hour values are converted at the UI boundary with To24Hour.
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/DS3231.pdf
package rtc

import (
	"fmt"

	"github.com/sweeney/alarm-clock/internal/bus"
)

// DateTime is a time-of-day record in plain decimal.
type DateTime struct {
	Hour    int // 0-23
	Minute  int // 0-59
	Second  int // 0-59
	Weekday int // 1-7
	Day     int // 1-31
	Month   int // 1-12
	Year    int // 2000-2199
}

// String formats the record as "HH:MM:SS DD/MM/YY".
func (t DateTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d %02d/%02d/%02d", t.Hour, t.Minute, t.Second, t.Day, t.Month, t.Year%100)
}

// Alarm is the alarm 1 setting. The clock compares date, hours, minutes
// and seconds; seconds are always zero.
type Alarm struct {
	Hour   int // 0-23
	Minute int // 0-59
	Day    int // 1-31
}

// Device is one DS3231 on a bus.
type Device struct {
	tx   bus.Transport
	addr uint16
}

// New creates a driver. It does not touch the device.
func New(tx bus.Transport) *Device {
	return &Device{tx: tx, addr: Address}
}

// ReadTime reads the current time.
func (d *Device) ReadTime() (DateTime, error) {
	var buf [7]byte
	if err := bus.ReadRegister(d.tx, d.addr, RegSeconds, buf[:]); err != nil {
		return DateTime{}, fmt.Errorf("read time: %w", err)
	}

	year := 2000 + FromBCD(buf[6])
	if buf[5]&centuryBit != 0 {
		year += 100
	}
	return DateTime{
		Second:  FromBCD(buf[0] & 0x7F),
		Minute:  FromBCD(buf[1] & 0x7F),
		Hour:    FromBCD(buf[2] &^ (hourMode12 | 0x80)),
		Weekday: FromBCD(buf[3] & 0x07),
		Day:     FromBCD(buf[4] & 0x3F),
		Month:   FromBCD(buf[5] & 0x1F),
		Year:    year,
	}, nil
}

// WriteTime sets the clock. Seconds are always written as zero, so any
// sub-minute precision in t is discarded.
func (d *Device) WriteTime(t DateTime) error {
	year := t.Year - 2000
	var century byte
	if year >= 100 {
		year -= 100
		century = centuryBit
	}
	buf := []byte{
		ToBCD(0),
		ToBCD(t.Minute),
		ToBCD(t.Hour), // bit 6 clear: 24-hour mode
		ToBCD(t.Weekday),
		ToBCD(t.Day),
		ToBCD(t.Month) | century,
		ToBCD(year),
	}
	if err := bus.WriteRegister(d.tx, d.addr, RegSeconds, buf); err != nil {
		return fmt.Errorf("write time: %w", err)
	}

	// Clear OSF so TimeValid reports the clock as set.
	return d.updateStatus(statusOSF)
}

// WriteAlarm programs alarm 1 to match date, hours, minutes and second 00,
// enables it and clears the alarm flags. The other status bits are kept.
func (d *Device) WriteAlarm(a Alarm) error {
	buf := []byte{
		ToBCD(0),
		ToBCD(a.Minute),
		ToBCD(a.Hour),
		ToBCD(a.Day), // DY/DT clear: day of month
	}
	if err := bus.WriteRegister(d.tx, d.addr, RegAlarm1Seconds, buf); err != nil {
		return fmt.Errorf("write alarm: %w", err)
	}
	if err := bus.WriteRegister(d.tx, d.addr, RegControl, []byte{alarmControl}); err != nil {
		return fmt.Errorf("write control: %w", err)
	}
	return d.updateStatus(statusA1F | statusA2F)
}

// ReadAlarm returns the programmed alarm 1 setting.
func (d *Device) ReadAlarm() (Alarm, error) {
	var buf [4]byte
	if err := bus.ReadRegister(d.tx, d.addr, RegAlarm1Seconds, buf[:]); err != nil {
		return Alarm{}, fmt.Errorf("read alarm: %w", err)
	}
	return Alarm{
		Minute: FromBCD(buf[1] &^ alarmMask),
		Hour:   FromBCD(buf[2] &^ (alarmMask | hourMode12)),
		Day:    FromBCD(buf[3] &^ (alarmMask | dayOfWeek)),
	}, nil
}

// AlarmFired reports the alarm 1 flag. Reading does not clear it.
func (d *Device) AlarmFired() (bool, error) {
	status, err := d.readStatus()
	if err != nil {
		return false, err
	}
	return status&statusA1F != 0, nil
}

// ClearAlarmFired clears the alarm 1 flag, leaving the other status bits.
func (d *Device) ClearAlarmFired() error {
	return d.updateStatus(statusA1F)
}

// TimeValid reports false when the oscillator has stopped since the time
// was last written (battery lost or never set).
func (d *Device) TimeValid() (bool, error) {
	status, err := d.readStatus()
	if err != nil {
		return false, err
	}
	return status&statusOSF == 0, nil
}

func (d *Device) readStatus() (byte, error) {
	return readStatus(d.tx, d.addr)
}

// updateStatus clears bits in the status register. On a bus.Locked the
// read and the write-back happen without other traffic in between.
func (d *Device) updateStatus(clear byte) error {
	rmw := func(tx bus.Transport) error {
		status, err := readStatus(tx, d.addr)
		if err != nil {
			return err
		}
		return writeStatus(tx, d.addr, status&^clear)
	}
	if l, ok := d.tx.(exclusive); ok {
		return l.Do(rmw)
	}
	return rmw(d.tx)
}

// exclusive is implemented by bus.Locked.
type exclusive interface {
	Do(fn func(t bus.Transport) error) error
}

func readStatus(tx bus.Transport, addr uint16) (byte, error) {
	var buf [1]byte
	if err := bus.ReadRegister(tx, addr, RegStatus, buf[:]); err != nil {
		return 0, fmt.Errorf("read status: %w", err)
	}
	return buf[0], nil
}

func writeStatus(tx bus.Transport, addr uint16, v byte) error {
	if err := bus.WriteRegister(tx, addr, RegStatus, []byte{v}); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}
