package rtc

// DS3231 register map.
const (
	Address = 0x68

	RegSeconds = 0x00
	RegMinutes = 0x01
	RegHours   = 0x02
	RegWeekday = 0x03
	RegDate    = 0x04
	RegMonth   = 0x05 // bit 7: century
	RegYear    = 0x06

	RegAlarm1Seconds = 0x07
	RegAlarm1Minutes = 0x08
	RegAlarm1Hours   = 0x09
	RegAlarm1Date    = 0x0A // bit 6: DY/DT, bit 7: A1M4

	RegControl = 0x0E
	RegStatus  = 0x0F
)

// Bits.
const (
	alarmMask   = 1 << 7 // AxMy: set to ignore the field
	dayOfWeek   = 1 << 6 // DY/DT in the alarm date register
	hourMode12  = 1 << 6
	centuryBit  = 1 << 7
	controlA1IE = 1 << 0
	controlINTC = 1 << 2
	statusA1F   = 1 << 0
	statusA2F   = 1 << 1
	statusEN32k = 1 << 3
	statusOSF   = 1 << 7
)

// alarmControl enables alarm 1 on the interrupt output with no square wave.
const alarmControl = controlINTC | controlA1IE
