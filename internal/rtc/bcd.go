package rtc

// ToBCD encodes 0..99 as two packed decimal digits.
func ToBCD(n int) byte {
	return byte((n/10)<<4 | n%10)
}

// FromBCD decodes two packed decimal digits.
func FromBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// Meridiem is the AM/PM designator used for 12-hour entry.
type Meridiem int

const (
	AM Meridiem = iota
	PM
)

func (m Meridiem) String() string {
	if m == PM {
		return "PM"
	}
	return "AM"
}

// To24Hour converts a 12-hour clock hour (1..12) to 0..23.
func To24Hour(hour int, m Meridiem) int {
	if m == PM && hour < 12 {
		hour += 12
	}
	if m == AM && hour == 12 {
		hour = 0
	}
	return hour
}

// To12Hour converts 0..23 to a 12-hour clock hour and meridiem.
func To12Hour(hour int) (int, Meridiem) {
	m := AM
	if hour >= 12 {
		m = PM
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return hour, m
}
