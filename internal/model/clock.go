package model

import (
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day. Hour and minute ranges are not
// enforced beyond fitting in a byte.
type ClockTime struct {
	hour   uint8
	minute uint8
}

func ParseClockTime(raw string) (ClockTime, error) {
	fields := strings.Split(raw, ":")
	if len(fields) < 2 {
		return ClockTime{}, fmt.Errorf("%w: %q needs hour and minute separated by ':'", ErrMalformedTime, raw)
	}
	h, err := strconv.ParseUint(fields[0], 10, 8)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: hour %q in %q", ErrMalformedTime, fields[0], raw)
	}
	m, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: minute %q in %q", ErrMalformedTime, fields[1], raw)
	}
	return ClockTime{hour: uint8(h), minute: uint8(m)}, nil
}

func (c ClockTime) Hour() int   { return int(c.hour) }
func (c ClockTime) Minute() int { return int(c.minute) }

// Timestamp returns minutes since midnight.
func (c ClockTime) Timestamp() int {
	return int(c.hour)*60 + int(c.minute)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}

// FormatTimestamp renders a minutes-since-midnight value as HH:MM.
func FormatTimestamp(ts int) string {
	if ts < 0 {
		ts = 0
	}
	return fmt.Sprintf("%02d:%02d", ts/60, ts%60)
}
