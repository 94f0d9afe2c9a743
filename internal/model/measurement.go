package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Measurement struct {
	y int
	t ClockTime
}

func NewMeasurement(valueText, timeText string) (Measurement, error) {
	rawValue := strings.TrimSpace(valueText)
	// Levels are 16-bit so differences and threshold gaps cannot overflow.
	y, err := strconv.ParseInt(rawValue, 10, 16)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: %q", ErrInvalidValue, rawValue)
	}
	t, err := ParseClockTime(strings.TrimSpace(timeText))
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{y: int(y), t: t}, nil
}

func (m Measurement) Value() int      { return m.y }
func (m Measurement) Time() ClockTime { return m.t }
func (m Measurement) Timestamp() int  { return m.t.Timestamp() }

// Diff is the per-minute rate of change from other to m; positive means rising.
func (m Measurement) Diff(other Measurement) (float64, error) {
	dt := m.Timestamp() - other.Timestamp()
	if dt == 0 {
		return 0, fmt.Errorf("%w: both at %s", ErrDegenerateRate, m.t)
	}
	return float64(m.y-other.y) / float64(dt), nil
}

func (m Measurement) String() string {
	return fmt.Sprintf("[%s] %d", m.t, m.y)
}
