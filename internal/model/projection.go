package model

import (
	"fmt"
	"math"
	"time"
)

// Crossing targets and chart bounds are fixed domain constants.
const (
	LowThreshold  = 80
	HighThreshold = 300

	YAxisMin = 0.0
	YAxisMax = 400.0
)

type Direction string

const (
	DirectionFalling Direction = "low"
	DirectionRising  Direction = "high"
)

type Projection struct {
	Direction Direction
	Target    int
	Rate      float64
	Minutes   float64
}

// ProjectCrossing extrapolates the last two entries linearly until the value
// reaches LowThreshold (flat or falling trend) or HighThreshold (rising).
func ProjectCrossing(l *Log) (Projection, error) {
	if l.Len() < 2 {
		return Projection{}, ErrNoPrediction
	}
	last := l.entries[len(l.entries)-1]
	prev := l.entries[len(l.entries)-2]

	p := Projection{Direction: DirectionFalling, Target: LowThreshold}
	rate, err := last.Diff(prev)
	if err != nil {
		return p, err
	}
	p.Rate = rate
	if rate > 0 {
		p.Direction = DirectionRising
		p.Target = HighThreshold
	}
	if rate == 0 {
		return p, fmt.Errorf("%w: flat trend at %d", ErrDegenerateRate, last.Value())
	}
	p.Minutes = float64(p.Target-last.Value()) / rate
	return p, nil
}

// Reached reports whether the value is already at or past the target.
func (p Projection) Reached() bool {
	return p.Minutes <= 0
}

func (p Projection) Duration() time.Duration {
	if p.Minutes <= 0 || math.IsNaN(p.Minutes) || math.IsInf(p.Minutes, 0) {
		return 0
	}
	return time.Duration(p.Minutes * float64(time.Minute))
}

// XAxisBounds leaves a 10% margin under the earliest timestamp and always
// ends at midnight.
func XAxisBounds(points []Point) (float64, float64) {
	if len(points) == 0 {
		return 0, MinutesPerDay
	}
	lo := points[0].X
	for _, p := range points[1:] {
		lo = math.Min(lo, p.X)
	}
	return lo * 0.9, MinutesPerDay
}
