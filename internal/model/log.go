package model

// Log keeps measurements in non-decreasing timestamp order. Entries that
// share a timestamp stay in the order they were inserted.
type Log struct {
	entries []Measurement
}

func NewLog(ms ...Measurement) *Log {
	l := &Log{}
	for _, m := range ms {
		l.Insert(m)
	}
	return l
}

// Insert places m after the last entry whose timestamp does not exceed its
// own, scanning from the end since new entries are usually the latest.
func (l *Log) Insert(m Measurement) int {
	idx := 0
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Timestamp() <= m.Timestamp() {
			idx = i + 1
			break
		}
	}
	l.entries = append(l.entries, Measurement{})
	copy(l.entries[idx+1:], l.entries[idx:])
	l.entries[idx] = m
	return idx
}

func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

func (l *Log) Entries() []Measurement {
	if l == nil {
		return []Measurement{}
	}
	out := make([]Measurement, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Last() (Measurement, bool) {
	if l.Len() == 0 {
		return Measurement{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Window returns a copy of the trailing n entries.
func (l *Log) Window(n int) []Measurement {
	if n <= 0 || l.Len() == 0 {
		return []Measurement{}
	}
	start := 0
	if len(l.entries) > n {
		start = len(l.entries) - n
	}
	out := make([]Measurement, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

type Point struct {
	X float64
	Y float64
}

func (l *Log) ChartPoints() []Point {
	out := make([]Point, 0, l.Len())
	if l == nil {
		return out
	}
	for _, m := range l.entries {
		out = append(out, Point{X: float64(m.Timestamp()), Y: float64(m.Value())})
	}
	return out
}

// Row is a windowed entry annotated with its rate against the entry before
// it in the full log.
type Row struct {
	Index       int
	Measurement Measurement
	HasRate     bool
	Rate        float64
	RateErr     error
}

func (l *Log) Rows(n int) []Row {
	window := l.Window(n)
	out := make([]Row, 0, len(window))
	start := l.Len() - len(window)
	for i, m := range window {
		idx := start + i
		row := Row{Index: idx, Measurement: m}
		if idx > 0 {
			rate, err := m.Diff(l.entries[idx-1])
			row.HasRate = err == nil
			row.Rate = rate
			row.RateErr = err
		}
		out = append(out, row)
	}
	return out
}
