package update

import (
	"errors"
	"math"

	domainmodel "github.com/sandeepkv93/sugardiff/internal/model"
	"github.com/sandeepkv93/sugardiff/internal/views"
)

func toggleMode(mode InputMode) InputMode {
	if mode == ModeValue {
		return ModeTime
	}
	return ModeValue
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

func formatRow(row domainmodel.Row) string {
	return views.FormatMeasurementLine(views.MeasurementRowData{
		Entry:      row.Measurement.String(),
		HasRate:    row.HasRate,
		Rate:       row.Rate,
		Degenerate: errors.Is(row.RateErr, domainmodel.ErrDegenerateRate),
	})
}

// gaugePercent maps a value onto the chart's y range.
func gaugePercent(value int) float64 {
	p := (float64(value) - domainmodel.YAxisMin) / (domainmodel.YAxisMax - domainmodel.YAxisMin)
	return math.Max(0, math.Min(1, p))
}
