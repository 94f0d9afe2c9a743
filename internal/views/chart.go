package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/sugardiff/internal/model"
)

type ChartPoint struct {
	X float64
	Y float64
}

type ChartData struct {
	Title  string
	Points []ChartPoint
	XMin   float64
	XMax   float64
	YMin   float64
	YMax   float64
	Width  int
	Height int
}

var (
	chartTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	chartLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	chartAxisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderChart draws the points as a connected braille line inside fixed
// axis bounds. Segments are clipped to the bounds before drawing, so the
// cost of a frame does not depend on how far a value lies off the chart.
func RenderChart(data ChartData) string {
	width := max(data.Width, 20)
	height := max(data.Height, 4)

	lc := linechart.New(width, height, data.XMin, data.XMax, data.YMin, data.YMax,
		linechart.WithXYSteps(4, 2),
		linechart.WithXLabelFormatter(func(_ int, v float64) string {
			return model.FormatTimestamp(int(math.Round(v)))
		}),
		linechart.WithYLabelFormatter(func(_ int, v float64) string {
			return fmt.Sprintf("%.0f", v)
		}),
	)
	lc.Style = chartLineStyle
	lc.AxisStyle = chartAxisStyle
	lc.LabelStyle = chartAxisStyle
	lc.DrawXYAxisAndLabel()

	bounds := chartBounds{data.XMin, data.XMax, data.YMin, data.YMax}
	for i, p := range data.Points {
		prev := p
		if i > 0 {
			prev = data.Points[i-1]
		}
		from, to, ok := bounds.clip(prev, p)
		if !ok {
			continue
		}
		lc.DrawBrailleLine(
			canvas.Float64Point{X: from.X, Y: from.Y},
			canvas.Float64Point{X: to.X, Y: to.Y},
		)
	}

	var b strings.Builder
	if data.Title != "" {
		b.WriteString(chartTitleStyle.Render(data.Title) + "\n")
	}
	b.WriteString(lc.View())
	return b.String()
}

type chartBounds struct {
	xMin, xMax, yMin, yMax float64
}

// clip trims the segment a-b to the bounds (Liang-Barsky). ok is false when
// no part of the segment lies inside.
func (c chartBounds) clip(a, b ChartPoint) (ChartPoint, ChartPoint, bool) {
	for _, v := range []float64{a.X, a.Y, b.X, b.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ChartPoint{}, ChartPoint{}, false
		}
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X - c.xMin},
		{dx, c.xMax - a.X},
		{-dy, a.Y - c.yMin},
		{dy, c.yMax - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return ChartPoint{}, ChartPoint{}, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return ChartPoint{}, ChartPoint{}, false
		}
	}
	from := ChartPoint{X: a.X + t0*dx, Y: a.Y + t0*dy}
	to := ChartPoint{X: a.X + t1*dx, Y: a.Y + t1*dy}
	return from, to, true
}
