package update

import (
	"fmt"

	domainmodel "github.com/sandeepkv93/sugardiff/internal/model"
	"github.com/sandeepkv93/sugardiff/internal/views"
)

func (m Model) renderEntryView() string {
	return views.RenderEntryPanel(views.EntryPanelData{
		ValueView:  m.valueInput.View(),
		TimeView:   m.timeInput.View(),
		ActiveTime: m.Entry.Mode == ModeTime,
	})
}

func (m Model) renderListView() string {
	return views.RenderMeasurementList(views.MeasurementListData{
		TableView: m.listTable.View(),
		Shown:     min(m.WindowSize, m.Log.Len()),
		Total:     m.Log.Len(),
	})
}

func (m Model) renderChartView() string {
	points := m.Log.ChartPoints()
	xMin, xMax := domainmodel.XAxisBounds(points)
	chartPoints := make([]views.ChartPoint, 0, len(points))
	for _, p := range points {
		chartPoints = append(chartPoints, views.ChartPoint{X: p.X, Y: p.Y})
	}
	return views.RenderChart(views.ChartData{
		Title:  "level over the day",
		Points: chartPoints,
		XMin:   xMin,
		XMax:   xMax,
		YMin:   domainmodel.YAxisMin,
		YMax:   domainmodel.YAxisMax,
		Width:  m.chartWidth(),
		Height: m.config.ChartHeight,
	})
}

func (m Model) projectionData() views.ProjectionData {
	data := views.ProjectionData{}
	if last, ok := m.Log.Last(); ok {
		data.Latest = last.String()
		data.GaugeView = m.levelGauge.ViewAs(gaugePercent(last.Value()))
	}

	p, err := domainmodel.ProjectCrossing(m.Log)
	switch domainmodel.Classify(err) {
	case domainmodel.ErrorKindNone:
		data.Available = true
		data.Direction = string(p.Direction)
		data.Reached = p.Reached()
		data.Duration = p.Duration()
	case domainmodel.ErrorKindDegenerateRate:
		data.Available = true
		data.Direction = string(p.Direction)
		data.Degenerate = true
	case domainmodel.ErrorKindNoPrediction:
		data.Available = false
	default:
		m.logger.WithError(err).Error("projection failed")
	}
	return data
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderStatsIfVisible() string {
	if !m.StatsVisible {
		return ""
	}
	vp := m.statsViewport
	vp.SetContent(views.RenderMarkdown(views.StatsMarkdown(m.statsData())))
	return vp.View()
}

// statsData prefers the cached journal snapshot and falls back to the
// in-memory log until the first snapshot arrives.
func (m Model) statsData() views.StatsData {
	if m.journal != nil && m.journalStats != nil {
		summary := m.journalStats.summary
		data := views.StatsData{
			Count:    summary.Count,
			Min:      summary.Min,
			Max:      summary.Max,
			Mean:     summary.Mean,
			First:    summary.First,
			Last:     summary.Last,
			Rejected: summary.Rejected,
			Window:   m.WindowSize,
		}
		for _, r := range m.journalStats.recent {
			data.Recent = append(data.Recent, fmt.Sprintf("%s %q %q: %s", r.Kind, r.ValueText, r.TimeText, r.Reason))
		}
		return data
	}
	return logStats(m.Log, m.rejected, m.WindowSize)
}

func logStats(l *domainmodel.Log, rejected, window int) views.StatsData {
	data := views.StatsData{Rejected: rejected, Window: window}
	entries := l.Entries()
	if len(entries) == 0 {
		return data
	}
	data.Count = len(entries)
	data.Min, data.Max = entries[0].Value(), entries[0].Value()
	total := 0
	for _, e := range entries {
		data.Min = min(data.Min, e.Value())
		data.Max = max(data.Max, e.Value())
		total += e.Value()
	}
	data.Mean = float64(total) / float64(len(entries))
	data.First = entries[0].Time().String()
	data.Last = entries[len(entries)-1].Time().String()
	return data
}
