package views

import (
	"fmt"
	"strings"
	"time"
)

type EntryPanelData struct {
	ValueView  string
	TimeView   string
	ActiveTime bool
}

type MeasurementRowData struct {
	Entry      string
	HasRate    bool
	Rate       float64
	Degenerate bool
}

type MeasurementListData struct {
	TableView string
	Shown     int
	Total     int
}

type ProjectionData struct {
	Available  bool
	Direction  string
	Degenerate bool
	Reached    bool
	Duration   time.Duration
	GaugeView  string
	Latest     string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

type StatsData struct {
	Count    int
	Min      int
	Max      int
	Mean     float64
	First    string
	Last     string
	Rejected int
	Window   int
	// Recent holds the latest rejected inputs, newest first.
	Recent []string
}

const waitingText = "Waiting for measurements..."

func RenderEntryPanel(data EntryPanelData) string {
	valueCursor, timeCursor := ">", " "
	if data.ActiveTime {
		valueCursor, timeCursor = " ", ">"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s level: %s\n", valueCursor, data.ValueView))
	b.WriteString(fmt.Sprintf("%s time:  %s", timeCursor, data.TimeView))
	return b.String()
}

// FormatMeasurementLine renders "[HH:MM] <value> (<rate> / min)"; the rate
// part is left out for the first entry of the log.
func FormatMeasurementLine(row MeasurementRowData) string {
	switch {
	case row.HasRate:
		return fmt.Sprintf("%s (%+.3f / min)", row.Entry, row.Rate)
	case row.Degenerate:
		return fmt.Sprintf("%s (n/a / min)", row.Entry)
	default:
		return row.Entry
	}
}

func RenderMeasurementList(data MeasurementListData) string {
	if data.Total == 0 {
		return "measurements:\n(no measurements yet)"
	}
	return fmt.Sprintf("measurements (last %d of %d):\n%s", data.Shown, data.Total, data.TableView)
}

func FormatProjection(data ProjectionData) string {
	if !data.Available {
		return waitingText
	}
	switch {
	case data.Degenerate:
		return fmt.Sprintf("Time to %s: no estimate", data.Direction)
	case data.Reached:
		return fmt.Sprintf("Time to %s: now", data.Direction)
	default:
		return fmt.Sprintf("Time to %s: %s", data.Direction, HumanDuration(data.Duration))
	}
}

func RenderProjectionPanel(data ProjectionData) string {
	lines := []string{FormatProjection(data)}
	if data.Latest != "" {
		lines = append(lines, fmt.Sprintf("latest: %s %s", data.Latest, data.GaugeView))
	}
	return strings.Join(lines, "\n")
}

// RenderCommandPalette frames the rendered command input; the input view
// carries its own "/" prompt.
func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}

func StatsMarkdown(data StatsData) string {
	var b strings.Builder
	b.WriteString("## Session\n\n")
	if data.Count == 0 {
		b.WriteString("_No measurements recorded_\n\n")
	} else {
		b.WriteString("| metric | value |\n|---|---|\n")
		b.WriteString(fmt.Sprintf("| entries | %d |\n", data.Count))
		b.WriteString(fmt.Sprintf("| range | %s - %s |\n", data.First, data.Last))
		b.WriteString(fmt.Sprintf("| min | %d |\n", data.Min))
		b.WriteString(fmt.Sprintf("| max | %d |\n", data.Max))
		b.WriteString(fmt.Sprintf("| mean | %.1f |\n\n", data.Mean))
	}
	b.WriteString(fmt.Sprintf("Rejected inputs: **%d** · list window: **%d**\n", data.Rejected, data.Window))
	if len(data.Recent) > 0 {
		b.WriteString("\n### Recent rejections\n\n")
		for _, r := range data.Recent {
			b.WriteString("- `" + r + "`\n")
		}
	}
	return b.String()
}

// HumanDuration renders d as its two most significant units, e.g. "1h 30m".
func HumanDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	units := []struct {
		size   time.Duration
		suffix string
	}{
		{24 * time.Hour, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	}
	parts := make([]string, 0, 2)
	for _, u := range units {
		if d < u.size {
			if len(parts) > 0 {
				break
			}
			continue
		}
		n := d / u.size
		d -= n * u.size
		parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
		if len(parts) == 2 || d == 0 {
			break
		}
	}
	return strings.Join(parts, " ")
}
