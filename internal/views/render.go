package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Below this terminal width the entry and chart panes are stacked.
const stackedLayoutWidth = 100

type AppData struct {
	Header     string
	LeftPane   string
	RightPane  string
	Projection string
	// Alert highlights the projection when the level is at or past a mark.
	Alert      bool
	SidePane   string
	StatusLine string
	IsError    bool
	Footer     string
	Width      int
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	paneStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	projectionStyle = paneStyle.BorderForeground(lipgloss.Color("6"))
	alertStyle      = paneStyle.BorderForeground(lipgloss.Color("9")).Bold(true)
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderApp(data AppData) string {
	left := paneStyle.Width(40).Render(data.LeftPane)
	right := paneStyle.Render(data.RightPane)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	if data.Width > 0 && data.Width < stackedLayoutWidth {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	}

	projection := projectionStyle
	if data.Alert {
		projection = alertStyle
	}

	sections := []string{headerStyle.Render(data.Header), body, projection.Render(data.Projection)}
	if data.StatusLine != "" {
		status := statusStyle
		if data.IsError {
			status = errorStyle
		}
		sections = append(sections, status.Render(data.StatusLine))
	}
	if data.SidePane != "" {
		sections = append(sections, paneStyle.Render(data.SidePane))
	}
	if data.Footer != "" {
		sections = append(sections, footerStyle.Render(data.Footer))
	}
	return strings.Join(sections, "\n")
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when glamour fails.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
