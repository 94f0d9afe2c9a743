package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/sugardiff/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

// Update runs one step and, when the step left a new status message,
// schedules its expiry.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.Status
	next, cmd := m.update(msg)
	if next.Status != before && next.Status.Text != "" {
		next.statusSeq++
		seq := next.statusSeq
		expire := tea.Tick(next.config.StatusTimeout, func(time.Time) tea.Msg {
			return ClearStatusMsg{Seq: seq}
		})
		cmd = tea.Batch(cmd, expire)
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == "ctrl+c" {
				m.Quitting = true
				return m, tea.Quit
			}
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		case m.Keys.Palette:
			m.Palette.Active = true
			m.Palette.Input = ""
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		}
		return m.handleEntryKey(typed)
	case tea.WindowSizeMsg:
		m.termWidth = typed.Width
		return m, nil
	case ClearStatusMsg:
		if typed.Seq == 0 || typed.Seq == m.statusSeq {
			m.Status = StatusBar{}
		}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.logger.WithError(typed.Err).Error("application error")
		}
		return m, nil
	case journalSyncedMsg:
		m.applyJournalSync(typed)
		return m, nil
	case AddMeasurementMsg:
		cmd, _ := m.addMeasurement(typed.Value, typed.Time)
		return m, cmd
	case SetWindowMsg:
		if typed.Size > 0 {
			m.WindowSize = typed.Size
			m.Status = StatusBar{Text: fmt.Sprintf("showing the last %d measurements", typed.Size), IsError: false}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		status = fmt.Sprintf("status: %s", m.Status.Text)
	}
	projection := m.projectionData()

	leftPane := strings.Join([]string{
		m.renderEntryView(),
		"",
		m.renderListView(),
	}, "\n")
	if palette := m.renderCommandPalette(); palette != "" {
		leftPane += "\n\n" + palette
	}

	sidePane := strings.TrimSpace(strings.Join([]string{
		m.renderStatsIfVisible(),
		m.renderHelpIfVisible(),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("sugardiff | input: %s | entries: %d | window: %d", m.Entry.Mode, m.Log.Len(), m.WindowSize),
		LeftPane:   leftPane,
		RightPane:  m.renderChartView(),
		Projection: views.RenderProjectionPanel(projection),
		Alert:      projection.Available && projection.Reached,
		SidePane:   sidePane,
		StatusLine: status,
		IsError:    m.Status.IsError,
		Width:      m.termWidth,
		Footer:     fmt.Sprintf("keys: %s submit | %s switch field | %s cmd | %s help | %s quit", m.Keys.Submit, m.Keys.SwitchField, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}
