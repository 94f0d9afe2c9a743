package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/sugardiff/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		return m.executePaletteCommand()
	case "backspace":
		m.Palette.Input = dropLastRune(m.Palette.Input)
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.Palette.Input += string(msg.Runes)
		case tea.KeySpace:
			m.Palette.Input += " "
		}
	}
	return m, nil
}

// executePaletteCommand parses the palette input and answers with the
// message that applies it, so palette commands and programmatic messages
// share one path through Update.
func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.logger.WithField("command", raw).WithError(err).Warn("command rejected")
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			next = emit(AddMeasurementMsg{Value: a.Value, Time: a.Time})
			return commands.Result{}, nil
		},
		Window: func(w commands.WindowArgs) (commands.Result, error) {
			next = emit(SetWindowMsg{Size: w.Size})
			return commands.Result{}, nil
		},
		Stats: func(commands.StatsArgs) (commands.Result, error) {
			m.StatsVisible = !m.StatsVisible
			if m.StatsVisible {
				next = m.journalCmd(nil)
				return commands.Result{Message: "stats shown"}, nil
			}
			return commands.Result{Message: "stats hidden"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.logger.WithField("command", string(cmd.Type)).Debug("command accepted")
	if res.Message != "" {
		m.Status = StatusBar{Text: res.Message, IsError: false}
	}
	return m, next
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
