package update

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sirupsen/logrus"

	domainmodel "github.com/sandeepkv93/sugardiff/internal/model"
	"github.com/sandeepkv93/sugardiff/internal/storage"
)

// InputMode selects which entry buffer receives keystrokes.
type InputMode int

const (
	ModeValue InputMode = iota
	ModeTime
)

func (m InputMode) String() string {
	switch m {
	case ModeTime:
		return "time"
	default:
		return "level"
	}
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Submit      string
	SwitchField string
	Palette     string
	Help        string
	Quit        string
}

type EntryState struct {
	ValueText string
	TimeText  string
	Mode      InputMode
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Log          *domainmodel.Log
	Entry        EntryState
	WindowSize   int
	Palette      CommandPaletteState
	HelpVisible  bool
	StatsVisible bool
	Status       StatusBar
	Keys         GlobalKeyMap
	Quitting     bool
	LastError    error
	LastKind     domainmodel.ErrorKind
	rejected     int
	config       RuntimeConfig
	journal      storage.Journal
	logger       logrus.FieldLogger
	termWidth    int
	statusSeq    int
	journalSeq   int
	journalStats *journalSnapshot
	// Bubble components used for rich TUI controls
	valueInput    textinput.Model
	timeInput     textinput.Model
	commandInput  textinput.Model
	listTable     table.Model
	levelGauge    progress.Model
	statsViewport viewport.Model
	helpModel     help.Model
}

// ClearStatusMsg expires the status set under sequence Seq. A zero Seq
// clears whatever is shown.
type ClearStatusMsg struct {
	Seq int
}

type AppErrorMsg struct {
	Err error
}

type AddMeasurementMsg struct {
	Value string
	Time  string
}

type SetWindowMsg struct {
	Size int
}

func NewModel() Model {
	return NewModelWithConfig(DefaultRuntimeConfig(), nil, nil)
}

// NewModelWithConfig wires the session journal and logger. Either may be
// nil: without a journal stats come from the in-memory log, without a
// logger nothing is logged.
func NewModelWithConfig(cfg RuntimeConfig, journal storage.Journal, logger logrus.FieldLogger) Model {
	defaults := DefaultRuntimeConfig()
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaults.WindowSize
	}
	if cfg.ChartWidth <= 0 {
		cfg.ChartWidth = defaults.ChartWidth
	}
	if cfg.ChartHeight <= 0 {
		cfg.ChartHeight = defaults.ChartHeight
	}
	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = defaults.StatusTimeout
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	m := Model{
		Log:        domainmodel.NewLog(),
		Entry:      EntryState{Mode: ModeValue},
		WindowSize: cfg.WindowSize,
		Keys: GlobalKeyMap{
			Submit:      "enter",
			SwitchField: "tab",
			Palette:     "/",
			Help:        "?",
			Quit:        "esc",
		},
		config:  cfg,
		journal: journal,
		logger:  logger.WithField("component", "update"),
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.valueInput = textinput.New()
	m.valueInput.Prompt = ""
	m.valueInput.Placeholder = "e.g. 120"
	m.valueInput.CharLimit = 16
	m.valueInput.Width = 24

	m.timeInput = textinput.New()
	m.timeInput.Prompt = ""
	m.timeInput.Placeholder = "HH:MM"
	m.timeInput.CharLimit = 8
	m.timeInput.Width = 24

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	cols := []table.Column{
		{Title: "Measurement", Width: 34},
	}
	m.listTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(false), table.WithHeight(m.WindowSize+2))

	m.levelGauge = progress.New(progress.WithDefaultGradient(), progress.WithWidth(24))

	m.statsViewport = viewport.New(56, 12)
	m.helpModel = help.New()
}

// syncBubbleData copies the raw buffers and log into the bubble components.
// View calls it on its own copy so rendering never mutates the caller.
func (m *Model) syncBubbleData() {
	m.valueInput.SetValue(m.Entry.ValueText)
	m.valueInput.CursorEnd()
	m.timeInput.SetValue(m.Entry.TimeText)
	m.timeInput.CursorEnd()
	if m.Entry.Mode == ModeTime {
		m.valueInput.Blur()
		m.timeInput.Focus()
	} else {
		m.timeInput.Blur()
		m.valueInput.Focus()
	}

	m.commandInput.SetValue(m.Palette.Input)
	m.commandInput.CursorEnd()
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}

	rows := make([]table.Row, 0, m.WindowSize)
	for _, line := range m.measurementLines() {
		rows = append(rows, table.Row{line})
	}
	m.listTable.SetHeight(m.WindowSize + 2)
	m.listTable.SetRows(rows)
}

func (m Model) measurementLines() []string {
	rows := m.Log.Rows(m.WindowSize)
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, formatRow(row))
	}
	return out
}

func (m Model) chartWidth() int {
	width := m.config.ChartWidth
	if m.termWidth > 0 {
		// left pane plus borders take roughly 52 columns
		width = min(width, max(m.termWidth-52, 20))
	}
	return width
}

func normalizeInput(s string) string {
	return strings.TrimSpace(s)
}
