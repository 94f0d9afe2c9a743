package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	domainmodel "github.com/sandeepkv93/sugardiff/internal/model"
	"github.com/sandeepkv93/sugardiff/internal/storage"
)

func (m Model) handleEntryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Submit:
		return m.submitEntry()
	case m.Keys.SwitchField, "shift+tab":
		m.Entry.Mode = toggleMode(m.Entry.Mode)
		return m, nil
	case "backspace":
		m.setActiveBuffer(dropLastRune(m.activeBuffer()))
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.setActiveBuffer(m.activeBuffer() + string(msg.Runes))
	case tea.KeySpace:
		m.setActiveBuffer(m.activeBuffer() + " ")
	}
	return m, nil
}

// submitEntry advances from the value field to the time field, and adds the
// measurement once the time field is submitted.
func (m Model) submitEntry() (Model, tea.Cmd) {
	if m.Entry.Mode == ModeValue {
		m.Entry.Mode = ModeTime
		return m, nil
	}
	cmd, err := m.addMeasurement(m.Entry.ValueText, m.Entry.TimeText)
	if err != nil {
		switch domainmodel.Classify(err) {
		case domainmodel.ErrorKindInvalidValue:
			m.Entry.Mode = ModeValue
		case domainmodel.ErrorKindMalformedTime:
			m.Entry.Mode = ModeTime
		}
		return m, cmd
	}
	m.Entry = EntryState{Mode: ModeValue}
	return m, cmd
}

// addMeasurement parses and inserts one measurement. On failure the log is
// left untouched and the error is reported through the status bar. The
// returned command journals the outcome.
func (m *Model) addMeasurement(valueText, timeText string) (tea.Cmd, error) {
	valueText = normalizeInput(valueText)
	timeText = normalizeInput(timeText)
	fields := logrus.Fields{"value": valueText, "time": timeText}

	measurement, err := domainmodel.NewMeasurement(valueText, timeText)
	if err != nil {
		kind := domainmodel.Classify(err)
		m.LastError = err
		m.LastKind = kind
		m.rejected++
		m.Status = StatusBar{Text: rejectionText(kind, err), IsError: true}
		m.logger.WithFields(fields).WithError(err).Warn("measurement rejected")
		return m.journalCmd(recordRejection(storage.Rejection{
			ValueText: valueText,
			TimeText:  timeText,
			Kind:      string(kind),
			Reason:    err.Error(),
		})), err
	}

	idx := m.Log.Insert(measurement)
	m.LastError = nil
	m.LastKind = domainmodel.ErrorKindNone
	m.Status = StatusBar{Text: fmt.Sprintf("added %s", measurement)}
	m.logger.WithFields(fields).WithField("index", idx).Info("measurement added")
	return m.journalCmd(recordMeasurement(storage.Entry{
		Value:       measurement.Value(),
		Clock:       measurement.Time().String(),
		MinuteOfDay: measurement.Timestamp(),
		Position:    idx,
	})), nil
}

func rejectionText(kind domainmodel.ErrorKind, err error) string {
	switch kind {
	case domainmodel.ErrorKindInvalidValue:
		return fmt.Sprintf("invalid level: %v", err)
	case domainmodel.ErrorKindMalformedTime:
		return fmt.Sprintf("invalid time, expected HH:MM: %v", err)
	default:
		return err.Error()
	}
}

func (m Model) activeBuffer() string {
	if m.Entry.Mode == ModeTime {
		return m.Entry.TimeText
	}
	return m.Entry.ValueText
}

func (m *Model) setActiveBuffer(s string) {
	if m.Entry.Mode == ModeTime {
		m.Entry.TimeText = s
		return
	}
	m.Entry.ValueText = s
}
