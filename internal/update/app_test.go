package update

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	domainmodel "github.com/sandeepkv93/sugardiff/internal/model"
	"github.com/sandeepkv93/sugardiff/internal/storage"
)

func newTestModel() Model {
	return newTestModelWithJournal(nil)
}

func newTestModelWithJournal(journal storage.Journal) Model {
	cfg := DefaultRuntimeConfig()
	cfg.StatusTimeout = time.Millisecond
	return NewModelWithConfig(cfg, journal, nil)
}

// send delivers msg and then every message its commands produce, except
// status expiry and quit.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model from Update, got %T", updated)
	}
	for _, follow := range cmdMsgs(cmd) {
		switch follow.(type) {
		case ClearStatusMsg, tea.QuitMsg:
			continue
		}
		next = send(t, next, follow)
	}
	return next
}

func cmdMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, cmdMsgs(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func enter(t *testing.T, m Model) Model {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func submit(t *testing.T, m Model, value, clock string) Model {
	t.Helper()
	m = typeText(t, m, value)
	m = enter(t, m)
	m = typeText(t, m, clock)
	return enter(t, m)
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if m.Entry.Mode != ModeValue {
		t.Fatalf("expected value mode, got %s", m.Entry.Mode)
	}
	if m.WindowSize != 6 {
		t.Fatalf("expected window 6, got %d", m.WindowSize)
	}
	if m.Keys.Quit != "esc" {
		t.Fatalf("expected quit key esc, got %q", m.Keys.Quit)
	}
	if m.Log.Len() != 0 {
		t.Fatalf("expected empty log, got %d entries", m.Log.Len())
	}
}

func TestEntryStateMachineAddsMeasurement(t *testing.T) {
	m := newTestModel()
	m = typeText(t, m, "100")
	if m.Entry.ValueText != "100" {
		t.Fatalf("expected value buffer 100, got %q", m.Entry.ValueText)
	}
	m = enter(t, m)
	if m.Entry.Mode != ModeTime {
		t.Fatalf("expected time mode after enter, got %s", m.Entry.Mode)
	}
	m = typeText(t, m, "08:00")
	m = enter(t, m)

	if m.Log.Len() != 1 {
		t.Fatalf("expected one entry, got %d", m.Log.Len())
	}
	if m.Entry.ValueText != "" || m.Entry.TimeText != "" || m.Entry.Mode != ModeValue {
		t.Fatalf("expected entry state reset, got %+v", m.Entry)
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}
	if m.LastKind != domainmodel.ErrorKindNone {
		t.Fatalf("expected no error kind, got %q", m.LastKind)
	}
}

func TestRisingTrendProjection(t *testing.T) {
	m := newTestModel()
	m = submit(t, m, "100", "08:00")
	m = submit(t, m, "120", "08:10")

	view := m.View()
	if !strings.Contains(view, "Time to high: 1h 30m") {
		t.Fatalf("expected rising projection in view:\n%s", view)
	}
	lines := m.measurementLines()
	if len(lines) != 2 || lines[0] != "[08:00] 100" || lines[1] != "[08:10] 120 (+2.000 / min)" {
		t.Fatalf("unexpected list lines: %q", lines)
	}
}

func TestFallingPastThresholdRendersNow(t *testing.T) {
	m := newTestModel()
	m = submit(t, m, "90", "08:00")
	m = submit(t, m, "70", "08:10")

	data := m.projectionData()
	if !data.Available || data.Direction != "low" || !data.Reached {
		t.Fatalf("unexpected projection data: %+v", data)
	}
	if !strings.Contains(m.View(), "Time to low: now") {
		t.Fatal("expected reached projection in view")
	}
}

func TestSharedTimestampHasNoEstimate(t *testing.T) {
	m := newTestModel()
	m = submit(t, m, "100", "08:00")
	m = submit(t, m, "110", "08:00")

	lines := m.measurementLines()
	if len(lines) != 2 || lines[1] != "[08:00] 110 (n/a / min)" {
		t.Fatalf("unexpected list lines: %q", lines)
	}
	if !strings.Contains(m.View(), "Time to low: no estimate") {
		t.Fatal("expected no estimate projection in view")
	}
}

func TestWaitingForMeasurements(t *testing.T) {
	m := newTestModel()
	if !strings.Contains(m.View(), "Waiting for measurements...") {
		t.Fatal("expected placeholder projection")
	}
	m = submit(t, m, "100", "08:00")
	if data := m.projectionData(); data.Available || data.Latest != "[08:00] 100" {
		t.Fatalf("unexpected projection data with one entry: %+v", data)
	}
}

func TestInvalidValueKeepsBuffers(t *testing.T) {
	m := newTestModel()
	m = submit(t, m, "abc", "08:00")

	if m.Log.Len() != 0 {
		t.Fatalf("expected empty log, got %d", m.Log.Len())
	}
	if m.Entry.ValueText != "abc" || m.Entry.TimeText != "08:00" {
		t.Fatalf("expected buffers kept, got %+v", m.Entry)
	}
	if m.Entry.Mode != ModeValue {
		t.Fatalf("expected focus back on value field, got %s", m.Entry.Mode)
	}
	if m.LastKind != domainmodel.ErrorKindInvalidValue || !errors.Is(m.LastError, domainmodel.ErrInvalidValue) {
		t.Fatalf("unexpected error state: %q %v", m.LastKind, m.LastError)
	}
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestMalformedTimeStaysOnTimeField(t *testing.T) {
	m := newTestModel()
	m = submit(t, m, "100", "0800")

	if m.Log.Len() != 0 {
		t.Fatalf("expected empty log, got %d", m.Log.Len())
	}
	if m.Entry.Mode != ModeTime || m.Entry.TimeText != "0800" {
		t.Fatalf("expected time field kept, got %+v", m.Entry)
	}
	if m.LastKind != domainmodel.ErrorKindMalformedTime {
		t.Fatalf("expected malformed time, got %q", m.LastKind)
	}
}

func TestTabAndBackspaceEditActiveField(t *testing.T) {
	m := newTestModel()
	m = typeText(t, m, "12")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "9:55")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.Entry.ValueText != "12" || m.Entry.TimeText != "9:5" {
		t.Fatalf("unexpected buffers: %+v", m.Entry)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.Entry.Mode != ModeValue || m.Entry.ValueText != "" {
		t.Fatalf("unexpected entry after backspaces: %+v", m.Entry)
	}
}

func TestInsertKeepsChronologicalOrder(t *testing.T) {
	m := newTestModel()
	m = send(t, m, AddMeasurementMsg{Value: "100", Time: "08:00"})
	m = send(t, m, AddMeasurementMsg{Value: "110", Time: "08:00"})
	m = send(t, m, AddMeasurementMsg{Value: "95", Time: "07:00"})

	got := make([]string, 0, 3)
	for _, e := range m.Log.Entries() {
		got = append(got, e.String())
	}
	want := []string{"[07:00] 95", "[08:00] 100", "[08:00] 110"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestWindowLimitsListRows(t *testing.T) {
	m := newTestModel()
	for _, clock := range []string{"08:00", "08:10", "08:20", "08:30"} {
		m = send(t, m, AddMeasurementMsg{Value: "100", Time: clock})
	}
	m = send(t, m, SetWindowMsg{Size: 2})
	lines := m.measurementLines()
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "[08:20]") {
		t.Fatalf("unexpected windowed lines: %q", lines)
	}

	m = send(t, m, SetWindowMsg{Size: 0})
	if m.WindowSize != 2 {
		t.Fatalf("expected non-positive window ignored, got %d", m.WindowSize)
	}
}

func TestPaletteCommands(t *testing.T) {
	m := newTestModel()
	m = typeText(t, m, "/")
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}
	m = typeText(t, m, "add 90 07:00")
	m = enter(t, m)
	if m.Palette.Active || m.Log.Len() != 1 {
		t.Fatalf("expected palette closed and one entry, got active=%v len=%d", m.Palette.Active, m.Log.Len())
	}

	m = typeText(t, m, "/window 3")
	m = enter(t, m)
	if m.WindowSize != 3 {
		t.Fatalf("expected window 3, got %d", m.WindowSize)
	}

	m = typeText(t, m, "/stats")
	m = enter(t, m)
	if !m.StatsVisible {
		t.Fatal("expected stats visible")
	}
	if stats := m.statsData(); stats.Count != 1 || stats.Min != 90 || stats.Window != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPaletteErrors(t *testing.T) {
	m := newTestModel()
	m = typeText(t, m, "/bogus")
	m = enter(t, m)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command status, got %+v", m.Status)
	}

	m = typeText(t, m, "/add 100 8")
	m = enter(t, m)
	if m.Log.Len() != 0 || m.LastKind != domainmodel.ErrorKindMalformedTime {
		t.Fatalf("expected rejected add, got len=%d kind=%q", m.Log.Len(), m.LastKind)
	}

	m = typeText(t, m, "/window")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Palette.Active || m.Quitting {
		t.Fatalf("expected esc to close the palette only, got %+v quitting=%v", m.Palette, m.Quitting)
	}
}

func TestJournalRecordsSession(t *testing.T) {
	journal, err := storage.OpenMemoryJournal(t.Context())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = journal.Close() })

	m := newTestModelWithJournal(journal)
	m = send(t, m, AddMeasurementMsg{Value: "120", Time: "08:10"})
	m = send(t, m, AddMeasurementMsg{Value: "100", Time: "08:00"})
	m = send(t, m, AddMeasurementMsg{Value: "x", Time: "08:20"})

	summary, err := journal.Summary(t.Context())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 2 || summary.Rejected != 1 || summary.First != "08:00" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	rejections, err := journal.ListRejections(t.Context(), storage.RejectionListFilter{})
	if err != nil {
		t.Fatalf("list rejections: %v", err)
	}
	if len(rejections) != 1 || rejections[0].Kind != string(domainmodel.ErrorKindInvalidValue) || rejections[0].ValueText != "x" {
		t.Fatalf("unexpected journal rejections: %+v", rejections)
	}

	stats := m.statsData()
	if stats.Rejected != 1 || stats.Count != 2 || stats.First != "08:00" {
		t.Fatalf("unexpected stats from journal: %+v", stats)
	}
	if len(stats.Recent) != 1 || !strings.HasPrefix(stats.Recent[0], `InvalidValue "x" "08:20"`) {
		t.Fatalf("unexpected recent rejections: %q", stats.Recent)
	}
}

func TestStatsViewReadsCachedSnapshot(t *testing.T) {
	journal, err := storage.OpenMemoryJournal(t.Context())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}

	m := newTestModelWithJournal(journal)
	if stats := m.statsData(); stats.Count != 0 {
		t.Fatalf("expected in-memory fallback before the first snapshot, got %+v", stats)
	}
	m = send(t, m, AddMeasurementMsg{Value: "100", Time: "08:00"})
	m = typeText(t, m, "/stats")
	m = enter(t, m)
	if !m.StatsVisible || m.journalStats == nil {
		t.Fatalf("expected stats visible with a cached snapshot, got visible=%v", m.StatsVisible)
	}

	// A closed journal would fail any query made while rendering.
	if err := journal.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}
	if view := m.View(); !strings.Contains(view, "Session") {
		t.Fatalf("expected stats pane in view:\n%s", view)
	}
	if stats := m.statsData(); stats.Count != 1 || stats.Min != 100 {
		t.Fatalf("unexpected cached stats: %+v", stats)
	}
}

func TestJournalFailureReportsAppError(t *testing.T) {
	journal, err := storage.OpenMemoryJournal(t.Context())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	if err := journal.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	m := newTestModelWithJournal(journal)
	m = send(t, m, AddMeasurementMsg{Value: "100", Time: "08:00"})
	if m.Log.Len() != 1 {
		t.Fatalf("expected the in-memory log to keep the entry, got %d", m.Log.Len())
	}
	if m.LastError == nil || !m.Status.IsError || !strings.Contains(m.Status.Text, "journal") {
		t.Fatalf("expected journal error status, got %+v (%v)", m.Status, m.LastError)
	}
}

func TestJournalSyncKeepsNewestSnapshot(t *testing.T) {
	m := newTestModel()
	m.applyJournalSync(journalSyncedMsg{Seq: 2, Snapshot: journalSnapshot{summary: storage.Summary{Count: 2}}})
	m.applyJournalSync(journalSyncedMsg{Seq: 1, Snapshot: journalSnapshot{summary: storage.Summary{Count: 1}}})
	if m.journalStats == nil || m.journalStats.summary.Count != 2 || m.journalStats.loadedSeq != 2 {
		t.Fatalf("expected the newer snapshot to win, got %+v", m.journalStats)
	}
	m.applyJournalSync(journalSyncedMsg{Seq: 3, Snapshot: journalSnapshot{summary: storage.Summary{Count: 3}}})
	if m.journalStats.summary.Count != 3 {
		t.Fatalf("expected snapshot 3, got %+v", m.journalStats)
	}
}

func TestLogStatsFallback(t *testing.T) {
	l := domainmodel.NewLog()
	if got := logStats(l, 2, 6); got.Count != 0 || got.Rejected != 2 {
		t.Fatalf("unexpected empty stats: %+v", got)
	}
	for _, in := range [][2]string{{"100", "08:00"}, {"140", "09:00"}, {"90", "07:30"}} {
		m, err := domainmodel.NewMeasurement(in[0], in[1])
		if err != nil {
			t.Fatalf("measurement %v: %v", in, err)
		}
		l.Insert(m)
	}
	got := logStats(l, 0, 6)
	if got.Count != 3 || got.Min != 90 || got.Max != 140 || got.First != "07:30" || got.Last != "09:00" {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if got.Mean < 109.9 || got.Mean > 110.1 {
		t.Fatalf("unexpected mean: %v", got.Mean)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel()
	m = send(t, m, SetWindowMsg{Size: 4})
	if m.Status.Text != "showing the last 4 measurements" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m = send(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || m.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", m.LastError)
	}
	if !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}

	m = send(t, m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", m.Status)
	}
}

func TestHelpToggleAndQuit(t *testing.T) {
	m := newTestModel()
	m = typeText(t, m, "?")
	if !m.HelpVisible {
		t.Fatal("expected help visible")
	}
	if !strings.Contains(m.View(), "/window <n>") {
		t.Fatal("expected palette commands in help panel")
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected esc to quit")
	}
	updated, cmd = newTestModel().Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected ctrl+c to quit")
	}
}

func TestViewDoesNotMutateModel(t *testing.T) {
	m := newTestModel()
	m = typeText(t, m, "150")
	_ = m.View()
	if m.valueInput.Value() != "" {
		t.Fatalf("expected View to leave the caller's inputs untouched, got %q", m.valueInput.Value())
	}
	if !strings.Contains(m.View(), "150") {
		t.Fatal("expected typed value in view")
	}
}

func TestStatusExpiresAfterTimeout(t *testing.T) {
	m := newTestModel()
	updated, cmd := m.Update(AppErrorMsg{Err: errors.New("boom")})
	m = updated.(Model)

	var clear *ClearStatusMsg
	for _, msg := range cmdMsgs(cmd) {
		if c, ok := msg.(ClearStatusMsg); ok {
			clear = &c
		}
	}
	if clear == nil || clear.Seq != m.statusSeq {
		t.Fatalf("expected a status expiry for seq %d, got %+v", m.statusSeq, clear)
	}
	m = send(t, m, *clear)
	if m.Status.Text != "" {
		t.Fatalf("expected status cleared, got %+v", m.Status)
	}
}

func TestStaleStatusExpiryKeepsNewerStatus(t *testing.T) {
	m := newTestModel()
	m = typeText(t, m, "/")
	opened := m.statusSeq
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.statusSeq == opened {
		t.Fatal("expected a new status sequence")
	}

	m = send(t, m, ClearStatusMsg{Seq: opened})
	if m.Status.Text != "command palette closed" {
		t.Fatalf("expected stale expiry ignored, got %+v", m.Status)
	}
	m = send(t, m, ClearStatusMsg{Seq: m.statusSeq})
	if m.Status.Text != "" {
		t.Fatalf("expected current expiry to clear, got %+v", m.Status)
	}
}

func TestPaletteEmitsMessages(t *testing.T) {
	m := newTestModel()
	m = typeText(t, m, "/add 90 07:00")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.Log.Len() != 0 {
		t.Fatalf("expected the add to wait for its message, got %d entries", m.Log.Len())
	}
	var add *AddMeasurementMsg
	for _, msg := range cmdMsgs(cmd) {
		if a, ok := msg.(AddMeasurementMsg); ok {
			add = &a
		}
	}
	if add == nil || add.Value != "90" || add.Time != "07:00" {
		t.Fatalf("expected AddMeasurementMsg, got %+v", add)
	}

	m = typeText(t, m, "/window 2")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := cmdMsgs(cmd)
	found := false
	for _, msg := range msgs {
		if w, ok := msg.(SetWindowMsg); ok && w.Size == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SetWindowMsg{2}, got %#v", msgs)
	}
}

func TestPaletteRendersCommandInput(t *testing.T) {
	m := newTestModel()
	m = typeText(t, m, "/add 120")
	view := m.View()
	if !strings.Contains(view, "command: /add 120") {
		t.Fatalf("expected command input in view:\n%s", view)
	}
}
