package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/sugardiff/internal/storage"
)

const (
	journalTimeout   = 2 * time.Second
	recentRejections = 5
)

// journalSnapshot caches what the stats pane shows so View never queries
// the journal.
type journalSnapshot struct {
	summary   storage.Summary
	recent    []storage.Rejection
	loadedSeq int
}

type journalSyncedMsg struct {
	Seq      int
	Snapshot journalSnapshot
}

type journalWrite func(context.Context, storage.Journal) error

// journalCmd runs write, if any, and reloads the stats snapshot outside the
// update loop. Failures come back as AppErrorMsg.
func (m *Model) journalCmd(write journalWrite) tea.Cmd {
	if m.journal == nil {
		return nil
	}
	m.journalSeq++
	seq := m.journalSeq
	journal := m.journal
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		if write != nil {
			if err := write(ctx, journal); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("journal: %w", err)}
			}
		}
		summary, err := journal.Summary(ctx)
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("journal summary: %w", err)}
		}
		recent, err := journal.ListRejections(ctx, storage.RejectionListFilter{Limit: recentRejections, Newest: true})
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("journal rejections: %w", err)}
		}
		return journalSyncedMsg{Seq: seq, Snapshot: journalSnapshot{summary: summary, recent: recent}}
	}
}

func recordMeasurement(entry storage.Entry) journalWrite {
	return func(ctx context.Context, j storage.Journal) error {
		_, err := j.RecordMeasurement(ctx, entry)
		return err
	}
}

func recordRejection(rejection storage.Rejection) journalWrite {
	return func(ctx context.Context, j storage.Journal) error {
		_, err := j.RecordRejection(ctx, rejection)
		return err
	}
}

// applyJournalSync keeps the newest snapshot; replies can arrive out of order.
func (m *Model) applyJournalSync(msg journalSyncedMsg) {
	if m.journalStats != nil && msg.Seq < m.journalStats.loadedSeq {
		return
	}
	snap := msg.Snapshot
	snap.loadedSeq = msg.Seq
	m.journalStats = &snap
}
