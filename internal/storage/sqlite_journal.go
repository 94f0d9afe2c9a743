package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteTimeLayout = time.RFC3339Nano
	memoryDSN        = ":memory:"
)

var _ Journal = (*SQLiteJournal)(nil)

type SQLiteJournal struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteJournal(db *sql.DB) (*SQLiteJournal, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteJournal{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// OpenMemoryJournal opens a private in-memory database. A single connection
// is kept because every new connection to :memory: starts empty.
func OpenMemoryJournal(ctx context.Context) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	journal, err := NewSQLiteJournal(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

func (j *SQLiteJournal) RecordMeasurement(ctx context.Context, in Entry) (int64, error) {
	recorded := in.RecordedAt
	if recorded.IsZero() {
		recorded = j.now()
	}
	res, err := j.db.ExecContext(ctx, `
		INSERT INTO entries (value, clock, minute_of_day, position, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.Value, in.Clock, in.MinuteOfDay, in.Position, recorded.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("record measurement: %w", err)
	}
	return res.LastInsertId()
}

func (j *SQLiteJournal) RecordRejection(ctx context.Context, in Rejection) (int64, error) {
	recorded := in.RecordedAt
	if recorded.IsZero() {
		recorded = j.now()
	}
	res, err := j.db.ExecContext(ctx, `
		INSERT INTO rejections (value_text, time_text, kind, reason, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.ValueText, in.TimeText, in.Kind, in.Reason, recorded.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("record rejection: %w", err)
	}
	return res.LastInsertId()
}

// ListRejections returns rejected inputs in arrival order, or newest first
// when filter.Newest is set.
func (j *SQLiteJournal) ListRejections(ctx context.Context, filter RejectionListFilter) ([]Rejection, error) {
	query := `SELECT seq, value_text, time_text, kind, reason, recorded_at FROM rejections ORDER BY seq ASC`
	if filter.Newest {
		query = `SELECT seq, value_text, time_text, kind, reason, recorded_at FROM rejections ORDER BY seq DESC`
	}
	args := make([]any, 0, 1)
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rejections: %w", err)
	}
	defer rows.Close()

	out := make([]Rejection, 0)
	for rows.Next() {
		var item Rejection
		var recorded string
		if err := rows.Scan(&item.Seq, &item.ValueText, &item.TimeText, &item.Kind, &item.Reason, &recorded); err != nil {
			return nil, err
		}
		recordedAt, err := parseRequiredTime(recorded)
		if err != nil {
			return nil, err
		}
		item.RecordedAt = recordedAt
		out = append(out, item)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	var minV, maxV sql.NullInt64
	var mean sql.NullFloat64
	row := j.db.QueryRowContext(ctx, `SELECT COUNT(*), MIN(value), MAX(value), AVG(value) FROM entries`)
	if err := row.Scan(&out.Count, &minV, &maxV, &mean); err != nil {
		return Summary{}, fmt.Errorf("summarize entries: %w", err)
	}
	out.Min = int(minV.Int64)
	out.Max = int(maxV.Int64)
	out.Mean = mean.Float64

	if out.Count > 0 {
		if err := j.db.QueryRowContext(ctx, `
			SELECT clock FROM entries ORDER BY minute_of_day ASC, seq ASC LIMIT 1`).Scan(&out.First); err != nil {
			return Summary{}, fmt.Errorf("summarize first entry: %w", err)
		}
		if err := j.db.QueryRowContext(ctx, `
			SELECT clock FROM entries ORDER BY minute_of_day DESC, seq DESC LIMIT 1`).Scan(&out.Last); err != nil {
			return Summary{}, fmt.Errorf("summarize last entry: %w", err)
		}
	}

	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rejections`).Scan(&out.Rejected); err != nil {
		return Summary{}, fmt.Errorf("summarize rejections: %w", err)
	}
	return out, nil
}

func parseRequiredTime(raw string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", raw, err)
	}
	return t, nil
}
