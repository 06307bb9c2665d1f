// Package progress keeps a durable log of answer verdicts per tutoring session.
package progress

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT    NOT NULL,
	activity    TEXT    NOT NULL,
	correct     INTEGER NOT NULL,
	detail      TEXT    NOT NULL DEFAULT '',
	recorded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS outcomes_session ON outcomes(session_id, id);
`

type Outcome struct {
	SessionID  string    `json:"session_id"`
	Activity   string    `json:"activity"`
	Correct    bool      `json:"correct"`
	Detail     string    `json:"detail,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type ActivityTally struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

type Summary struct {
	SessionID  string                   `json:"session_id"`
	Attempts   int                      `json:"attempts"`
	Correct    int                      `json:"correct"`
	ByActivity map[string]ActivityTally `json:"by_activity"`
}

type Store struct {
	db *sql.DB
}

// Open opens the SQLite file at path, or an in-memory database for ":memory:".
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("progress db path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer; also keeps ":memory:" on a single shared connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate progress db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Record(ctx context.Context, o Outcome) error {
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now().UTC()
	}
	correct := 0
	if o.Correct {
		correct = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (session_id, activity, correct, detail, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		o.SessionID, o.Activity, correct, o.Detail, o.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// List returns the outcomes of a session, oldest first.
func (s *Store) List(ctx context.Context, sessionID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, activity, correct, detail, recorded_at FROM outcomes WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		var correct int
		var at int64
		if err := rows.Scan(&o.SessionID, &o.Activity, &correct, &o.Detail, &at); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Correct = correct == 1
		o.RecordedAt = time.UnixMilli(at).UTC()
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) Summary(ctx context.Context, sessionID string) (Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT activity, COUNT(*), SUM(correct) FROM outcomes WHERE session_id = ? GROUP BY activity`,
		sessionID,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize outcomes: %w", err)
	}
	defer rows.Close()

	sum := Summary{SessionID: sessionID, ByActivity: map[string]ActivityTally{}}
	for rows.Next() {
		var act string
		var t ActivityTally
		if err := rows.Scan(&act, &t.Attempts, &t.Correct); err != nil {
			return Summary{}, fmt.Errorf("scan summary: %w", err)
		}
		sum.ByActivity[act] = t
		sum.Attempts += t.Attempts
		sum.Correct += t.Correct
	}
	return sum, rows.Err()
}
