// Package offline keeps completed assessments on local disk while the hosted
// database is unreachable.
package offline

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Item is one pending snapshot.
type Item struct {
	ID         int64
	SessionID  string
	Payload    []byte
	Attempts   int
	LastError  string
	EnqueuedAt time.Time
}

// Queue is a FIFO of pending snapshots keyed by session. Re-enqueueing a
// session replaces its payload.
type Queue struct {
	db *sql.DB
}

// Open creates the queue file and its schema if needed.
func Open(path string) (*Queue, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("offline: create dir: %w", err)
		}
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("offline: open database: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("offline: pragma %q: %w", p, err)
		}
	}

	q := &Queue{db: db}
	if err := q.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("offline: migration: %w", err)
	}
	return q, nil
}

func (q *Queue) migrate() error {
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS pending_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT    NOT NULL UNIQUE,
			payload     BLOB    NOT NULL,
			attempts    INTEGER NOT NULL DEFAULT 0,
			last_error  TEXT    NOT NULL DEFAULT '',
			enqueued_at INTEGER NOT NULL
		);
	`)
	return err
}

func (q *Queue) Close() error {
	return q.db.Close()
}

// Enqueue stores payload for sessionID.
func (q *Queue) Enqueue(ctx context.Context, sessionID string, payload []byte) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO pending_snapshots (session_id, payload, enqueued_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET payload = excluded.payload, attempts = 0, last_error = ''`,
		sessionID, payload, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("offline: enqueue %s: %w", sessionID, err)
	}
	return nil
}

// Batch returns up to n of the oldest items.
func (q *Queue) Batch(ctx context.Context, n int) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, session_id, payload, attempts, last_error, enqueued_at
		FROM pending_snapshots ORDER BY id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("offline: batch: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var enqueued int64
		if err := rows.Scan(&it.ID, &it.SessionID, &it.Payload, &it.Attempts, &it.LastError, &enqueued); err != nil {
			return nil, fmt.Errorf("offline: scan: %w", err)
		}
		it.EnqueuedAt = time.UnixMilli(enqueued)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Delete removes items that were delivered.
func (q *Queue) Delete(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pending_snapshots WHERE id = ?`, id)
	return err
}

// MarkFailed records a failed delivery attempt.
func (q *Queue) MarkFailed(ctx context.Context, id int64, cause error) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pending_snapshots SET attempts = attempts + 1, last_error = ? WHERE id = ?`,
		cause.Error(), id)
	return err
}

// Len reports the number of pending items.
func (q *Queue) Len(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_snapshots`).Scan(&n)
	return n, err
}
