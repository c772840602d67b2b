// Package histcache maintains a local SQLite cache of interview sessions
// so the history TUI and sessions commands can render instantly while the
// API refresh happens in the background.
package histcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/prepdeck/pkg/client"
)

// Cache is a SQLite-backed session cache.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at dbPath.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func Open(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	c := &Cache{db: db}

	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return c, nil
}

// migrate creates the necessary tables if they don't exist.
func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY,
		topic TEXT NOT NULL,
		position TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		question_count INTEGER NOT NULL DEFAULT 0,
		score REAL NOT NULL DEFAULT 0,
		cached_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Put stores a session, replacing any previously cached copy.
func (c *Cache) Put(ctx context.Context, s client.Session) error {
	query := `INSERT OR REPLACE INTO sessions
		(id, topic, position, started_at, question_count, score, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := c.db.ExecContext(ctx, query,
		s.ID, s.Topic, s.Position, s.StartedAt, s.QuestionCount, s.Score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Replace swaps the entire cache contents for the given sessions, in one
// transaction. Used after a successful API list to drop stale entries.
func (c *Cache) Replace(ctx context.Context, sessions []client.Session) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	query := `INSERT INTO sessions
		(id, topic, position, started_at, question_count, score, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()

	for _, s := range sessions {
		if _, err := tx.ExecContext(ctx, query,
			s.ID, s.Topic, s.Position, s.StartedAt, s.QuestionCount, s.Score, now); err != nil {
			return fmt.Errorf("failed to insert session %d: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a cached session by id.
func (c *Cache) Get(ctx context.Context, id int64) (*client.Session, error) {
	query := `SELECT id, topic, position, started_at, question_count, score
		FROM sessions WHERE id = ?`

	row := c.db.QueryRowContext(ctx, query, id)

	var s client.Session
	err := row.Scan(&s.ID, &s.Topic, &s.Position, &s.StartedAt, &s.QuestionCount, &s.Score)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	return &s, nil
}

// List returns all cached sessions, most recent first.
func (c *Cache) List(ctx context.Context) ([]client.Session, error) {
	query := `SELECT id, topic, position, started_at, question_count, score
		FROM sessions ORDER BY started_at DESC`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []client.Session
	for rows.Next() {
		var s client.Session
		if err := rows.Scan(&s.ID, &s.Topic, &s.Position, &s.StartedAt, &s.QuestionCount, &s.Score); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return sessions, nil
}

// Delete removes a cached session. Deleting an absent id is a no-op.
func (c *Cache) Delete(ctx context.Context, id int64) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
