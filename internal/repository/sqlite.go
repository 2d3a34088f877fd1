package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/gibsondevhouse/obsidian-cobra/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and applies any pending
// schema migrations. A migration failure aborts store construction.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys so thread deletion cascades to messages
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migration is a single forward-only schema step. Steps are idempotent
// and tracked through PRAGMA user_version.
type migration struct {
	version int
	name    string
	up      func(tx *sql.Tx) error
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial schema",
		up: func(tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE IF NOT EXISTS threads (
					id TEXT PRIMARY KEY,
					title TEXT NOT NULL DEFAULT 'New Chat',
					mode TEXT NOT NULL DEFAULT 'chat',
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS messages (
					id TEXT PRIMARY KEY,
					thread_id TEXT NOT NULL,
					role TEXT NOT NULL,
					content TEXT NOT NULL,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (thread_id) REFERENCES threads(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, created_at)`,
				`CREATE TABLE IF NOT EXISTS memory_fragments (
					key TEXT PRIMARY KEY,
					value TEXT NOT NULL,
					kind TEXT NOT NULL DEFAULT 'general',
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		version: 2,
		name:    "add message token counts",
		up: func(tx *sql.Tx) error {
			return ensureColumn(tx, "messages", "tokens",
				"ALTER TABLE messages ADD COLUMN tokens INTEGER NOT NULL DEFAULT 0")
		},
	},
}

// migrate applies all pending migrations in a single transaction.
// Re-running against an up-to-date database is a no-op.
func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	var pending []migration
	for _, m := range migrations {
		if m.version > version {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, m := range pending {
		if err := m.up(tx); err != nil {
			return fmt.Errorf("migration v%d (%s) failed: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("failed to bump schema version to %d: %w", m.version, err)
		}
	}

	return tx.Commit()
}

// ensureColumn adds a column only if it is missing (SQLite has limited
// ALTER TABLE support, so existing databases are patched in place).
func ensureColumn(tx *sql.Tx, tableName, columnName, ddl string) error {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == columnName {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = tx.Exec(ddl)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateThread persists a new thread.
func (s *SQLiteStore) CreateThread(ctx context.Context, thread *domain.Thread) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO threads (id, title, mode, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		thread.ID, thread.Title, thread.Mode, thread.CreatedAt, thread.UpdatedAt)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return domain.ErrThreadExists
	}
	return err
}

// GetThread retrieves a thread by ID. A missing thread yields (nil, nil).
func (s *SQLiteStore) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	var thread domain.Thread
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, mode, created_at, updated_at FROM threads WHERE id = ?`,
		id).Scan(&thread.ID, &thread.Title, &thread.Mode, &thread.CreatedAt, &thread.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// ListThreads lists all threads, most recently updated first.
func (s *SQLiteStore) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, mode, created_at, updated_at FROM threads ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []domain.Thread
	for rows.Next() {
		var thread domain.Thread
		if err := rows.Scan(&thread.ID, &thread.Title, &thread.Mode, &thread.CreatedAt, &thread.UpdatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	return threads, rows.Err()
}

// UpdateThreadTitle writes a cleaned title and refreshes updated_at.
func (s *SQLiteStore) UpdateThreadTitle(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE threads SET title = ?, updated_at = ? WHERE id = ?`,
		cleanTitle(title), time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrThreadNotFound
	}
	return nil
}

// cleanTitle strips wrapping quote characters and surrounding whitespace.
// Models asked for a short title tend to return it quoted.
func cleanTitle(title string) string {
	t := strings.TrimSpace(title)
	t = strings.Trim(t, `"'`)
	return strings.TrimSpace(t)
}

// DeleteThread removes a thread; its messages go with it via cascade.
func (s *SQLiteStore) DeleteThread(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrThreadNotFound
	}
	return nil
}

// AddMessage writes a new immutable message and refreshes the parent
// thread's updated_at in the same transaction. A zero token count is
// replaced with an estimate.
func (s *SQLiteStore) AddMessage(ctx context.Context, message *domain.Message) error {
	tokens := message.Tokens
	if tokens == 0 {
		tokens = domain.EstimateTokens(message.Content)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE threads SET updated_at = ? WHERE id = ?`,
		time.Now(), message.ThreadID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrThreadNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (id, thread_id, role, content, tokens, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		message.ID, message.ThreadID, message.Role, message.Content, tokens, message.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	message.Tokens = tokens
	return nil
}

// GetMessages retrieves the full message history of a thread in
// chronological order, insertion order breaking timestamp ties.
func (s *SQLiteStore) GetMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	return s.queryMessages(ctx,
		`SELECT id, thread_id, role, content, tokens, created_at FROM messages
		 WHERE thread_id = ? ORDER BY created_at ASC, rowid ASC`, threadID)
}

// GetRecentMessages retrieves up to limit messages, most recent first.
// These are the candidates the context window builder selects from.
func (s *SQLiteStore) GetRecentMessages(ctx context.Context, threadID string, limit int) ([]domain.Message, error) {
	return s.queryMessages(ctx,
		`SELECT id, thread_id, role, content, tokens, created_at FROM messages
		 WHERE thread_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, threadID, limit)
}

func (s *SQLiteStore) queryMessages(ctx context.Context, query string, args ...interface{}) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ThreadID, &msg.Role, &msg.Content, &msg.Tokens, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ThreadTokenCount sums the token counts of all messages in a thread.
func (s *SQLiteStore) ThreadTokenCount(ctx context.Context, threadID string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(tokens), 0) FROM messages WHERE thread_id = ?`,
		threadID).Scan(&total)
	return total, err
}

// SetMemory stores or replaces a memory fragment.
func (s *SQLiteStore) SetMemory(ctx context.Context, key, value, kind string) error {
	if kind == "" {
		kind = "general"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO memory_fragments (key, value, kind, created_at) VALUES (?, ?, ?, ?)`,
		key, value, kind, time.Now())
	return err
}

// GetMemory retrieves a memory fragment by key. Missing keys yield (nil, nil).
func (s *SQLiteStore) GetMemory(ctx context.Context, key string) (*domain.MemoryFragment, error) {
	var frag domain.MemoryFragment
	err := s.db.QueryRowContext(ctx,
		`SELECT key, value, kind, created_at FROM memory_fragments WHERE key = ?`,
		key).Scan(&frag.Key, &frag.Value, &frag.Kind, &frag.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &frag, nil
}

// ListMemory lists all memory fragments.
func (s *SQLiteStore) ListMemory(ctx context.Context) ([]domain.MemoryFragment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, kind, created_at FROM memory_fragments ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frags []domain.MemoryFragment
	for rows.Next() {
		var frag domain.MemoryFragment
		if err := rows.Scan(&frag.Key, &frag.Value, &frag.Kind, &frag.CreatedAt); err != nil {
			return nil, err
		}
		frags = append(frags, frag)
	}
	return frags, rows.Err()
}
