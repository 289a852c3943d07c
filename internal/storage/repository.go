// Package storage is the local best-effort snapshot store: chat
// history survives restarts here. Nothing in it is ever authoritative
// for authentication or finance data.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ChatMessage is one entry of the locally persisted conversation.
type ChatMessage struct {
	ID        string
	Text      string
	IsUser    bool
	IsError   bool
	CreatedAt time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveMessage appends one message to the history.
func (r *SQLiteRepository) SaveMessage(ctx context.Context, m ChatMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, text, is_user, is_error, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Text, boolToInt(m.IsUser), boolToInt(m.IsError), m.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save chat message: %w", err)
	}
	return nil
}

// ListMessages returns the history oldest first.
func (r *SQLiteRepository) ListMessages(ctx context.Context) ([]ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, is_user, is_error, created_at FROM chat_messages ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var (
			m         ChatMessage
			isUser    int64
			isError   int64
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.Text, &isUser, &isError, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		m.IsUser = isUser != 0
		m.IsError = isError != 0
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			m.CreatedAt = ts
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}
	return messages, nil
}

// DeleteMessage removes one message by ID.
func (r *SQLiteRepository) DeleteMessage(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete chat message: %w", err)
	}
	return nil
}

// ClearMessages drops the whole history.
func (r *SQLiteRepository) ClearMessages(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages`); err != nil {
		return fmt.Errorf("clear chat messages: %w", err)
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
