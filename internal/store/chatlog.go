// Package store provides a SQLite-backed chat log for a single session. The
// database lives in memory and is destroyed when the session is closed.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/theirongolddev/finbot/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // register sqlite driver
)

// ChatLog implements session.ChatLog on a private in-memory database.
type ChatLog struct {
	db *sql.DB
}

var _ session.ChatLog = (*ChatLog)(nil)

// OpenChatLog creates an empty in-memory chat log.
func OpenChatLog() (*ChatLog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening chat log: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &ChatLog{db: db}, nil
}

// OpenSession creates a session backed by a SQLite chat log, falling back to
// the plain in-memory log if the database cannot be opened.
func OpenSession(log *zap.Logger, opts ...session.Option) *session.Session {
	cl, err := OpenChatLog()
	if err != nil {
		if log != nil {
			log.Warn("sqlite chat log unavailable, using memory log", zap.Error(err))
		}
		return session.New(opts...)
	}
	return session.New(append(opts, session.WithChatLog(cl))...)
}

// Append stores ex at the end of the log.
func (c *ChatLog) Append(ex session.ChatExchange) error {
	_, err := c.db.Exec(
		`INSERT INTO chat_exchanges (exchange_id, question, response, asked_at) VALUES (?, ?, ?, ?)`,
		ex.ID.String(), ex.Question, ex.Response, ex.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting exchange: %w", err)
	}
	return nil
}

// Recent returns at most n exchanges, newest first.
func (c *ChatLog) Recent(n int) ([]session.ChatExchange, error) {
	rows, err := c.db.Query(
		`SELECT exchange_id, question, response, asked_at FROM chat_exchanges ORDER BY seq DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]session.ChatExchange, 0, n)
	for rows.Next() {
		var id, askedAt string
		var ex session.ChatExchange
		if err := rows.Scan(&id, &ex.Question, &ex.Response, &askedAt); err != nil {
			return nil, err
		}
		if ex.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing exchange id: %w", err)
		}
		if ex.Timestamp, err = time.Parse(time.RFC3339Nano, askedAt); err != nil {
			return nil, fmt.Errorf("parsing exchange time: %w", err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// Len returns the number of stored exchanges.
func (c *ChatLog) Len() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM chat_exchanges").Scan(&count)
	return count, err
}

// Close drops the database and everything in it.
func (c *ChatLog) Close() error {
	return c.db.Close()
}
