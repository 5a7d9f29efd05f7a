// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/neerai/neerai-tui/internal/model"
	"github.com/neerai/neerai-tui/internal/util"
)

// ErrNotFound is returned when a conversation ID is unknown.
var ErrNotFound = errors.New("conversation not found")

// =============================================================================
// CONVERSATION METADATA
// =============================================================================

// ConversationMeta contains metadata for listing conversations.
type ConversationMeta struct {
	ID           string
	Language     string
	Summary      string
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore handles conversation persistence.
type ConversationStore struct {
	db *sql.DB

	// maxConversations caps the history; oldest conversations are
	// pruned when a save pushes the count over (0 = unlimited).
	maxConversations int
}

// StoreOption is a functional option for configuring ConversationStore.
type StoreOption func(*ConversationStore)

// WithMaxConversations caps how many conversations are kept.
func WithMaxConversations(n int) StoreOption {
	return func(s *ConversationStore) {
		if n >= 0 {
			s.maxConversations = n
		}
	}
}

// NewConversationStore opens (or creates) the history database at path.
func NewConversationStore(path string, opts ...StoreOption) (*ConversationStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// Keep sqlite responsive under contention.
	db.Exec("PRAGMA busy_timeout = 5000;")
	db.Exec("PRAGMA journal_mode = WAL;")
	db.Exec("PRAGMA synchronous = NORMAL;")

	schema := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			language TEXT NOT NULL,
			summary TEXT,
			created_at_ns INTEGER NOT NULL,
			updated_at_ns INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at_ns);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT NOT NULL,
			conversation_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			text TEXT NOT NULL,
			chart TEXT,
			suggestions TEXT,
			created_at_ns INTEGER NOT NULL,
			PRIMARY KEY (conversation_id, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at_ns);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	s := &ConversationStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database handle.
func (s *ConversationStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a conversation, replacing any previous version of it.
func (s *ConversationStore) Save(conv *model.Conversation) error {
	if conv == nil || conv.ID == "" {
		return errors.New("missing conversation id")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	created := conv.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := conv.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	_, err = tx.Exec(
		`INSERT INTO conversations(id, language, summary, created_at_ns, updated_at_ns)
		 VALUES(?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			language=excluded.language,
			summary=excluded.summary,
			updated_at_ns=excluded.updated_at_ns`,
		conv.ID, conv.Language, generateSummary(conv), created.UnixNano(), updated.UnixNano(),
	)
	if err != nil {
		return err
	}

	// Replace the message set wholesale so deletions in memory are
	// reflected on disk.
	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return err
	}
	for _, msg := range conv.Messages {
		chart, suggestions, err := encodePayload(msg)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO messages(id, conversation_id, sender, text, chart, suggestions, created_at_ns)
			 VALUES(?, ?, ?, ?, ?, ?, ?)`,
			msg.ID, conv.ID, string(msg.Sender), msg.Text, chart, suggestions, msg.Timestamp.UnixNano(),
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.enforceLimit()
	return nil
}

// generateSummary creates a summary from the first user message.
func generateSummary(conv *model.Conversation) string {
	for _, msg := range conv.Messages {
		if msg.Sender == model.SenderUser {
			return util.TruncateRunes(strings.TrimSpace(msg.Text), 80)
		}
	}
	return "New conversation"
}

// enforceLimit removes oldest conversations if over limit.
func (s *ConversationStore) enforceLimit() {
	if s.maxConversations <= 0 {
		return
	}
	s.db.Exec(
		`DELETE FROM messages WHERE conversation_id IN (
			SELECT id FROM conversations ORDER BY updated_at_ns DESC LIMIT -1 OFFSET ?
		)`, s.maxConversations)
	s.db.Exec(
		`DELETE FROM conversations WHERE id IN (
			SELECT id FROM conversations ORDER BY updated_at_ns DESC LIMIT -1 OFFSET ?
		)`, s.maxConversations)
}

// encodePayload JSON-encodes the structured parts of a message.
// Absent parts are stored as NULL.
func encodePayload(msg *model.Message) (chart, suggestions any, err error) {
	if msg.Chart != nil {
		b, err := json.Marshal(msg.Chart)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode chart: %w", err)
		}
		chart = string(b)
	}
	if msg.Suggestions != nil {
		b, err := json.Marshal(msg.Suggestions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode suggestions: %w", err)
		}
		suggestions = string(b)
	}
	return chart, suggestions, nil
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a conversation by ID.
func (s *ConversationStore) Load(id string) (*model.Conversation, error) {
	conv := &model.Conversation{ID: id}
	var createdNS, updatedNS int64
	err := s.db.QueryRow(
		`SELECT language, created_at_ns, updated_at_ns FROM conversations WHERE id = ?`, id,
	).Scan(&conv.Language, &createdNS, &updatedNS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	conv.CreatedAt = time.Unix(0, createdNS)
	conv.UpdatedAt = time.Unix(0, updatedNS)

	rows, err := s.db.Query(
		`SELECT id, sender, text, chart, suggestions, created_at_ns
		 FROM messages WHERE conversation_id = ?
		 ORDER BY created_at_ns ASC, id ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var msg model.Message
		var sender string
		var chart, suggestions sql.NullString
		var createdNS int64
		if err := rows.Scan(&msg.ID, &sender, &msg.Text, &chart, &suggestions, &createdNS); err != nil {
			return nil, err
		}
		msg.Sender = model.Sender(sender)
		msg.Timestamp = time.Unix(0, createdNS)
		if chart.Valid {
			var series model.ChartSeries
			if err := json.Unmarshal([]byte(chart.String), &series); err == nil {
				msg.Chart = &series
			}
		}
		if suggestions.Valid {
			json.Unmarshal([]byte(suggestions.String), &msg.Suggestions)
		}
		conv.Messages = append(conv.Messages, &msg)
	}
	return conv, rows.Err()
}

// LoadByIndex loads a conversation by its index in the list (0 = most recent).
func (s *ConversationStore) LoadByIndex(index int) (*model.Conversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(metas) {
		return nil, ErrNotFound
	}
	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved conversations (most recent first).
func (s *ConversationStore) List() ([]ConversationMeta, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.language, c.summary, c.created_at_ns, c.updated_at_ns,
			(SELECT COUNT(1) FROM messages m WHERE m.conversation_id = c.id)
		 FROM conversations c
		 ORDER BY c.updated_at_ns DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []ConversationMeta
	for rows.Next() {
		var m ConversationMeta
		var summary sql.NullString
		var createdNS, updatedNS int64
		if err := rows.Scan(&m.ID, &m.Language, &summary, &createdNS, &updatedNS, &m.MessageCount); err != nil {
			return nil, err
		}
		if summary.Valid {
			m.Summary = summary.String
		}
		m.CreatedAt = time.Unix(0, createdNS)
		m.UpdatedAt = time.Unix(0, updatedNS)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Search finds conversations whose summary or message text matches a
// query string, most recent first.
func (s *ConversationStore) Search(query string) ([]ConversationMeta, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.Query(
		`SELECT DISTINCT c.id, c.language, c.summary, c.created_at_ns, c.updated_at_ns,
			(SELECT COUNT(1) FROM messages m WHERE m.conversation_id = c.id)
		 FROM conversations c
		 LEFT JOIN messages m ON m.conversation_id = c.id
		 WHERE LOWER(c.summary) LIKE ? OR LOWER(m.text) LIKE ?
		 ORDER BY c.updated_at_ns DESC`, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []ConversationMeta
	for rows.Next() {
		var m ConversationMeta
		var summary sql.NullString
		var createdNS, updatedNS int64
		if err := rows.Scan(&m.ID, &m.Language, &summary, &createdNS, &updatedNS, &m.MessageCount); err != nil {
			return nil, err
		}
		if summary.Valid {
			m.Summary = summary.String
		}
		m.CreatedAt = time.Unix(0, createdNS)
		m.UpdatedAt = time.Unix(0, updatedNS)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a conversation by ID.
func (s *ConversationStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	_, err = s.db.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id)
	return err
}

// Clear removes all saved conversations.
func (s *ConversationStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM messages`); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM conversations`)
	return err
}
