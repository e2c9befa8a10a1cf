package query

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// HistoryDB persists conversations and their messages.
type HistoryDB struct {
	db *sql.DB
}

// OpenHistoryDB opens or creates the history database at the given path.
func OpenHistoryDB(dbPath string) (*HistoryDB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The history DB lives under the user's config directory; the pure-Go
	// driver keeps it working on installs built without cgo.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	hdb := &HistoryDB{db: db}
	if err := hdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		dataset TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL REFERENCES conversations(id),
		role TEXT NOT NULL,
		text TEXT NOT NULL,
		sql_text TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
	`

	_, err := h.db.Exec(schema)
	return err
}

// CreateConversation inserts a new conversation record.
func (h *HistoryDB) CreateConversation(title, dataset string) (*model.Conversation, error) {
	now := time.Now()
	result, err := h.db.Exec(`
		INSERT INTO conversations (title, dataset, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, title, dataset, now, now)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Conversation{
		ID:        id,
		Title:     title,
		Dataset:   dataset,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AppendMessage inserts a message and bumps the conversation timestamp.
func (h *HistoryDB) AppendMessage(m *model.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	result, err := h.db.Exec(`
		INSERT INTO messages (conversation_id, role, text, sql_text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ConversationID, m.Role, m.Text, m.SQL, m.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id

	_, err = h.db.Exec(`
		UPDATE conversations SET updated_at = ? WHERE id = ?
	`, m.CreatedAt, m.ConversationID)
	return err
}

// GetMessages returns all messages for a conversation, oldest first.
func (h *HistoryDB) GetMessages(conversationID int64) ([]model.Message, error) {
	rows, err := h.db.Query(`
		SELECT id, conversation_id, role, text, sql_text, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Text, &m.SQL, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ListConversations returns all conversations, most recently updated first.
func (h *HistoryDB) ListConversations() ([]model.Conversation, error) {
	rows, err := h.db.Query(`
		SELECT id, title, dataset, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.Dataset, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// RenameConversation updates a conversation's title.
func (h *HistoryDB) RenameConversation(id int64, title string) error {
	_, err := h.db.Exec(`
		UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?
	`, title, time.Now(), id)
	return err
}

// DeleteConversation removes a conversation and its messages.
func (h *HistoryDB) DeleteConversation(id int64) error {
	if _, err := h.db.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return err
	}
	_, err := h.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	return err
}
