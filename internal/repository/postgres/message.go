package postgres

import (
	"database/sql"

	"teleterm/internal/domain"
)

// MessageRepo implements repository.MessageRepository
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo creates a new message repository
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// SaveMessage appends one formatted message to the archive
func (r *MessageRepo) SaveMessage(msg domain.Message) error {
	query := `
		INSERT INTO messages (chat_id, sender, chat, received_time, text)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query, msg.ChatID, msg.Sender, msg.Chat, msg.Time, msg.Text)
	return err
}

// RecentMessages returns the newest messages, oldest first
func (r *MessageRepo) RecentMessages(limit int) ([]domain.Message, error) {
	query := `
		SELECT chat_id, sender, chat, received_time, text
		FROM (
			SELECT id, chat_id, sender, chat, received_time, text
			FROM messages
			ORDER BY id DESC
			LIMIT $1
		) recent
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ChatID, &m.Sender, &m.Chat, &m.Time, &m.Text); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
