package repository

import "teleterm/internal/domain"

// MessageRepository defines message archive operations
type MessageRepository interface {
	SaveMessage(msg domain.Message) error
	RecentMessages(limit int) ([]domain.Message, error)
}
