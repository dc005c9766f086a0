package testutil

import (
	"teleterm/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository is a mock for MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) SaveMessage(msg domain.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockMessageRepository) RecentMessages(limit int) ([]domain.Message, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}
