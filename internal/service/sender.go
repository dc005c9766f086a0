package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"teleterm/internal/domain"

	"go.uber.org/zap"
)

var (
	// ErrInvalidDestination is returned for a destination that is neither
	// an integer chat id nor a public @username.
	ErrInvalidDestination = errors.New("destination must be an integer chat id or a public @username")

	// ErrResolutionTimeout is returned when a username lookup produced no
	// matching chat record within the configured bound.
	ErrResolutionTimeout = errors.New("timed out resolving username")
)

const defaultResolveTimeout = 10 * time.Second

// Sender resolves a destination specifier and submits send commands. A
// failed send is reported to the caller and never disturbs the listener
// loop; the next attempt starts clean.
type Sender struct {
	client   Client
	listener *Listener
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSender creates a sender. timeout <= 0 selects the default bound for
// username resolution.
func NewSender(client Client, listener *Listener, timeout time.Duration, logger *zap.Logger) *Sender {
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	return &Sender{
		client:   client,
		listener: listener,
		timeout:  timeout,
		logger:   logger,
	}
}

// ResolveDestination turns "12345" or "@name" into a chat id. Numeric
// destinations never touch the engine; usernames go through a
// searchPublicChat lookup bounded by the configured timeout.
func (s *Sender) ResolveDestination(ctx context.Context, dest string) (int64, error) {
	dest = strings.TrimSpace(dest)
	if username, ok := strings.CutPrefix(dest, "@"); ok {
		if username == "" {
			return 0, ErrInvalidDestination
		}
		// The waiter must exist before the lookup goes out; a response
		// landing between submit and wait would otherwise be missed.
		waiter := s.listener.RegisterChatWaiter(username)
		if err := s.client.Send(domain.NewSearchPublicChat(username)); err != nil {
			waiter.Cancel()
			return 0, fmt.Errorf("submit chat lookup: %w", err)
		}
		chat, err := waiter.Wait(ctx, s.timeout)
		if err != nil {
			return 0, err
		}
		return chat.ID, nil
	}

	chatID, err := strconv.ParseInt(dest, 10, 64)
	if err != nil {
		return 0, ErrInvalidDestination
	}
	return chatID, nil
}

// Send resolves dest and submits a plain-text message to it, returning
// the resolved chat id. Any failure, including a panic during command
// construction, comes back as an error instead of propagating.
func (s *Sender) Send(ctx context.Context, dest, text string) (chatID int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			chatID = 0
			err = fmt.Errorf("send failed: %v", r)
		}
	}()

	chatID, err = s.ResolveDestination(ctx, dest)
	if err != nil {
		return 0, err
	}
	if err := s.client.Send(domain.NewSendMessage(chatID, text)); err != nil {
		return 0, fmt.Errorf("submit message: %w", err)
	}
	s.logger.Info("Message submitted", zap.Int64("chat_id", chatID))
	return chatID, nil
}
