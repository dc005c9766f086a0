package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"teleterm/internal/domain"

	"go.uber.org/zap"
)

// MessageConsumer receives each formatted message record.
type MessageConsumer interface {
	Consume(msg domain.Message)
}

// Listener is the single consumer of the post-login update stream. It
// formats incoming messages and fans the records out to the registered
// consumers, feeds resolution responses back into the Resolver, and hands
// chat records to any waiter registered through AwaitChat. Because it is
// the only reader, no update is ever lost to a competing consumer.
type Listener struct {
	client    Client
	resolver  *Resolver
	consumers []MessageConsumer
	logger    *zap.Logger

	mu      sync.Mutex
	waiters map[string]chan domain.Chat
}

// NewListener creates a listener fanning out to the given consumers.
func NewListener(client Client, resolver *Resolver, logger *zap.Logger, consumers ...MessageConsumer) *Listener {
	return &Listener{
		client:    client,
		resolver:  resolver,
		consumers: consumers,
		logger:    logger,
		waiters:   make(map[string]chan domain.Chat),
	}
}

// Run consumes updates until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	for {
		update, err := l.client.Receive(ctx)
		if err != nil {
			return err
		}
		l.handle(update)
	}
}

func (l *Listener) handle(update domain.Update) {
	switch update.Type {
	case domain.TypeUpdateNewMessage:
		var payload domain.NewMessage
		if err := update.Decode(&payload); err != nil {
			l.logger.Warn("Ignoring malformed message update", zap.Error(err))
			return
		}
		msg := l.format(payload)
		for _, c := range l.consumers {
			c.Consume(msg)
		}

	case domain.TypeUser:
		var user domain.User
		if err := update.Decode(&user); err != nil {
			l.logger.Warn("Ignoring malformed user record", zap.Error(err))
			return
		}
		l.resolver.ResolveUser(user)

	case domain.TypeChat:
		var chat domain.Chat
		if err := update.Decode(&chat); err != nil {
			l.logger.Warn("Ignoring malformed chat record", zap.Error(err))
			return
		}
		l.resolver.ResolveChat(chat)
		l.deliver(chat)
	}
}

// format builds the display record for one incoming message. Names missing
// from the caches come out as placeholders; a resolution arriving later
// benefits only messages formatted after it, never records already
// emitted.
func (l *Listener) format(payload domain.NewMessage) domain.Message {
	m := payload.Message

	var sender string
	switch m.SenderID.Type {
	case domain.SenderTypeUser:
		sender = l.resolver.UserName(m.SenderID.UserID)
	case domain.SenderTypeChat:
		sender = l.resolver.ChatName(m.SenderID.ChatID)
	}

	var chat string
	if m.ChatID != 0 {
		chat = l.resolver.ChatName(m.ChatID)
	}

	text := m.Content.Text.Text
	if m.Content.Type != domain.ContentTypeText {
		text = fmt.Sprintf("<Unsupported message type %s>", m.Content.Type)
	}

	return domain.Message{
		Time:   domain.FormatTimestamp(m.Date),
		Sender: sender,
		Chat:   chat,
		Text:   text,
		ChatID: m.ChatID,
	}
}

// ChatWaiter is a registered claim on the next chat record matching a
// username. Registration happens before the lookup command is submitted,
// so a response arriving on the stream in between cannot be missed.
type ChatWaiter struct {
	listener *Listener
	key      string
	ch       chan domain.Chat
}

// RegisterChatWaiter registers interest in a chat record whose username
// matches the given one (case-insensitively). At most one waiter per
// username is supported; a second registration replaces the first.
func (l *Listener) RegisterChatWaiter(username string) *ChatWaiter {
	key := strings.ToLower(username)
	ch := make(chan domain.Chat, 1)

	l.mu.Lock()
	l.waiters[key] = ch
	l.mu.Unlock()

	return &ChatWaiter{listener: l, key: key, ch: ch}
}

// Wait blocks until the matching record arrives, the timeout elapses, or
// ctx is done. The waiter is deregistered on return.
func (w *ChatWaiter) Wait(ctx context.Context, timeout time.Duration) (domain.Chat, error) {
	defer w.Cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case chat := <-w.ch:
		return chat, nil
	case <-timer.C:
		return domain.Chat{}, ErrResolutionTimeout
	case <-ctx.Done():
		return domain.Chat{}, ctx.Err()
	}
}

// Cancel deregisters the waiter without consuming a record.
func (w *ChatWaiter) Cancel() {
	w.listener.mu.Lock()
	if w.listener.waiters[w.key] == w.ch {
		delete(w.listener.waiters, w.key)
	}
	w.listener.mu.Unlock()
}

// AwaitChat registers a waiter and blocks for the matching chat record.
// Callers that submit the lookup command themselves must use
// RegisterChatWaiter before submitting, then Wait.
func (l *Listener) AwaitChat(ctx context.Context, username string, timeout time.Duration) (domain.Chat, error) {
	return l.RegisterChatWaiter(username).Wait(ctx, timeout)
}

func (l *Listener) deliver(chat domain.Chat) {
	if chat.Username == "" {
		return
	}
	key := strings.ToLower(chat.Username)

	l.mu.Lock()
	ch, ok := l.waiters[key]
	if ok {
		delete(l.waiters, key)
	}
	l.mu.Unlock()

	if ok {
		ch <- chat
	}
}
