package service

import (
	"fmt"
	"io"
	"os"

	"teleterm/internal/domain"
	"teleterm/internal/repository"

	"go.uber.org/zap"
)

// ConsoleConsumer prints each message in the two-line console format.
type ConsoleConsumer struct {
	out io.Writer
}

// NewConsoleConsumer creates a console consumer writing to out.
func NewConsoleConsumer(out io.Writer) *ConsoleConsumer {
	return &ConsoleConsumer{out: out}
}

// Consume prints the message.
func (c *ConsoleConsumer) Consume(msg domain.Message) {
	fmt.Fprintf(c.out, "[%s] [%s | %s]\n> %s\n\n", msg.Time, msg.Sender, msg.Chat, msg.Text)
}

// LogFileConsumer appends each message to a plain text log file.
type LogFileConsumer struct {
	f      *os.File
	logger *zap.Logger
}

// NewLogFileConsumer opens (or creates) the log file in append mode.
func NewLogFileConsumer(path string, logger *zap.Logger) (*LogFileConsumer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open message log: %w", err)
	}
	return &LogFileConsumer{f: f, logger: logger}, nil
}

// Consume appends the message to the log file.
func (c *LogFileConsumer) Consume(msg domain.Message) {
	if _, err := fmt.Fprintf(c.f, "[%s] [%s | %s]\n> %s\n", msg.Time, msg.Sender, msg.Chat, msg.Text); err != nil {
		c.logger.Error("Failed to append message to log file", zap.Error(err))
	}
}

// Close closes the underlying file.
func (c *LogFileConsumer) Close() error {
	return c.f.Close()
}

// ArchiveConsumer persists each message through the message repository.
type ArchiveConsumer struct {
	repo   repository.MessageRepository
	logger *zap.Logger
}

// NewArchiveConsumer creates an archive consumer.
func NewArchiveConsumer(repo repository.MessageRepository, logger *zap.Logger) *ArchiveConsumer {
	return &ArchiveConsumer{repo: repo, logger: logger}
}

// Consume saves the message; a storage failure is logged, not propagated,
// so the listener keeps running.
func (c *ArchiveConsumer) Consume(msg domain.Message) {
	if err := c.repo.SaveMessage(msg); err != nil {
		c.logger.Error("Failed to archive message", zap.Error(err))
	}
}
