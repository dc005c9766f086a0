package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"teleterm/internal/domain"
	"teleterm/internal/testutil"

	"github.com/stretchr/testify/assert"
)

var testMessage = domain.Message{
	Time:   "12:30",
	Sender: "@alice",
	Chat:   "General",
	Text:   "hello",
	ChatID: 100,
}

func TestConsoleConsumer(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleConsumer(&buf).Consume(testMessage)

	assert.Equal(t, "[12:30] [@alice | General]\n> hello\n\n", buf.String())
}

func TestLogFileConsumer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.log")

	consumer, err := NewLogFileConsumer(path, testutil.NewTestLogger())
	assert.NoError(t, err)

	consumer.Consume(testMessage)
	consumer.Consume(testMessage)
	assert.NoError(t, consumer.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "[12:30] [@alice | General]"))
}

func TestArchiveConsumer(t *testing.T) {
	repo := new(testutil.MockMessageRepository)
	repo.On("SaveMessage", testMessage).Return(nil)

	NewArchiveConsumer(repo, testutil.NewTestLogger()).Consume(testMessage)

	repo.AssertExpectations(t)
}

func TestArchiveConsumer_SwallowsStorageErrors(t *testing.T) {
	repo := new(testutil.MockMessageRepository)
	repo.On("SaveMessage", testMessage).Return(errors.New("db down"))

	// Must not panic or propagate; the listener keeps running.
	NewArchiveConsumer(repo, testutil.NewTestLogger()).Consume(testMessage)

	repo.AssertExpectations(t)
}

func TestStdinPrompter(t *testing.T) {
	in := strings.NewReader("  +15550001111  \n")
	var out bytes.Buffer

	prompter := NewStdinPrompter(in, &out)
	answer, err := prompter.Prompt("Enter your phone number")

	assert.NoError(t, err)
	assert.Equal(t, "+15550001111", answer)
	assert.Equal(t, "Enter your phone number: ", out.String())
}
