package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseUpdate(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		expectedType  string
		expectedError bool
	}{
		{
			name:         "valid update",
			raw:          `{"@type":"updateNewMessage","message":{}}`,
			expectedType: "updateNewMessage",
		},
		{
			name:          "malformed json",
			raw:           `{"@type":`,
			expectedError: true,
		},
		{
			name:          "missing discriminator",
			raw:           `{"message":{}}`,
			expectedError: true,
		},
		{
			name:          "empty discriminator",
			raw:           `{"@type":""}`,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := ParseUpdate([]byte(tt.raw))

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedType, update.Type)
			}
		})
	}
}

func TestUpdate_Decode(t *testing.T) {
	update, err := ParseUpdate([]byte(`{"@type":"updateAuthorizationState","authorization_state":{"@type":"authorizationStateReady"}}`))
	assert.NoError(t, err)

	var payload AuthStateUpdate
	assert.NoError(t, update.Decode(&payload))
	assert.Equal(t, AuthStateReady, payload.AuthorizationState.Type)
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{
			name:     "username preferred",
			user:     User{ID: 1, Username: "alice", FirstName: "Alice", LastName: "Smith"},
			expected: "@alice",
		},
		{
			name:     "first and last joined",
			user:     User{ID: 1, FirstName: "Alice", LastName: "Smith"},
			expected: "Alice Smith",
		},
		{
			name:     "names trimmed",
			user:     User{ID: 1, FirstName: "  Alice ", LastName: "  "},
			expected: "Alice",
		},
		{
			name:     "last name only",
			user:     User{ID: 1, LastName: "Smith"},
			expected: "Smith",
		},
		{
			name:     "nothing set falls back to placeholder",
			user:     User{ID: 42},
			expected: "user:42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.DisplayName())
		})
	}
}

func TestChat_DisplayName(t *testing.T) {
	assert.Equal(t, "My Channel", Chat{ID: 7, Title: "My Channel"}.DisplayName())
	assert.Equal(t, "chat:7", Chat{ID: 7}.DisplayName())
}

func TestFormatTimestamp(t *testing.T) {
	epoch := int64(1700000000)
	expected := time.Unix(epoch, 0).Format("15:04")
	assert.Equal(t, expected, FormatTimestamp(epoch))
	assert.Equal(t, TimeSentinel, FormatTimestamp(0))
}
