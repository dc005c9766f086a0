package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Update type discriminators this client reacts to.
const (
	TypeUpdateAuthState  = "updateAuthorizationState"
	TypeUpdateNewMessage = "updateNewMessage"
	TypeUser             = "user"
	TypeChat             = "chat"
)

// Authorization states delivered inside an updateAuthorizationState event.
const (
	AuthStateWaitParameters    = "authorizationStateWaitTdlibParameters"
	AuthStateWaitEncryptionKey = "authorizationStateWaitEncryptionKey"
	AuthStateWaitPhoneNumber   = "authorizationStateWaitPhoneNumber"
	AuthStateWaitCode          = "authorizationStateWaitCode"
	AuthStateWaitPassword      = "authorizationStateWaitPassword"
	AuthStateWaitRegistration  = "authorizationStateWaitRegistration"
	AuthStateReady             = "authorizationStateReady"
	AuthStateClosed            = "authorizationStateClosed"
)

// Sender and content discriminators inside a message.
const (
	SenderTypeUser  = "messageSenderUser"
	SenderTypeChat  = "messageSenderChat"
	ContentTypeText = "messageText"
)

// Update is one unit of the inbound engine stream, tagged by its @type
// field. The payload stays raw until a handler decodes it into one of the
// typed structs below.
type Update struct {
	Type string
	Raw  json.RawMessage
}

// ParseUpdate validates that data is a JSON object with an @type
// discriminator and wraps it as an Update.
func ParseUpdate(data []byte) (Update, error) {
	var probe struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Update{}, fmt.Errorf("parse update: %w", err)
	}
	if probe.Type == "" {
		return Update{}, fmt.Errorf("update has no @type field")
	}
	return Update{Type: probe.Type, Raw: data}, nil
}

// Decode unmarshals the update payload into v.
func (u Update) Decode(v any) error {
	return json.Unmarshal(u.Raw, v)
}

// AuthStateUpdate is the payload of an updateAuthorizationState event.
type AuthStateUpdate struct {
	AuthorizationState struct {
		Type string `json:"@type"`
	} `json:"authorization_state"`
}

// MessageSender describes who sent a message: a user, or a chat posting on
// its own behalf (channels do this).
type MessageSender struct {
	Type   string `json:"@type"`
	UserID int64  `json:"user_id"`
	ChatID int64  `json:"chat_id"`
}

// MessageContent carries the content of a message. Only plain text is
// decoded; every other kind is represented by its discriminator alone.
type MessageContent struct {
	Type string `json:"@type"`
	Text struct {
		Text string `json:"text"`
	} `json:"text"`
}

// NewMessage is the payload of an updateNewMessage event.
type NewMessage struct {
	Message struct {
		ChatID   int64          `json:"chat_id"`
		SenderID MessageSender  `json:"sender_id"`
		Content  MessageContent `json:"content"`
		Date     int64          `json:"date"`
	} `json:"message"`
}

// User is a user record, delivered in response to a getUser request.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName returns the canonical display form of the user: the
// @username if set, otherwise first and last name joined, otherwise the
// numeric placeholder.
func (u User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	parts := make([]string, 0, 2)
	for _, p := range []string{u.FirstName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return UserPlaceholder(u.ID)
}

// Chat is a chat record, delivered in response to getChat or
// searchPublicChat.
type Chat struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

// DisplayName returns the chat title, or the numeric placeholder when the
// engine delivered no title.
func (c Chat) DisplayName() string {
	if c.Title != "" {
		return c.Title
	}
	return ChatPlaceholder(c.ID)
}

// UserPlaceholder is the display form used for a user whose record has not
// been resolved yet.
func UserPlaceholder(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// ChatPlaceholder is the display form used for an unresolved chat.
func ChatPlaceholder(id int64) string {
	return fmt.Sprintf("chat:%d", id)
}
