package tdlib

import (
	"context"
	"testing"
	"time"

	"teleterm/internal/domain"
	"teleterm/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func receiveOne(t *testing.T, c *Client) domain.Update {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	update, err := c.Receive(ctx)
	assert.NoError(t, err)
	return update
}

func TestClient_DeliversUpdatesInOrder(t *testing.T) {
	engine := &testutil.FakeEngine{}
	engine.Push(
		`{"@type":"updateAuthorizationState","authorization_state":{"@type":"authorizationStateReady"}}`,
		`{"@type":"updateNewMessage","message":{"chat_id":1}}`,
		`{"@type":"user","id":42}`,
	)

	client := NewClient(engine, testutil.NewTestLogger(), 0)
	defer client.Close()

	assert.Equal(t, "updateAuthorizationState", receiveOne(t, client).Type)
	assert.Equal(t, "updateNewMessage", receiveOne(t, client).Type)
	assert.Equal(t, "user", receiveOne(t, client).Type)
}

func TestClient_DropsMalformedPayloads(t *testing.T) {
	engine := &testutil.FakeEngine{}
	engine.Push(
		`this is not json`,
		`{"no_discriminator":true}`,
		`{"@type":"user","id":42}`,
	)

	client := NewClient(engine, testutil.NewTestLogger(), 0)
	defer client.Close()

	// Only the well-formed payload comes through.
	assert.Equal(t, "user", receiveOne(t, client).Type)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_DropsOldestOnOverflow(t *testing.T) {
	engine := &testutil.FakeEngine{}
	engine.Push(
		`{"@type":"user","id":1}`,
		`{"@type":"user","id":2}`,
		`{"@type":"user","id":3}`,
	)

	client := NewClient(engine, testutil.NewTestLogger(), 1)
	defer client.Close()

	assert.Eventually(t, func() bool {
		return client.Dropped() == 2
	}, 2*time.Second, 10*time.Millisecond)

	var user domain.User
	update := receiveOne(t, client)
	assert.NoError(t, update.Decode(&user))
	assert.Equal(t, int64(3), user.ID)
}

func TestClient_RecoversFromReceivePanic(t *testing.T) {
	engine := &testutil.FakeEngine{}
	engine.PanicOnNextReceive()
	engine.Push(`{"@type":"user","id":42}`)

	client := NewClient(engine, testutil.NewTestLogger(), 0)
	defer client.Close()

	// The first poll panics; the loop survives and delivers the payload
	// on the next iteration.
	assert.Equal(t, "user", receiveOne(t, client).Type)
}

func TestClient_CloseSubmitsCloseCommand(t *testing.T) {
	engine := &testutil.FakeEngine{}

	client := NewClient(engine, testutil.NewTestLogger(), 0)
	client.Close()

	assert.Equal(t, []string{"close"}, engine.SentTypes())

	// A second Close is a no-op.
	client.Close()
	assert.Equal(t, []string{"close"}, engine.SentTypes())
}

func TestClient_Send(t *testing.T) {
	engine := &testutil.FakeEngine{}
	client := NewClient(engine, testutil.NewTestLogger(), 0)
	defer client.Close()

	assert.NoError(t, client.Send(domain.NewGetUser(7)))
	assert.Contains(t, engine.SentTypes(), "getUser")
}

func TestClient_Execute(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		expectedNil bool
	}{
		{
			name:     "well-formed response",
			response: `{"@type":"ok"}`,
		},
		{
			name:        "no response",
			response:    "",
			expectedNil: true,
		},
		{
			name:        "unparseable response",
			response:    `garbage`,
			expectedNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &testutil.FakeEngine{}
			engine.SetExecuteResponse(tt.response)

			client := NewClient(engine, testutil.NewTestLogger(), 0)
			defer client.Close()

			result := client.Execute(domain.NewSetLogVerbosity(1))
			if tt.expectedNil {
				assert.Nil(t, result)
			} else {
				assert.NotNil(t, result)
				assert.Equal(t, "ok", result.Type)
			}
		})
	}
}
