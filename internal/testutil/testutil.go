package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"teleterm/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// FakeEngine is a scripted engine for bridge tests. Receive pops queued
// payloads in order and blocks up to the poll timeout when empty.
type FakeEngine struct {
	mu        sync.Mutex
	queue     [][]byte
	sent      [][]byte
	execResp  []byte
	panicNext bool
}

// Push queues payloads for Receive to return, in order.
func (e *FakeEngine) Push(payloads ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range payloads {
		e.queue = append(e.queue, []byte(p))
	}
}

// SetExecuteResponse scripts the next Execute result.
func (e *FakeEngine) SetExecuteResponse(payload string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if payload == "" {
		e.execResp = nil
		return
	}
	e.execResp = []byte(payload)
}

func (e *FakeEngine) Send(payload []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, append([]byte(nil), payload...))
}

func (e *FakeEngine) Execute(payload []byte) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.execResp
}

// PanicOnNextReceive makes the next Receive call panic.
func (e *FakeEngine) PanicOnNextReceive() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.panicNext = true
}

func (e *FakeEngine) Receive(timeout time.Duration) []byte {
	e.mu.Lock()
	if e.panicNext {
		e.panicNext = false
		e.mu.Unlock()
		panic("engine receive failure")
	}
	e.mu.Unlock()

	deadline := time.Now().Add(timeout)
	for {
		e.mu.Lock()
		if len(e.queue) > 0 {
			p := e.queue[0]
			e.queue = e.queue[1:]
			e.mu.Unlock()
			return p
		}
		e.mu.Unlock()
		if time.Now().After(deadline) {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
}

// SentTypes returns the @type of every payload handed to Send, in order.
func (e *FakeEngine) SentTypes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	types := make([]string, 0, len(e.sent))
	for _, payload := range e.sent {
		var probe struct {
			Type string `json:"@type"`
		}
		_ = json.Unmarshal(payload, &probe)
		types = append(types, probe.Type)
	}
	return types
}

// FakeClient implements service.Client with a scripted update stream and
// recorded outbound queries.
type FakeClient struct {
	mu      sync.Mutex
	updates chan domain.Update
	sent    []any
	sendErr error
}

// NewFakeClient creates a client with a buffered update stream.
func NewFakeClient() *FakeClient {
	return &FakeClient{updates: make(chan domain.Update, 64)}
}

// Push parses raw JSON and queues it as the next update.
func (c *FakeClient) Push(raw string) error {
	u, err := domain.ParseUpdate([]byte(raw))
	if err != nil {
		return err
	}
	c.updates <- u
	return nil
}

// FailSends makes every subsequent Send return err.
func (c *FakeClient) FailSends(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = err
}

func (c *FakeClient) Send(query any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, query)
	return nil
}

func (c *FakeClient) Receive(ctx context.Context) (domain.Update, error) {
	select {
	case u := <-c.updates:
		return u, nil
	case <-ctx.Done():
		return domain.Update{}, ctx.Err()
	}
}

// SentQueries returns a copy of all submitted queries.
func (c *FakeClient) SentQueries() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.sent...)
}

// SentTypes returns the @type of each submitted query, in order.
func (c *FakeClient) SentTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]string, 0, len(c.sent))
	for _, q := range c.sent {
		types = append(types, QueryType(q))
	}
	return types
}

// SentJSON returns each submitted query marshalled to JSON, in order.
func (c *FakeClient) SentJSON() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.sent))
	for _, q := range c.sent {
		payload, _ := json.Marshal(q)
		out = append(out, string(payload))
	}
	return out
}

// QueryType extracts the @type discriminator from a command object.
func QueryType(query any) string {
	payload, err := json.Marshal(query)
	if err != nil {
		return ""
	}
	var probe struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.Type
}

// FakePrompter returns scripted answers and records the labels asked.
type FakePrompter struct {
	mu      sync.Mutex
	answers []string
	labels  []string
}

// NewFakePrompter creates a prompter that answers in order.
func NewFakePrompter(answers ...string) *FakePrompter {
	return &FakePrompter{answers: answers}
}

func (p *FakePrompter) Prompt(label string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labels = append(p.labels, label)
	if len(p.answers) == 0 {
		return "", fmt.Errorf("no answer scripted for %q", label)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

// Labels returns the prompts issued so far.
func (p *FakePrompter) Labels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.labels...)
}

// CollectConsumer gathers formatted messages for assertions.
type CollectConsumer struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func (c *CollectConsumer) Consume(msg domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

// Messages returns a copy of everything consumed so far.
func (c *CollectConsumer) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Message(nil), c.msgs...)
}
