package tdlib

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"teleterm/internal/domain"

	"go.uber.org/zap"
)

const (
	receiveTimeout   = 1 * time.Second
	closeTimeout     = 2 * time.Second
	defaultQueueSize = 1024
)

// Client decouples the engine's blocking receive primitive from the rest
// of the application. A dedicated goroutine polls the engine, parses each
// payload and pushes the update onto a bounded queue that consumers drain
// through Receive. When the queue is full the oldest queued update is
// dropped and counted; a stale update is recoverable, unbounded growth
// under a burst is not.
type Client struct {
	engine  Engine
	logger  *zap.Logger
	updates chan domain.Update
	running atomic.Bool
	done    chan struct{}
	dropped atomic.Int64
}

// NewClient starts the receive loop. queueSize <= 0 selects the default.
func NewClient(engine Engine, logger *zap.Logger, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	c := &Client{
		engine:  engine,
		logger:  logger,
		updates: make(chan domain.Update, queueSize),
		done:    make(chan struct{}),
	}
	c.running.Store(true)
	go c.receiveLoop()
	return c
}

func (c *Client) receiveLoop() {
	defer close(c.done)
	for c.running.Load() {
		raw := c.receiveOnce()
		if raw == nil {
			continue
		}
		update, err := domain.ParseUpdate(raw)
		if err != nil {
			c.logger.Warn("Discarding malformed engine payload", zap.Error(err))
			continue
		}
		c.push(update)
	}
}

// receiveOnce isolates a single poll so that a panicking engine call never
// kills the loop; the next iteration retries.
func (c *Client) receiveOnce() (raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Engine receive failed", zap.Any("panic", r))
			raw = nil
		}
	}()
	return c.engine.Receive(receiveTimeout)
}

// push enqueues an update, dropping the oldest queued update when the
// queue is full. Only the receive loop calls this.
func (c *Client) push(u domain.Update) {
	for {
		select {
		case c.updates <- u:
			return
		default:
		}
		select {
		case <-c.updates:
			c.dropped.Add(1)
		default:
		}
	}
}

// Send marshals the query and enqueues it for asynchronous delivery to
// the engine. It never blocks the caller.
func (c *Client) Send(query any) error {
	payload, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}
	c.engine.Send(payload)
	return nil
}

// Execute runs a query synchronously. It must only be used for queries
// that require no network access. Returns nil when the engine could not
// answer or the response failed to parse.
func (c *Client) Execute(query any) *domain.Update {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil
	}
	raw := c.engine.Execute(payload)
	if raw == nil {
		return nil
	}
	update, err := domain.ParseUpdate(raw)
	if err != nil {
		return nil
	}
	return &update
}

// Receive blocks until the next update is available or ctx is done.
// Updates are delivered in engine-arrival order.
func (c *Client) Receive(ctx context.Context) (domain.Update, error) {
	select {
	case u := <-c.updates:
		return u, nil
	case <-ctx.Done():
		return domain.Update{}, ctx.Err()
	}
}

// Dropped reports how many updates were discarded due to queue overflow.
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// Close stops the receive loop. It best-effort submits a close command to
// the engine and waits up to a bounded timeout for the loop to finish. A
// loop stuck inside the engine's blocking receive is abandoned rather
// than joined; the goroutine leaks until the process exits.
func (c *Client) Close() {
	if !c.running.CompareAndSwap(true, false) {
		return
	}
	if err := c.Send(domain.NewClose()); err != nil {
		c.logger.Warn("Failed to submit close command", zap.Error(err))
	}
	select {
	case <-c.done:
	case <-time.After(closeTimeout):
		c.logger.Warn("Receive loop did not stop in time, abandoning it")
	}
	if n := c.Dropped(); n > 0 {
		c.logger.Warn("Updates were dropped due to queue overflow", zap.Int64("count", n))
	}
}
