package tdlib

import "time"

// Engine is the raw TDLib JSON interface: an asynchronous send, a
// synchronous local execute and a blocking receive primitive.
// Implementations must allow Send and Execute to be called concurrently
// with the single goroutine that loops on Receive.
type Engine interface {
	// Send enqueues a request for asynchronous delivery.
	Send(payload []byte)
	// Execute runs a request synchronously. Only valid for requests
	// documented as requiring no network access. Returns nil when the
	// engine cannot answer.
	Execute(payload []byte) []byte
	// Receive blocks for up to timeout waiting for the next update.
	// Returns nil on timeout.
	Receive(timeout time.Duration) []byte
}
