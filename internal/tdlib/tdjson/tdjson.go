// Package tdjson binds the TDLib JSON interface from libtdjson. It is
// kept separate from the bridge so everything else builds and tests
// without the native library installed.
package tdjson

/*
#cgo LDFLAGS: -ltdjson
#include <stdlib.h>
#include <td/telegram/td_json_client.h>
*/
import "C"

import (
	"time"
	"unsafe"
)

// Engine drives libtdjson through its client_id based API. One Engine
// corresponds to one TDLib client. It implements tdlib.Engine.
type Engine struct {
	clientID C.int
}

// New registers a new client with libtdjson.
func New() *Engine {
	return &Engine{clientID: C.td_create_client_id()}
}

// Send enqueues a request with the engine. Delivery is asynchronous; any
// result arrives later through Receive.
func (e *Engine) Send(payload []byte) {
	cs := C.CString(string(payload))
	defer C.free(unsafe.Pointer(cs))
	C.td_send(e.clientID, cs)
}

// Execute runs a request synchronously. Only valid for requests that do
// not require network access.
func (e *Engine) Execute(payload []byte) []byte {
	cs := C.CString(string(payload))
	defer C.free(unsafe.Pointer(cs))
	res := C.td_execute(cs)
	if res == nil {
		return nil
	}
	// The returned string is owned by TDLib and must not be freed.
	return []byte(C.GoString(res))
}

// Receive blocks for up to timeout waiting for the next update from any
// client registered with libtdjson.
func (e *Engine) Receive(timeout time.Duration) []byte {
	res := C.td_receive(C.double(timeout.Seconds()))
	if res == nil {
		return nil
	}
	return []byte(C.GoString(res))
}
