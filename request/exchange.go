// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/foxtrot75/httpsync/transient"
)

// An Exchange represents the state of a single client call: one
// request sent over one fresh connection and one response read back.
//
// When a client call starts, an Exchange is created for it. The
// Exchange is updated as the call chain progresses from phase to phase
// and is handed to timeout policies and event handlers along the way.
//
// Policies and event handlers may store values on an Exchange using its
// SetValue method and read them back using the Value method. They
// should treat the exported fields as read-only, since the call chain
// depends on them.
type Exchange struct {
	// Request is the caller's request value. It is never modified.
	Request Request

	// Method is the HTTP verb of the call, GET or POST.
	Method string

	// Host and Port identify the endpoint configured on the client when
	// the call started.
	Host string
	Port uint16

	// Phase is the phase the chain is currently in, or the phase in
	// which it failed once the exchange has ended in error.
	Phase Phase

	// Wire is the transport-level request built from Request. It is set
	// once the exchange leaves Idle.
	Wire *http.Request

	// Response is the decoded transport-level response. It keeps the
	// transport's own header representation (canonical key casing).
	// It is nil until Reading completes successfully.
	Response *http.Response

	// Body is the complete response body. It is nil until Reading
	// completes successfully.
	Body []byte

	// Err is the error that terminated the chain, of type *PhaseError.
	// It is nil while the chain is healthy.
	//
	// A TLS shutdown error is recorded only on the copy of the exchange
	// handed to the ShuttingDown phase handlers, and never changes the
	// result the caller already received.
	Err error

	// Start is the time the call began, after the call lock was taken.
	Start time.Time

	// End is the time the caller's result was decided. It contains the
	// zero value until then.
	End time.Time

	data context.Context
}

// StatusCode returns the status code of the response. If there is no
// response, 0 is returned.
func (e *Exchange) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the response headers, in the transport's canonical
// form. If there is no response, the nil header is returned.
//
// A nil return value is always safe for read-only operations, since
// http.Header is a map type.
func (e *Exchange) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the exchange.
//
// If the exchange has not yet started, the duration is zero. If it has
// ended, the duration is End minus Start. Otherwise it is the current
// time minus Start.
func (e *Exchange) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the exchange has started.
func (e *Exchange) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the caller's result has been decided.
func (e *Exchange) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a timeout error.
func (e *Exchange) Timeout() bool {
	cat := transient.Categorize(e.Err)
	return cat == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// exchange.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • it may not be nil;
//
// • it must be comparable;
//
// • it should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same exchange.
func (e *Exchange) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this exchange for key,
// or nil if there is no value associated with key.
func (e *Exchange) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
