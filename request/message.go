// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"sort"
	"strings"
)

// A Request describes an HTTP request: either an outgoing one built by
// the caller of a client, or an incoming one decoded by a server
// session and handed to the application callback.
type Request struct {
	// Method is the HTTP verb of a decoded incoming request. Clients
	// ignore it; the verb of an outgoing request is chosen by calling
	// Get or Post.
	Method string

	// Target is the request target path, for example "/ping". On a
	// decoded incoming request it is the raw request target as sent by
	// the peer, query string included.
	Target string

	// Params holds query parameters. On an outgoing request they are
	// appended to Target by RequestTarget. Values are sent as given;
	// callers must pre-encode values that need percent-encoding.
	Params map[string]string

	// Fields holds header fields. Outgoing field names are sent in the
	// case supplied. Field names of a decoded incoming request are
	// always lower case.
	Fields map[string]string

	// Body is the message body. It may be empty.
	Body []byte
}

// RequestTarget returns Target followed by the serialized query
// parameters.
//
// Parameters are written as key=value pairs joined by '&' after a
// single '?', and the '?' is omitted entirely when Params is empty. Go
// maps have no iteration order, so keys are written in sorted order to
// keep the serialization stable. No percent-encoding is applied.
func (r *Request) RequestTarget() string {
	if len(r.Params) == 0 {
		return r.Target
	}

	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(r.Target)
	b.WriteByte('?')
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.Params[k])
		b.WriteByte('&')
	}

	s := b.String()
	return s[:len(s)-1]
}

// A Response describes the HTTP response an application callback
// returns to a server session.
type Response struct {
	// Status is the HTTP status code. The zero value means 200 OK.
	Status int

	// Fields holds header fields, copied onto the outgoing message
	// verbatim, without any change of case.
	Fields map[string]string

	// Body is the response body. An empty body is sent with no
	// Content-Length framing.
	Body []byte
}

// StatusCode returns the status code to send, substituting 200 for the
// zero value.
func (r *Response) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}
