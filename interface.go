// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"errors"
	"fmt"
	"time"

	"github.com/foxtrot75/httpsync/request"
)

// Getter is the interface that wraps the basic Get method.
//
// Get sends a GET request built from r and blocks until it has the
// response body, or fails. Client and TLSClient implement the Getter
// interface, and any other Getter implementation must behave
// substantially the same as Client.Get.
type Getter interface {
	Get(r request.Request) (string, bool)
}

// Poster is the interface that wraps the basic Post method.
//
// Post sends a POST request built from r and blocks until it has the
// response body, or fails. Client and TLSClient implement the Poster
// interface, and any other Poster implementation must behave
// substantially the same as Client.Post.
type Poster interface {
	Post(r request.Request) (string, bool)
}

// Caller is the interface that groups the Get and Post methods with
// the endpoint and error accessors shared by Client and TLSClient.
type Caller interface {
	Getter
	Poster
	Setup(host string, port uint16)
	SetTimeout(d time.Duration)
	Err() error
}

var (
	_ Caller = (*Client)(nil)
	_ Caller = (*TLSClient)(nil)
)

// errUnknownFailure stands in for the error of a Caller that reported
// failure without recording why.
var errUnknownFailure = errors.New("httpsync: call failed")

// Call sends r with the given method, GET or POST, using c, and turns
// the boolean result into an error. The error is the one reported by
// c.Err.
func Call(c Caller, method string, r request.Request) (string, error) {
	var body string
	var ok bool
	switch method {
	case "GET":
		body, ok = c.Get(r)
	case "POST":
		body, ok = c.Post(r)
	default:
		return "", fmt.Errorf("httpsync: unsupported method %q", method)
	}

	if ok {
		return body, nil
	}
	if err := c.Err(); err != nil {
		return "", err
	}
	return "", errUnknownFailure
}

// Ping uses g to GET target and reports whether a response arrived.
func Ping(g Getter, target string) bool {
	_, ok := g.Get(request.Request{Target: target})
	return ok
}
