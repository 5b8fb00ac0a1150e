// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"io"
	"syscall"
)

// A Category classifies an error returned by a network operation, as
// reported by Categorize.
//
// Timeout, ConnRefused, ConnReset, ConnAborted and Exhausted describe
// conditions that may clear on their own, so an acceptor re-arms after
// them. Not describes everything else.
//
// Truncated is a category of its own. It marks a stream that ended
// early, which is how a TLS peer closing without close-notify shows up
// during shutdown.
type Category int

const (
	// Not is the category of nil and of any error fitting no other
	// category.
	Not Category = iota
	// Timeout is the category of an expired deadline: some error in the
	// chain of err has a Timeout method returning true.
	Timeout
	// ConnRefused is the category of syscall.ECONNREFUSED found in the
	// chain of err. Nothing was listening on the remote port, possibly
	// because the service there is restarting.
	ConnRefused
	// ConnReset is the category of syscall.ECONNRESET found in the
	// chain of err. The peer sent an RST on an established connection.
	ConnReset
	// ConnAborted is the category of syscall.ECONNABORTED found in the
	// chain of err. A pending connection was dropped before Accept
	// returned it.
	ConnAborted
	// Exhausted is the category of an errno reporting a resource
	// shortage: EMFILE, ENFILE, ENOBUFS or ENOMEM.
	Exhausted
	// Truncated is the category of io.EOF and io.ErrUnexpectedEOF found
	// in the chain of err, when no category above applies.
	Truncated
)

// Categorize returns the category of err.
//
// The whole chain of wrapped errors is inspected. Timeout takes
// precedence over the errno categories, which take precedence over
// Truncated. Temporary methods are ignored.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var t timeoutError
	if errors.As(err, &t) && t.Timeout() {
		return Timeout
	}

	var code syscall.Errno
	if errors.As(err, &code) {
		switch code {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		case syscall.ECONNABORTED:
			return ConnAborted
		case syscall.EMFILE, syscall.ENFILE, syscall.ENOBUFS, syscall.ENOMEM:
			return Exhausted
		}
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Truncated
	}

	return Not
}

// Transient reports whether the category describes a transient
// condition.
func (c Category) Transient() bool {
	switch c {
	case Timeout, ConnRefused, ConnReset, ConnAborted, Exhausted:
		return true
	default:
		return false
	}
}

type timeoutError interface {
	Timeout() bool
}
