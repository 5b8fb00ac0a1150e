// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"context"
	"net"
	"time"
)

const (
	// DefaultTimeout is the per-phase client timeout used when
	// Config.Timeout is zero.
	DefaultTimeout = 10 * time.Second
	// DefaultSessionTimeout is the deadline applied to each server
	// session when Config.SessionTimeout is zero.
	DefaultSessionTimeout = 10 * time.Second
	// DefaultErrorBackoff is the delay clients wait before reporting a
	// failed call when Config.ErrorBackoff is zero.
	DefaultErrorBackoff = 100 * time.Millisecond
)

// Verify selects how TLS clients verify the certificate of the peer.
type Verify int

const (
	// VerifyPeer verifies the peer's certificate chain against the
	// factory's trust store and its host name against the configured
	// host.
	VerifyPeer Verify = iota
	// VerifyNone accepts any certificate. It is meant for deployments
	// talking to peers with self-signed certificates.
	VerifyNone
)

// Resolver looks up the addresses of a host. *net.Resolver implements
// Resolver.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Dialer opens network connections. *net.Dialer implements Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Config holds the settings of a Factory and of every client and server
// it creates. The zero value of each field selects its default.
type Config struct {
	// Workers is the number of goroutines running the dispatch loop.
	// Zero means one per CPU.
	Workers int

	// Verify is the certificate verification mode of TLS clients.
	Verify Verify

	// Timeout is the initial per-phase timeout of new clients.
	Timeout time.Duration

	// SessionTimeout is the deadline applied to each server session.
	SessionTimeout time.Duration

	// ErrorBackoff is the delay a client waits before reporting a failed
	// call to its caller. A negative value disables the delay.
	ErrorBackoff time.Duration

	// Resolver resolves client host names. Nil means net.DefaultResolver.
	Resolver Resolver

	// Dialer opens client connections. Nil means a zero net.Dialer.
	Dialer Dialer

	// Handlers holds the event handlers installed in every client. It
	// may be nil.
	Handlers *HandlerGroup

	// Logger receives diagnostic output. Nil means NoopLogger.
	Logger Logger
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.SessionTimeout == 0 {
		c.SessionTimeout = DefaultSessionTimeout
	}

	if c.ErrorBackoff == 0 {
		c.ErrorBackoff = DefaultErrorBackoff
	} else if c.ErrorBackoff < 0 {
		c.ErrorBackoff = 0
	}

	if c.Resolver == nil {
		c.Resolver = net.DefaultResolver
	}

	if c.Dialer == nil {
		c.Dialer = &net.Dialer{}
	}

	if c.Handlers == nil {
		c.Handlers = &HandlerGroup{}
	}

	if c.Logger == nil {
		c.Logger = NoopLogger{}
	}
}
