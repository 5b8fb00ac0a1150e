// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"bufio"
	"crypto/tls"
	"crypto/x509"
	"sync"
	"sync/atomic"

	"github.com/foxtrot75/httpsync/internal/loop"
	"github.com/foxtrot75/httpsync/timeout"
)

const (
	// Version is the version of the library.
	Version = "1.0.0"
	// UserAgent is the User-Agent field value sent on every client
	// request and server response.
	UserAgent = "httpsync/" + Version
)

// Default endpoints of new clients and servers.
const (
	DefaultClientHost           = "127.0.0.1"
	DefaultClientPort    uint16 = 80
	DefaultTLSClientPort uint16 = 443
	DefaultServerHost           = "0.0.0.0"
	DefaultServerPort    uint16 = 7500
)

// ErrClosed is the error reported by calls and servers of a Factory
// that has been closed.
var ErrClosed = loop.ErrStopped

// A Factory owns the dispatch loop and the TLS trust store shared by
// the clients and servers it creates.
//
// A Factory is safe for concurrent use by multiple goroutines. Create
// one with NewFactory and release it with Close.
type Factory struct {
	cfg  Config
	loop *loop.Loop

	certMu sync.Mutex
	pool   *x509.CertPool
	tls    atomic.Pointer[tls.Config]

	mu      sync.Mutex
	servers []*Server
	closed  bool
}

// NewFactory starts a Factory's dispatch loop with the given
// configuration. A nil cfg selects the defaults of every setting. The
// configuration is copied.
//
// The trust store starts out as a copy of the system certificate pool,
// or empty where no system pool is available.
func NewFactory(cfg *Config) *Factory {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.applyDefaults()

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}

	f := &Factory{
		cfg:  c,
		loop: loop.New(c.Workers, component{"loop", c.Logger}),
		pool: pool,
	}
	f.publish()

	return f
}

// Workers returns the number of goroutines running the dispatch loop.
func (f *Factory) Workers() int {
	return f.loop.Workers()
}

// Client returns a new plain HTTP client connecting to host and port.
func (f *Factory) Client(host string, port uint16) *Client {
	c := &Client{}
	f.initCaller(&c.caller, "client", nil, clientPayloadLimit, host, port)
	return c
}

// TLSClient returns a new HTTPS client connecting to host and port. It
// verifies peers according to Config.Verify, against the trust store
// current at the start of each call.
func (f *Factory) TLSClient(host string, port uint16) *TLSClient {
	c := &TLSClient{}
	f.initCaller(&c.caller, "tls-client", f.tls.Load, tlsClientPayloadLimit, host, port)
	return c
}

func (f *Factory) initCaller(c *caller, name string, tlsConfig func() *tls.Config, limit int, host string, port uint16) {
	c.name = name
	c.loop = f.loop
	c.tlsConfig = tlsConfig
	c.resolver = f.cfg.Resolver
	c.dialer = f.cfg.Dialer
	c.handlers = f.cfg.Handlers
	c.logger = component{name, f.cfg.Logger}
	c.payloadLimit = limit
	c.backoff = f.cfg.ErrorBackoff
	c.br = bufio.NewReader(nil)
	c.host = host
	c.port = port
	c.policy = timeout.Fixed(f.cfg.Timeout)
}

// Server returns a new server that will listen on host and port once
// started with Run. The server is closed when the Factory is.
func (f *Factory) Server(host string, port uint16) *Server {
	s := &Server{
		loop:           f.loop,
		logger:         component{"server", f.cfg.Logger},
		sessionLogger:  component{"session", f.cfg.Logger},
		sessionTimeout: f.cfg.SessionTimeout,
		host:           host,
		port:           port,
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.servers = append(f.servers, s)
	}

	return s
}

// AddCertificate adds the PEM-encoded certificates in pem to the trust
// store of the TLS clients. It reports whether at least one certificate
// was parsed. An empty pem is a no-op reported as success.
//
// Calls already handshaking keep the trust store they started with.
func (f *Factory) AddCertificate(pem []byte) bool {
	if len(pem) == 0 {
		return true
	}

	f.certMu.Lock()
	defer f.certMu.Unlock()

	pool := f.pool.Clone()
	if !pool.AppendCertsFromPEM(pem) {
		return false
	}

	f.pool = pool
	f.publish()
	return true
}

func (f *Factory) publish() {
	f.tls.Store(&tls.Config{
		MinVersion:         tls.VersionTLS12,
		RootCAs:            f.pool,
		InsecureSkipVerify: f.cfg.Verify == VerifyNone,
	})
}

// Close closes every server created by the Factory, then stops the
// dispatch loop. Network operations still in flight are interrupted,
// and Close returns only once they and every handler they lead to,
// including event handlers and server callbacks, have run. Calls
// interrupted this way, and calls made afterwards, fail with
// ErrClosed.
//
// Close is idempotent. It must not be called from an event handler or
// a server callback.
func (f *Factory) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	servers := f.servers
	f.servers = nil
	f.mu.Unlock()

	for _, s := range servers {
		_ = s.Close()
	}

	f.loop.Stop()
}
