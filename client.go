// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/foxtrot75/httpsync/internal/loop"
	"github.com/foxtrot75/httpsync/internal/wire"
	"github.com/foxtrot75/httpsync/request"
	"github.com/foxtrot75/httpsync/timeout"
	"github.com/foxtrot75/httpsync/transient"
	"golang.org/x/net/idna"
)

const (
	clientPayloadLimit    = 2048
	tlsClientPayloadLimit = 10240
)

// A Client is a blocking HTTP client. Each call opens a fresh TCP
// connection, sends one request, reads one response and closes the
// connection.
//
// Create Clients with Factory.Client. At most one call is in flight on
// a Client at any time: concurrent callers queue on an internal lock
// and run one after the other. Setup and SetTimeout take effect from
// the next call onward.
//
// The Get and Post methods must not be called from an event handler or
// any other code running on the factory's dispatch loop.
type Client struct {
	caller
}

// A TLSClient is a blocking HTTPS client. It behaves like Client, but
// performs a TLS handshake after connecting and a graceful TLS shutdown
// after the response has been read.
//
// The shutdown runs after the caller has already been given the
// response, so a peer that closes its connection without a TLS
// close-notify does not fail the call.
//
// Create TLSClients with Factory.TLSClient.
type TLSClient struct {
	caller
}

type caller struct {
	name         string
	loop         *loop.Loop
	tlsConfig    func() *tls.Config
	resolver     Resolver
	dialer       Dialer
	handlers     *HandlerGroup
	logger       Logger
	payloadLimit int
	backoff      time.Duration

	callMu sync.Mutex
	br     *bufio.Reader

	mu      sync.Mutex
	host    string
	port    uint16
	policy  timeout.Policy
	lastErr error
}

// Setup sets the host and port the following calls connect to.
func (c *caller) Setup(host string, port uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.host = host
	c.port = port
}

// Host returns the configured host.
func (c *caller) Host() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.host
}

// Port returns the configured port.
func (c *caller) Port() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port
}

// SetTimeout sets a fixed timeout applied afresh to every phase of the
// following calls. A non-positive duration means no timeout.
func (c *caller) SetTimeout(d time.Duration) {
	c.SetTimeoutPolicy(timeout.Fixed(d))
}

// SetTimeoutPolicy sets the policy deciding the timeout of each phase
// of the following calls. A nil policy selects timeout.DefaultPolicy.
func (c *caller) SetTimeoutPolicy(p timeout.Policy) {
	if p == nil {
		p = timeout.DefaultPolicy
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = p
}

// Err returns the error that made the most recent call fail, or nil if
// it succeeded. Errors raised by a phase of the call chain have type
// *request.PhaseError.
func (c *caller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Get sends r as a GET request and blocks until the response has been
// read or the call has failed.
//
// On success Get returns the response body and true. The status code
// and header fields of the response are not returned; they are visible
// to event handlers and in the debug log. On failure Get returns the
// empty string and false, and Err reports why.
func (c *caller) Get(r request.Request) (string, bool) {
	return c.do("GET", r)
}

// Post sends r as a POST request and blocks until the response has been
// read or the call has failed. It returns like Get.
func (c *caller) Post(r request.Request) (string, bool) {
	return c.do("POST", r)
}

type result struct {
	body string
	err  error
}

func (c *caller) do(method string, r request.Request) (string, bool) {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	c.mu.Lock()
	c.lastErr = nil
	k := &call{
		c:      c,
		policy: c.policy,
		result: make(chan result, 1),
		e: &request.Exchange{
			Request: r,
			Method:  method,
			Host:    c.host,
			Port:    c.port,
			Start:   time.Now(),
		},
	}
	c.mu.Unlock()

	if c.tlsConfig != nil {
		k.phases = request.TLSPhases()
	} else {
		k.phases = request.PlainPhases()
	}

	var res result
	if err := c.loop.Post(k.begin); err != nil {
		res.err = &request.PhaseError{Phase: request.Idle, Err: err}
	} else {
		res = <-k.result
	}

	c.mu.Lock()
	c.lastErr = res.err
	c.mu.Unlock()

	if res.err != nil {
		return "", false
	}

	return res.body, true
}

// A call is the chain of phases run for one Get or Post. Its methods
// run on the dispatch loop, except the phase operations, which run on
// their own goroutines between the loop handlers that start and
// complete them.
type call struct {
	c        *caller
	e        *request.Exchange
	policy   timeout.Policy
	phases   []request.Phase
	next     int
	deadline time.Time
	tls      *tls.Config
	addrs    []string
	conn     net.Conn
	result   chan result
}

func (k *call) begin() {
	c, e := k.c, k.e
	c.handlers.run(BeforeCall, e)

	req, err := wire.NewRequest(e.Method, e.Host, UserAgent, e.Request)
	if err != nil {
		k.abort(err)
		return
	}
	e.Wire = req
	c.logger.Debugf("%s", wire.DumpRequest(req, e.Request.Body, c.payloadLimit))

	if c.tlsConfig != nil {
		cfg, err := clientTLSConfig(c.tlsConfig(), e.Host)
		if err != nil {
			k.abort(err)
			return
		}
		k.tls = cfg
	}

	k.enter(0)
}

// clientTLSConfig clones the factory's current TLS configuration and
// points it at host. Host names are converted to their ASCII form for
// SNI; crypto/tls itself leaves SNI out for IP literals.
func clientTLSConfig(base *tls.Config, host string) (*tls.Config, error) {
	if host == "" {
		return nil, errors.New("tls: empty server name")
	}

	name := host
	if net.ParseIP(host) == nil {
		var err error
		name, err = idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, err
		}
	}

	cfg := base.Clone()
	cfg.ServerName = name
	return cfg, nil
}

func (k *call) enter(i int) {
	c, e := k.c, k.e
	k.next = i
	e.Phase = k.phases[i]
	k.deadline = deadlineAfter(k.policy.Timeout(e))
	c.handlers.run(BeforePhase, e)

	if err := c.loop.Async(k.op(e.Phase), k.complete); err != nil {
		k.complete(err)
	}
}

func (k *call) op(p request.Phase) func(context.Context) error {
	switch p {
	case request.Resolving:
		return k.resolve
	case request.Connecting:
		return k.connect
	case request.Handshaking:
		return k.handshake
	case request.Writing:
		return k.write
	case request.Reading:
		return k.read
	case request.ShuttingDown:
		return k.shutdown
	default:
		panic("httpsync: no operation for phase " + p.String())
	}
}

func (k *call) complete(err error) {
	c, e := k.c, k.e
	if err != nil {
		e.Err = &request.PhaseError{Phase: e.Phase, Err: err}
	}
	c.handlers.run(AfterPhase, e)

	if e.Phase == request.ShuttingDown {
		if err != nil && transient.Categorize(err) != transient.Truncated {
			c.logger.Errorf("%v", e.Err)
		}
		k.close()
		e.Phase = request.Done
		return
	}

	if err != nil {
		k.fail()
		return
	}

	if e.Phase == request.Reading {
		if k.next+1 == len(k.phases) {
			k.close()
			e.Phase = request.Done
			k.succeed()
			return
		}

		e.Phase = request.Done
		tail := k.succeed()
		k.e = tail
		k.enter(k.next + 1)
		return
	}

	k.enter(k.next + 1)
}

func (k *call) abort(err error) {
	k.e.Err = &request.PhaseError{Phase: k.e.Phase, Err: err}
	k.fail()
}

// succeed wakes the caller with the response body. The exchange is not
// touched after that; succeed returns a copy of it, taken once the
// AfterCall handlers have run, for any phase still left to run.
func (k *call) succeed() *request.Exchange {
	c, e := k.c, k.e
	c.logger.Debugf("%s", wire.DumpResponse(e.Response, e.Body, c.payloadLimit))
	e.End = time.Now()
	c.handlers.run(AfterCall, e)
	tail := *e
	k.result <- result{body: string(e.Body)}
	return &tail
}

// fail closes the connection, and reports e.Err to the caller once the
// error back-off has elapsed.
func (k *call) fail() {
	c, e := k.c, k.e
	k.close()
	c.logger.Errorf("%v", e.Err)

	finish := func() {
		e.End = time.Now()
		c.handlers.run(AfterCall, e)
		k.result <- result{err: e.Err}
	}

	if c.backoff <= 0 || c.loop.Delay(c.backoff, finish) != nil {
		finish()
	}
}

func (k *call) close() {
	if k.conn == nil {
		return
	}

	conn := k.conn
	k.conn = nil
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	_ = conn.Close()
}

// context bounds parent, the loop's context, by the phase deadline.
func (k *call) context(parent context.Context) (context.Context, context.CancelFunc) {
	if k.deadline.IsZero() {
		return context.WithCancel(parent)
	}
	return context.WithDeadline(parent, k.deadline)
}

// interrupt arms conn so that blocked I/O on it returns as soon as ctx
// is done. The returned function disarms it.
func interrupt(ctx context.Context, conn net.Conn) func() bool {
	return context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(aLongTimeAgo)
	})
}

var aLongTimeAgo = time.Unix(1, 0)

func (k *call) resolve(parent context.Context) error {
	ctx, cancel := k.context(parent)
	defer cancel()

	addrs, err := k.c.resolver.LookupHost(ctx, k.e.Host)
	if err != nil {
		return err
	}
	if len(addrs) == 0 {
		return &net.DNSError{Err: "no such host", Name: k.e.Host, IsNotFound: true}
	}

	k.addrs = addrs
	return nil
}

// connect tries each resolved address in turn, all under the one phase
// deadline, and reports the first error if none connects.
func (k *call) connect(parent context.Context) error {
	ctx, cancel := k.context(parent)
	defer cancel()

	port := strconv.Itoa(int(k.e.Port))
	var first error
	for _, addr := range k.addrs {
		conn, err := k.c.dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, port))
		if err == nil {
			k.conn = conn
			return nil
		}
		if first == nil {
			first = err
		}
		if ctx.Err() != nil {
			break
		}
	}

	return first
}

func (k *call) handshake(parent context.Context) error {
	tc := tls.Client(k.conn, k.tls)
	k.conn = tc
	if err := tc.SetDeadline(k.deadline); err != nil {
		return err
	}

	ctx, cancel := k.context(parent)
	defer cancel()
	return tc.HandshakeContext(ctx)
}

func (k *call) write(ctx context.Context) error {
	if err := k.conn.SetDeadline(k.deadline); err != nil {
		return err
	}
	defer interrupt(ctx, k.conn)()

	return k.e.Wire.Write(k.conn)
}

func (k *call) read(ctx context.Context) error {
	if err := k.conn.SetDeadline(k.deadline); err != nil {
		return err
	}
	defer interrupt(ctx, k.conn)()

	br := k.c.br
	br.Reset(k.conn)
	resp, body, err := wire.ReadResponse(br, k.e.Wire)
	br.Reset(nil)
	if err != nil {
		return err
	}

	k.e.Response = resp
	k.e.Body = body
	return nil
}

// shutdown sends the TLS close-notify and drains the connection until
// the peer closes its side.
func (k *call) shutdown(ctx context.Context) error {
	tc := k.conn.(*tls.Conn)
	if err := tc.SetDeadline(k.deadline); err != nil {
		return err
	}
	defer interrupt(ctx, tc)()

	err := tc.CloseWrite()
	if err == nil {
		_, err = io.Copy(io.Discard, tc)
	}

	if cerr := tc.Close(); err == nil && cerr != nil && !errors.Is(cerr, net.ErrClosed) {
		err = cerr
	}

	k.conn = nil
	return err
}

// deadlineAfter returns the time d from now. A non-positive d, or one
// too large to represent, produces the zero time, meaning no deadline.
func deadlineAfter(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}

	now := time.Now()
	t := now.Add(d)
	if t.Before(now) {
		return time.Time{}
	}

	return t
}
