// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"context"
	"errors"
	"net"
	"os"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/foxtrot75/httpsync/internal/loop"
	"github.com/foxtrot75/httpsync/request"
)

var (
	// ErrServerRunning is reported by Run on a server that is already
	// running.
	ErrServerRunning = errors.New("httpsync: server already running")
	// ErrServerNotRunning is returned by Close on a server that is not
	// running.
	ErrServerNotRunning = errors.New("httpsync: server not running")
)

// A Callback computes the response to one request received by a
// Server. Field names of the request are lower case.
//
// Callbacks run on the dispatch loop, possibly on several workers at
// once, so they must be safe for concurrent use. They must not call the
// blocking methods of clients created from the same Factory.
type Callback func(request.Request) request.Response

// An OpError is the error a Server reports when one of its operations
// fails. Op names the failed operation: Open, Set option, Bind, Listen
// or Accept.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// A Server accepts TCP connections and answers one HTTP request on each
// of them with its callback.
//
// Create Servers with Factory.Server.
type Server struct {
	loop           *loop.Loop
	logger         Logger
	sessionLogger  Logger
	sessionTimeout time.Duration

	mu       sync.Mutex
	host     string
	port     uint16
	callback Callback
	ln       net.Listener
	err      error
}

// Setup sets the host and port the next Run listens on.
func (s *Server) Setup(host string, port uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.host = host
	s.port = port
}

// SetCallback sets the callback producing responses. It applies to the
// connections accepted after the call. With no callback every request
// is answered with 200 OK and an empty body.
func (s *Server) SetCallback(cb Callback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = cb
}

// Run starts listening and accepting connections, and returns without
// waiting for any. It returns false if the server could not start, in
// which case Err reports the failed operation as an *OpError and
// nothing is left running.
func (s *Server) Run() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		s.err = ErrServerRunning
		return false
	}
	if s.loop.Stopped() {
		s.err = &OpError{Op: "Open", Err: ErrClosed}
		return false
	}

	addr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(s.host, strconv.Itoa(int(s.port))))
	if err != nil {
		s.err = &OpError{Op: "Open", Err: err}
		return false
	}

	ln, err := listen(addr)
	if err != nil {
		s.err = err
		return false
	}

	s.ln = ln
	s.err = nil
	s.logger.Infof("listening on %s", ln.Addr())

	a := &acceptor{server: s, ln: ln, backoff: newAcceptBackoff()}
	if err := a.arm(); err != nil {
		_ = ln.Close()
		s.ln = nil
		s.err = &OpError{Op: "Listen", Err: err}
		return false
	}

	return true
}

// listen opens a TCP listener with SO_REUSEADDR set, and names the step
// that failed in the error it returns.
func listen(addr *net.TCPAddr) (net.Listener, error) {
	var optErr error
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			err := c.Control(func(fd uintptr) {
				optErr = setReuseAddr(fd)
			})
			if err != nil {
				return err
			}
			return optErr
		},
	}

	ln, err := lc.Listen(context.Background(), "tcp", addr.String())
	if err == nil {
		return ln, nil
	}

	op := "Listen"
	var se *os.SyscallError
	switch {
	case optErr != nil:
		op = "Set option"
	case errors.As(err, &se) && se.Syscall == "socket":
		op = "Open"
	case errors.As(err, &se) && se.Syscall == "bind":
		op = "Bind"
	}

	return nil, &OpError{Op: op, Err: err}
}

// Addr returns the address the server is listening on, or nil if it is
// not running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close stops accepting connections and closes the listener. Sessions
// already accepted run to completion. A closed server may be started
// again with Run.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return ErrServerNotRunning
	}

	err := s.ln.Close()
	s.ln = nil
	return err
}

// Err returns the error that made the last Run fail, or that stopped
// the server from accepting, or nil.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Server) session(conn net.Conn) *session {
	s.mu.Lock()
	cb := s.callback
	s.mu.Unlock()

	return newSession(conn, cb, s.loop, s.sessionLogger, s.sessionTimeout)
}

// stopped records a fatal accept error and releases the listener, so
// that the server may be run again. A listener that has since been
// replaced is left alone.
func (s *Server) stopped(ln net.Listener, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == ln {
		s.err = &OpError{Op: "Accept", Err: err}
		_ = ln.Close()
		s.ln = nil
	}
}
