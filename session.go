// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/foxtrot75/httpsync/internal/loop"
	"github.com/foxtrot75/httpsync/internal/wire"
	"github.com/foxtrot75/httpsync/request"
)

const serverPayloadLimit = 1024

// A SessionState is the state of a server session.
type SessionState int

const (
	// SessionReading reads and parses the request.
	SessionReading SessionState = iota
	// SessionProcessing runs the callback and encodes the response.
	SessionProcessing
	// SessionWriting sends the response.
	SessionWriting
	// SessionClosed is the terminal state. The connection has been
	// shut down in both directions and closed.
	SessionClosed
)

var sessionStateNames = []string{
	"Reading",
	"Processing",
	"Writing",
	"Closed",
}

func (st SessionState) String() string {
	if st < 0 || int(st) >= len(sessionStateNames) {
		return "Unknown"
	}
	return sessionStateNames[st]
}

// A session answers the one request read from an accepted connection.
// Its errors are logged and end the session; nothing is reported to the
// acceptor.
type session struct {
	conn     net.Conn
	br       *bufio.Reader
	callback Callback
	loop     *loop.Loop
	logger   Logger
	timeout  time.Duration
	state    SessionState

	hreq *http.Request
	req  request.Request
	enc  wire.Encoded
}

func newSession(conn net.Conn, cb Callback, l *loop.Loop, logger Logger, timeout time.Duration) *session {
	return &session{
		conn:     conn,
		br:       bufio.NewReader(conn),
		callback: cb,
		loop:     l,
		logger:   logger,
		timeout:  timeout,
	}
}

func (s *session) start() {
	s.state = SessionReading
	if err := s.conn.SetDeadline(deadlineAfter(s.timeout)); err != nil {
		s.fail("Read", err)
		return
	}

	if err := s.loop.Async(s.read, s.onRead); err != nil {
		s.fail("Read", err)
	}
}

func (s *session) read(ctx context.Context) error {
	defer interrupt(ctx, s.conn)()

	req, hreq, err := wire.ReadRequest(s.br)
	if err != nil {
		return err
	}

	s.req = req
	s.hreq = hreq
	return nil
}

func (s *session) onRead(err error) {
	if err != nil {
		s.fail("Read", err)
		return
	}
	s.logger.Debugf("%s", wire.DumpRequest(s.hreq, s.req.Body, serverPayloadLimit))

	s.state = SessionProcessing
	if err := s.process(); err != nil {
		s.fail("Process", err)
		return
	}

	s.state = SessionWriting
	if err := s.loop.Async(s.write, s.onWrite); err != nil {
		s.fail("Write", err)
	}
}

func (s *session) process() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panic: %v", r)
		}
	}()

	var resp request.Response
	if s.callback != nil {
		resp = s.callback(s.req)
	}

	s.enc, err = wire.EncodeResponse(resp, UserAgent)
	if err != nil {
		return err
	}

	s.logger.Debugf("%s", wire.DumpEncoded(s.enc, serverPayloadLimit))
	return nil
}

func (s *session) write(ctx context.Context) error {
	defer interrupt(ctx, s.conn)()

	_, err := s.enc.WriteTo(s.conn)
	return err
}

func (s *session) onWrite(err error) {
	if err != nil {
		s.fail("Write", err)
		return
	}

	s.close()
}

func (s *session) fail(op string, err error) {
	s.logger.Errorf("%s: %v", op, err)
	s.close()
}

type halfCloser interface {
	CloseRead() error
	CloseWrite() error
}

func (s *session) close() {
	if hc, ok := s.conn.(halfCloser); ok {
		_ = hc.CloseWrite()
		_ = hc.CloseRead()
	}
	_ = s.conn.Close()
	s.state = SessionClosed
}
