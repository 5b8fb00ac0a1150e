// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/foxtrot75/httpsync/internal/loop"
	"github.com/foxtrot75/httpsync/transient"
	"github.com/jpillora/backoff"
)

// An acceptor keeps one accept outstanding on a listener, starting a
// session for every connection and arming the next accept right away.
//
// Transient accept errors re-arm after a jittered exponential delay
// that resets on the next successful accept. A closed listener stops
// the acceptor quietly. Any other error stops it and is recorded as
// the server's error.
type acceptor struct {
	server  *Server
	ln      net.Listener
	backoff *backoff.Backoff
	conn    net.Conn
}

func newAcceptBackoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    5 * time.Millisecond,
		Max:    time.Second,
		Factor: 2,
		Jitter: true,
	}
}

func (a *acceptor) arm() error {
	return a.server.loop.Async(a.accept, a.accepted)
}

// accept waits for the next connection. Once ctx is done, a listener
// with a deadline is made to time out, and any other one is closed.
func (a *acceptor) accept(ctx context.Context) error {
	defer context.AfterFunc(ctx, func() {
		if dl, ok := a.ln.(interface{ SetDeadline(time.Time) error }); ok {
			_ = dl.SetDeadline(aLongTimeAgo)
			return
		}
		_ = a.ln.Close()
	})()

	conn, err := a.ln.Accept()
	a.conn = conn
	return err
}

func (a *acceptor) accepted(err error) {
	conn := a.conn
	a.conn = nil
	log := a.server.logger

	switch {
	case err == nil:
		a.backoff.Reset()
		a.server.session(conn).start()
		a.rearm()
	case errors.Is(err, loop.ErrStopped):
		if conn != nil {
			_ = conn.Close()
		}
	case errors.Is(err, net.ErrClosed):
		log.Infof("listener %s closed", a.ln.Addr())
	case transient.Categorize(err).Transient():
		d := a.backoff.Duration()
		log.Warnf("Accept: %v (attempt %.0f, retrying in %s)", err, a.backoff.Attempt(), d)
		if err := a.server.loop.Delay(d, a.rearm); err != nil {
			log.Infof("listener %s: %v", a.ln.Addr(), err)
		}
	default:
		log.Errorf("Accept: %v (no longer accepting)", err)
		a.server.stopped(a.ln, err)
	}
}

func (a *acceptor) rearm() {
	if err := a.arm(); err != nil {
		a.server.logger.Infof("listener %s: %v", a.ln.Addr(), err)
	}
}
