// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"github.com/foxtrot75/httpsync/request"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a Factory's Config.
//
// Handlers must be pushed before the group is handed to a Factory. The
// group is read concurrently by every client afterwards.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("httpsync: nil handler")
	}
	if evt < 0 || int(evt) >= numEvents {
		panic("httpsync: invalid event")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, e *request.Exchange) {
	if g == nil {
		return
	}

	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, e)
	}
}

func run(chain []Handler, evt Event, e *request.Exchange) {
	for _, h := range chain {
		h.Handle(evt, e)
	}
}

// A Handler handles the occurrence of an event during a client call.
//
// Handlers run on the dispatch loop. They must not call the blocking
// methods of any client created from the same Factory.
type Handler interface {
	Handle(Event, *request.Exchange)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *request.Exchange)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Exchange) {
	f(evt, e)
}
