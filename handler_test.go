// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"fmt"
	"testing"

	"github.com/foxtrot75/httpsync/request"
	"github.com/stretchr/testify/assert"
)

func TestHandlerGroup(t *testing.T) {
	var evts []string
	var exchanges []*request.Exchange
	h1 := &testHandler{seq: 1, evts: &evts, exchanges: &exchanges}
	h2 := &testHandler{seq: 2, evts: &evts, exchanges: &exchanges}
	g := &HandlerGroup{}
	t.Run("PushBack", func(t *testing.T) {
		assert.PanicsWithValue(t, "httpsync: nil handler", func() { g.PushBack(BeforeCall, nil) })
		assert.PanicsWithValue(t, "httpsync: invalid event", func() { g.PushBack(Event(123), h1) })
		assert.PanicsWithValue(t, "httpsync: invalid event", func() { g.PushBack(Event(-1), h1) })
		g.PushBack(BeforeCall, h1)
		g.PushBack(BeforeCall, h2)
		g.PushBack(AfterPhase, h1)
	})
	t.Run("run", func(t *testing.T) {
		e1 := &request.Exchange{Phase: request.Resolving}
		e2 := &request.Exchange{Phase: request.Reading}
		assert.Empty(t, evts)
		assert.Empty(t, exchanges)
		g.run(AfterCall, e1)
		assert.Empty(t, evts)
		assert.Empty(t, exchanges)
		g.run(BeforeCall, e1)
		assert.Equal(t, []string{"1.BeforeCall", "2.BeforeCall"}, evts)
		assert.Equal(t, []*request.Exchange{e1, e1}, exchanges)
		evts = evts[:0]
		exchanges = exchanges[:0]
		g.run(AfterPhase, e2)
		assert.Equal(t, []string{"1.AfterPhase"}, evts)
		assert.Equal(t, []*request.Exchange{e2}, exchanges)
	})
	t.Run("nil group", func(t *testing.T) {
		var nilGroup *HandlerGroup
		assert.NotPanics(t, func() { nilGroup.run(BeforeCall, &request.Exchange{}) })
	})
}

type testHandler struct {
	seq       int
	evts      *[]string
	exchanges *[]*request.Exchange
}

func (h *testHandler) Handle(evt Event, e *request.Exchange) {
	*h.evts = append(*h.evts, fmt.Sprintf("%d.%s", h.seq, evt))
	*h.exchanges = append(*h.exchanges, e)
}

func TestHandlerFunc(t *testing.T) {
	var _evt Event
	var _e *request.Exchange
	var f = func(evt Event, e *request.Exchange) {
		_evt = evt
		_e = e
	}
	h := HandlerFunc(f)
	e := &request.Exchange{}
	h.Handle(AfterPhase, e)

	assert.Equal(t, AfterPhase, _evt)
	assert.Same(t, e, _e)
}
