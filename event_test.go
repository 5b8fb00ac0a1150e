// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	assert.Len(t, eventNames, numEvents)
	assert.Len(t, Events(), numEvents)
	events := Events()
	assert.Equal(t, BeforeCall, events[BeforeCall])
	assert.Equal(t, BeforePhase, events[BeforePhase])
	assert.Equal(t, AfterPhase, events[AfterPhase])
	assert.Equal(t, AfterCall, events[AfterCall])
}

func TestEvent_Name(t *testing.T) {
	assert.Equal(t, "BeforeCall", BeforeCall.Name())
	assert.Equal(t, "BeforePhase", BeforePhase.Name())
	assert.Equal(t, "AfterPhase", AfterPhase.Name())
	assert.Equal(t, "AfterCall", AfterCall.String())
}
