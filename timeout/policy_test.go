// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"math"
	"syscall"
	"testing"
	"time"

	"github.com/foxtrot75/httpsync/request"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	a := DefaultPolicy.Timeout(&request.Exchange{})
	assert.Equal(t, 10*time.Second, a)
	b := DefaultPolicy.Timeout(&request.Exchange{Phase: request.Reading, Err: syscall.ETIMEDOUT, Body: []byte("foo")})
	assert.Equal(t, 10*time.Second, b)
}

func TestInfinite(t *testing.T) {
	a := Infinite.Timeout(&request.Exchange{})
	assert.Equal(t, time.Duration(math.MaxInt64), a)
	b := Infinite.Timeout(&request.Exchange{Phase: request.Handshaking, Err: syscall.ETIMEDOUT})
	assert.Equal(t, time.Duration(math.MaxInt64), b)
}

func TestFixed(t *testing.T) {
	p := Fixed(33 * time.Hour)
	for _, phase := range request.TLSPhases() {
		t.Run(phase.String(), func(t *testing.T) {
			assert.Equal(t, 33*time.Hour, p.Timeout(&request.Exchange{Phase: phase}))
		})
	}
}

func TestPerPhase(t *testing.T) {
	m := map[request.Phase]time.Duration{
		request.Resolving: 5 * time.Millisecond,
		request.Reading:   100 * time.Millisecond,
	}
	p := PerPhase(time.Second, m)
	m[request.Connecting] = time.Hour

	testCases := []struct {
		phase request.Phase
		want  time.Duration
	}{
		{request.Resolving, 5 * time.Millisecond},
		{request.Connecting, time.Second},
		{request.Handshaking, time.Second},
		{request.Writing, time.Second},
		{request.Reading, 100 * time.Millisecond},
		{request.ShuttingDown, time.Second},
	}

	for _, testCase := range testCases {
		t.Run(testCase.phase.String(), func(t *testing.T) {
			x := &request.Exchange{Phase: testCase.phase}
			assert.Equal(t, testCase.want, p.Timeout(x))
		})
	}
}

func TestPerPhase_Nil(t *testing.T) {
	p := PerPhase(42*time.Millisecond, nil)
	assert.Equal(t, 42*time.Millisecond, p.Timeout(&request.Exchange{Phase: request.Writing}))
}
