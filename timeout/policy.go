// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/foxtrot75/httpsync/request"
)

// A Policy defines a timeout policy which may be plugged into an
// httpsync client to direct how long each phase of a call may take.
//
// The client consults the policy once per phase, immediately before
// issuing the phase's network operation, and applies the returned
// duration as a fresh deadline measured from that moment.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to apply to the phase the exchange is
	// about to enter.
	//
	// Parameter e contains the current state of the client call, with
	// its Phase field already set to the phase being entered.
	Timeout(e *request.Exchange) time.Duration
}

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of 10 seconds on each phase.
var DefaultPolicy Policy = Fixed(10 * time.Second)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value for every
// phase. The return value is a timeout policy that always returns the
// value d.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

type fixed time.Duration

func (d fixed) Timeout(_ *request.Exchange) time.Duration {
	return time.Duration(d)
}

// PerPhase constructs a timeout policy that looks up the timeout of the
// phase being entered in the given map, and falls back to usual for any
// phase not present in the map.
//
// Consider the following timeout policy:
//
// 	p := PerPhase(2*time.Second, map[request.Phase]time.Duration{
// 		request.Resolving: 500 * time.Millisecond,
// 		request.Reading:   30 * time.Second,
// 	})
//
// The policy p gives name resolution half a second, allows a slow
// response 30 seconds to arrive, and limits every other phase to 2
// seconds.
//
// The map is copied, so later changes to it do not affect the policy.
func PerPhase(usual time.Duration, phases map[request.Phase]time.Duration) Policy {
	p := perPhase{
		usual:  usual,
		phases: make(map[request.Phase]time.Duration, len(phases)),
	}
	for k, v := range phases {
		p.phases[k] = v
	}
	return p
}

type perPhase struct {
	usual  time.Duration
	phases map[request.Phase]time.Duration
}

func (p perPhase) Timeout(e *request.Exchange) time.Duration {
	if d, ok := p.phases[e.Phase]; ok {
		return d
	}

	return p.usual
}
