// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "errors"

// A Phase identifies one ordered step of a client call chain.
//
// A plain client call moves through Resolving, Connecting, Writing and
// Reading. A TLS client call inserts Handshaking after Connecting and
// ShuttingDown after Reading. Idle is the state of an exchange that has
// not yet been scheduled onto the dispatch loop, and Done is the state
// of an exchange whose chain has terminated, successfully or not.
type Phase int

const (
	// Idle is the phase of an exchange before its first network
	// operation. Request building and SNI setup happen in Idle, so a
	// failure there is reported against Idle.
	Idle Phase = iota
	// Resolving looks up the addresses of the configured host.
	Resolving
	// Connecting opens a TCP connection to one of the resolved
	// addresses.
	Connecting
	// Handshaking performs the TLS client handshake (TLS only).
	Handshaking
	// Writing sends the serialized HTTP request.
	Writing
	// Reading receives and decodes the HTTP response, including the
	// whole body.
	Reading
	// ShuttingDown performs the graceful TLS close (TLS only). It runs
	// after the caller has already received its result.
	ShuttingDown
	// Done is the terminal phase.
	Done
	// phaseSentinel provides the total number of phases.
	phaseSentinel

	numPhases = int(phaseSentinel)
)

var phaseNames = []string{
	"Idle",
	"Resolving",
	"Connecting",
	"Handshaking",
	"Writing",
	"Reading",
	"ShuttingDown",
	"Done",
}

var phaseOps = []string{
	"Build",
	"Resolve",
	"Connect",
	"Handshake",
	"Write",
	"Read",
	"Shutdown",
	"Done",
}

// PlainPhases returns the network phases of a plain client call, in
// the order in which they run.
func PlainPhases() []Phase {
	return []Phase{Resolving, Connecting, Writing, Reading}
}

// TLSPhases returns the network phases of a TLS client call, in the
// order in which they run.
func TLSPhases() []Phase {
	return []Phase{Resolving, Connecting, Handshaking, Writing, Reading, ShuttingDown}
}

// Name returns the name of the phase.
func (p Phase) Name() string {
	if p < 0 || int(p) >= numPhases {
		return "Unknown"
	}
	return phaseNames[p]
}

// String returns the name of the phase.
func (p Phase) String() string {
	return p.Name()
}

// Op returns the short operation name used to label errors raised in
// the phase, for example "Resolve" or "Handshake".
func (p Phase) Op() string {
	if p < 0 || int(p) >= numPhases {
		return "Unknown"
	}
	return phaseOps[p]
}

// A PhaseError records a transport error together with the client
// phase in which it occurred.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return e.Phase.Op() + ": " + e.Err.Error()
}

// Unwrap returns the underlying transport error.
func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying transport error is a timeout.
func (e *PhaseError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}
