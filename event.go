// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Factory's Config to extend its
// clients with custom functionality.
type Event int

const (
	// BeforeCall identifies the event that occurs when a client call
	// starts, after the call lock has been taken.
	//
	// When a client fires BeforeCall, the exchange's request, method,
	// host, port and start time are set, and its phase is Idle.
	BeforeCall Event = iota
	// BeforePhase identifies the event that occurs before each phase of
	// the call chain issues its network operation.
	//
	// When a client fires BeforePhase, the exchange's phase field is
	// set to the phase about to run and the phase deadline has been
	// computed. Handlers run on a dispatch loop worker, so one that
	// blocks occupies that worker and stalls the calls and sessions
	// waiting for it.
	BeforePhase
	// AfterPhase identifies the event that occurs after each phase's
	// network operation completes, successfully or not.
	//
	// When a client fires AfterPhase after a failure, the exchange's
	// error field is set to a *request.PhaseError naming the phase.
	AfterPhase
	// AfterCall identifies the event that occurs just before the caller
	// is woken with the result of the call.
	//
	// When a client fires AfterCall, the exchange's end time is set. On
	// success the response and body fields are set and the phase is
	// Done; on failure the error field is set. The client does not
	// modify the exchange after AfterCall.
	//
	// A TLS client fires BeforePhase and AfterPhase for ShuttingDown
	// after AfterCall, since the graceful shutdown runs after the
	// caller has its result. Those handlers receive a copy of the
	// exchange taken after AfterCall.
	AfterCall
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeCall",
	"BeforePhase",
	"AfterPhase",
	"AfterCall",
}

// Events returns a slice containing all events which can occur in a
// client call, in the order in which they would first occur.
func Events() []Event {
	return []Event{
		BeforeCall,
		BeforePhase,
		AfterPhase,
		AfterCall,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
