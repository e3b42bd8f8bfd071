// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package indextank

// An Event identifies the event type when installing or running a
// Handler.
type Event int

const (
	// BeforeExecutionStart occurs before the execution starts. Only the
	// execution's plan and ID are set.
	BeforeExecutionStart Event = iota
	// BeforeAttempt occurs before each request attempt. The
	// execution's request field is set to the HTTP request that will be
	// sent after all BeforeAttempt handlers have finished.
	//
	// Handlers which modify the request should clone its URL and Header
	// first, as they are shared with the plan.
	BeforeAttempt
	// BeforeReadBody occurs after an attempt received an HTTP response,
	// whatever its status code, and before its body is read.
	BeforeReadBody
	// AfterAttemptTimeout occurs after an attempt failed because of a
	// timeout. The attempt timeout counter has been incremented.
	AfterAttemptTimeout
	// AfterAttempt occurs after every attempt, before the retry policy
	// is consulted. Either the response or the error, or both, are set.
	AfterAttempt
	// BeforeRetryWait occurs after the retry policy decided to retry,
	// before the client waits. The execution's Wait field holds the
	// duration of the upcoming wait.
	BeforeRetryWait
	// AfterPlanTimeout occurs after the deadline of the plan context is
	// exceeded, either during an attempt or during a retry wait.
	AfterPlanTimeout
	// AfterExecutionEnd occurs after the execution ends, with the
	// execution in the state of its final attempt and End set.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"BeforeRetryWait",
	"AfterPlanTimeout",
	"AfterExecutionEnd",
}

// Events returns all events which can occur during an execution, in
// the order in which they would occur.
func Events() []Event {
	events := make([]Event, numEvents)
	for i := range events {
		events[i] = Event(i)
	}
	return events
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
