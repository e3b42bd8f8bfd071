// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/indextank/outcome"
	"github.com/gogama/indextank/transient"
)

// An Execution represents the state of a single Plan execution.
//
// The client creates an Execution when a call starts, updates it as
// attempts are made and retried, and returns it once the call ends.
//
// Retry and timeout policies and event handlers may attach data to an
// Execution using SetValue and read it back using Value, but should
// treat the exported fields as read-only.
type Execution struct {
	// Plan specifies the request plan being executed. It is never nil.
	Plan *Plan

	// ID is a random identifier assigned when the execution starts.
	// It is attached to every log line emitted for the call.
	ID string

	// Start is the start time of the execution.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends.
	End time.Time

	// Attempt is the zero-based index of the current request attempt:
	// zero on the initial attempt, one on the first retry, and so on.
	// The number of attempts made so far is therefore Attempt+1.
	Attempt int

	// Sent counts the HTTP requests actually handed to the transport.
	// It trails Attempt+1 when the rate limiter ends the execution
	// before the current attempt's request goes out.
	Sent int

	// AttemptTimeouts counts the attempts which ended in a timeout.
	AttemptTimeouts int

	// Wait is the backoff duration chosen by the retry policy before
	// the current attempt. It is zero on the initial attempt.
	Wait time.Duration

	// Request is the HTTP request to be made in the current attempt, or
	// already made in the last attempt.
	Request *http.Request

	// Response is the HTTP response received in the most recent attempt.
	// It is nil if the attempt ended in a transport error, or while an
	// attempt is underway.
	Response *http.Response

	// Err is the transport error which ended the most recent attempt.
	// Whenever Err is non-nil, it has the type *url.Error.
	Err error

	// Body is the complete response body read in the most recent
	// attempt.
	Body []byte

	data context.Context
}

// StatusCode returns the status code of the HTTP response from the
// most recent request attempt, or 0 if there is no HTTP response.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response headers from the most recent request
// attempt. If there is no HTTP response, the nil header is returned.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Kind classifies the most recent attempt. An attempt which ended in a
// transport error, including a failure to read the response body, is
// Unexpected regardless of any status code received.
func (e *Execution) Kind() outcome.Kind {
	if e.Err != nil {
		return outcome.Unexpected
	}

	return outcome.Classify(e.StatusCode())
}

// Attempts returns the number of request attempts made, or in
// progress, during the execution.
func (e *Execution) Attempts() int {
	if !e.Started() {
		return 0
	}

	return e.Attempt + 1
}

// Duration returns the duration of the execution. It is zero before the
// execution starts, and becomes fixed once it has ended.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended indicates whether the execution has ended.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout indicates whether Err currently contains a timeout, caused
// either by the attempt timeout or by the plan context deadline.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// Failure builds the terminal error for an ended execution from the
// state of its final attempt. It returns nil if the final attempt
// succeeded. The error's Attempts field reports Sent, so it is zero
// when no request ever left the client.
func (e *Execution) Failure() *outcome.Error {
	k := e.Kind()
	if k == outcome.Success {
		return nil
	}

	return &outcome.Error{
		Kind:       k,
		StatusCode: e.StatusCode(),
		Body:       e.Body,
		Attempts:   e.Sent,
		Err:        e.Err,
	}
}

// SetValue stores arbitrary data in the execution. The key must follow
// the same rules as the key parameter of context.WithValue.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
