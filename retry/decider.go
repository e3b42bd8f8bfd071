// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/indextank/request"
	"github.com/gogama/indextank/transient"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the number of retries DefaultPolicy allows, for 5
// attempts in total.
const DefaultTimes = 4

// DefaultDecider allows up to DefaultTimes retries of attempts which
// are Retriable.
var DefaultDecider = Times(DefaultTimes).And(Retriable)

// Retriable is a decider that indicates a retry if the current attempt
// ended with an Unexpected outcome: either a status code outside the
// set the index service documents, or a transport failure other than
// cancellation.
var Retriable DeciderFunc = retriable

// TransientErr is a decider that indicates a retry if the current
// attempt ended in a transport error which is transient according to
// transient.Transient. It always returns false if a valid HTTP
// response was received.
var TransientErr DeciderFunc = transientErr

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current execution state.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true. g is not evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true. g is not
// evaluated if f returns true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the zero-based attempt index
// e.Attempt is less than n.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// MaxAttempts constructs a retry decider which allows up to n attempts
// in total, including the initial one. MaxAttempts(1) never retries.
func MaxAttempts(n int) DeciderFunc {
	return Times(n - 1)
}

// Before constructs a retry decider allowing retries until d has
// elapsed since the start of the execution.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode constructs a retry decider which returns true if the
// most recent attempt received an HTTP response whose status code is
// contained in ss.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(e *request.Execution) bool {
		if e.Err != nil {
			return false
		}
		for _, s := range ss2 {
			if e.StatusCode() == s {
				return true
			}
		}
		return false
	}
}

func retriable(e *request.Execution) bool {
	if e.Err != nil {
		return transient.Transient(e.Err)
	}
	return e.Kind().Retriable()
}

func transientErr(e *request.Execution) bool {
	return transient.Transient(e.Err)
}
