// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gogama/indextank/request"
)

// A Waiter specifies how long to wait before retrying a failed
// attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines. The client only calls Wait after the Decider returned
// true.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// The WaiterFunc type is an adapter to allow the use of ordinary
// functions as retry waiters.
type WaiterFunc func(e *request.Execution) time.Duration

// Wait calls f(e).
func (f WaiterFunc) Wait(e *request.Execution) time.Duration {
	return f(e)
}

// DefaultStep is the backoff step of DefaultWaiter.
const DefaultStep = 2 * time.Second

// DefaultWaiter waits DefaultStep times the number of attempts made so
// far: 2s after the first attempt, then 4s, 6s and 8s.
var DefaultWaiter = NewLinearWaiter(DefaultStep)

// NewFixedWaiter constructs a Waiter that always returns d.
func NewFixedWaiter(d time.Duration) Waiter {
	if d < 0 {
		panic("indextank/retry: wait must not be negative")
	}
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewLinearWaiter constructs a Waiter whose wait grows linearly with
// the attempt count. After the attempt with zero-based index i fails,
// it waits step*(i+1).
func NewLinearWaiter(step time.Duration) Waiter {
	if step < 0 {
		panic("indextank/retry: step must not be negative")
	}
	return linearWaiter(step)
}

type linearWaiter time.Duration

func (w linearWaiter) Wait(e *request.Execution) time.Duration {
	return time.Duration(w) * time.Duration(e.Attempt+1)
}

// NewBackOffWaiter adapts a github.com/cenkalti/backoff BackOff into a
// Waiter.
//
// BackOff implementations are stateful, so newBackOff is called once
// per execution and the resulting BackOff is kept in the execution
// (see request.Execution.SetValue). If the BackOff returns
// backoff.Stop, the waiter returns zero: bound the number of retries
// with a Decider such as MaxAttempts.
func NewBackOffWaiter(newBackOff func() backoff.BackOff) Waiter {
	if newBackOff == nil {
		panic("indextank/retry: nil backoff factory")
	}
	return &backOffWaiter{newBackOff: newBackOff}
}

// NewExpWaiter constructs a Waiter implementing jittered exponential
// backoff starting at base and capped at max, using
// backoff.ExponentialBackOff with its default randomization factor and
// multiplier.
func NewExpWaiter(base, max time.Duration) Waiter {
	if base < 1 {
		panic("indextank/retry: base must be positive")
	}
	if max < base {
		panic("indextank/retry: max must be at least base")
	}
	return NewBackOffWaiter(func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = base
		b.MaxInterval = max
		b.MaxElapsedTime = 0
		b.Reset()
		return b
	})
}

type backOffKey struct{}

type backOffWaiter struct {
	newBackOff func() backoff.BackOff
}

func (w *backOffWaiter) Wait(e *request.Execution) time.Duration {
	b, ok := e.Value(backOffKey{}).(backoff.BackOff)
	if !ok {
		b = w.newBackOff()
		e.SetValue(backOffKey{}, b)
	}
	d := b.NextBackOff()
	if d == backoff.Stop || d < 0 {
		return 0
	}
	return d
}
