// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/indextank/request"
)

// A Policy decides the timeout of the next request attempt within a
// call, given the current execution state.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	Timeout(e *request.Execution) time.Duration
}

// DefaultTimeout is the attempt timeout used by DefaultPolicy.
const DefaultTimeout = 30 * time.Second

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of DefaultTimeout on each attempt.
var DefaultPolicy Policy = Fixed(DefaultTimeout)

// Infinite is a timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy which uses d for every attempt.
func Fixed(d time.Duration) Policy {
	if d <= 0 {
		panic("indextank/timeout: timeout must be positive")
	}
	return policy([]time.Duration{d})
}

// Adaptive constructs a timeout policy that lengthens the timeout
// after attempts which timed out.
//
// usual is used for the initial attempt and for any retry where the
// previous attempt did not time out. If the previous attempt timed out
// and it was the n-th timeout of the call, after[n-1] is used, or the
// last element of after if there are fewer than n.
//
//	p := Adaptive(2*time.Second, 5*time.Second, 20*time.Second)
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(e *request.Execution) time.Duration {
	if !e.Timeout() {
		return p[0]
	}

	i := e.AttemptTimeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
