// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"syscall"
)

// A Category is the transience category of a transport error, as
// reported by Categorize.
//
// Not and Canceled mean a retry must not be attempted. Every other
// category means the attempt failed in transit and a retry may
// succeed.
type Category int

const (
	// Not indicates there is no error.
	Not Category = iota
	// Canceled indicates the caller cancelled the call's context.
	// Retrying would contradict the caller's intent.
	Canceled
	// Timeout indicates a client-side timeout, either of the attempt
	// or of the whole call.
	//
	// Categorize returns Timeout if the error or any of its wrapped
	// causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (ECONNREFUSED), typically because the service is restarting.
	ConnRefused
	// ConnReset indicates the remote host reset an active connection
	// (ECONNRESET), typically because of a load balancer or a
	// premature shutdown.
	ConnReset
	// Other indicates any other failure to complete the request
	// attempt, such as a DNS failure or a truncated response body.
	Other
)

var categoryNames = []string{
	"Not",
	"Canceled",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"Other",
}

// Categorize returns the transience category of err. A nil error
// produces Not.
//
// In assessing transience, Categorize looks at wrapped cause errors
// contained within err, not just err itself. Cancellation takes
// precedence over every other category.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Other
}

// Transient reports whether err is a non-nil error that a retry might
// overcome.
func Transient(err error) bool {
	c := Categorize(err)
	return c != Not && c != Canceled
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Other"
	}
	return categoryNames[c]
}

type hasTimeout interface {
	Timeout() bool
}
