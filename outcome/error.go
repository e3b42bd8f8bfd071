// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package outcome

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is. An *Error matches the
// sentinel corresponding to its Kind.
var (
	ErrInvalidArgument   = errors.New("indextank: invalid argument")
	ErrInvalidAPIKey     = errors.New("indextank: invalid api key")
	ErrNonExistentIndex  = errors.New("indextank: non-existent index")
	ErrIndexInitializing = errors.New("indextank: index initializing")
	ErrUnexpected        = errors.New("indextank: unexpected http exception")
)

var sentinels = map[Kind]error{
	InvalidArgument:   ErrInvalidArgument,
	InvalidAPIKey:     ErrInvalidAPIKey,
	NonExistentIndex:  ErrNonExistentIndex,
	IndexInitializing: ErrIndexInitializing,
	Unexpected:        ErrUnexpected,
}

// An Error is the terminal failure of a document API call.
type Error struct {
	// Kind classifies the failure. It is never Success.
	Kind Kind

	// StatusCode is the HTTP status code of the final attempt, or zero
	// if the final attempt ended without an HTTP response.
	StatusCode int

	// Body is the response body of the final attempt, if any. For
	// InvalidArgument it describes what was wrong with the request.
	Body []byte

	// Attempts is the number of physical request attempts made. It is
	// zero when the call was rejected before any request was sent.
	Attempts int

	// Err is the underlying transport or context error, if any.
	Err error
}

// New returns an *Error for a failure detected before any request was
// sent, for example an invalid argument supplied by the caller.
func New(k Kind, detail string) *Error {
	return &Error{Kind: k, Body: []byte(detail)}
}

// Error returns a human readable description of the failure.
func (err *Error) Error() string {
	var b strings.Builder
	b.WriteString("indextank: ")
	b.WriteString(err.Kind.String())
	if err.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", err.StatusCode)
	}
	if err.Attempts > 1 {
		fmt.Fprintf(&b, " after %d attempts", err.Attempts)
	}
	if detail := strings.TrimSpace(string(err.Body)); detail != "" {
		b.WriteString(": ")
		b.WriteString(detail)
	}
	if err.Err != nil {
		b.WriteString(": ")
		b.WriteString(err.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying transport or context error, if any.
func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is the sentinel error for err's Kind.
func (err *Error) Is(target error) bool {
	s, ok := sentinels[err.Kind]
	return ok && s == target
}

// Retriable reports whether the failure kind is retriable. A returned
// Error which is Retriable has already exhausted the retry policy.
func (err *Error) Retriable() bool {
	return err.Kind.Retriable()
}
