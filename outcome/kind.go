// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package outcome

import "strconv"

// A Kind identifies the class of result produced by a request attempt.
type Kind int

const (
	// Success indicates the service accepted the request (HTTP 200 or
	// 204).
	Success Kind = iota
	// InvalidArgument indicates the service rejected the request shape
	// (HTTP 400). The response body carries the detail.
	InvalidArgument
	// InvalidAPIKey indicates the service rejected the credentials
	// (HTTP 401).
	InvalidAPIKey
	// NonExistentIndex indicates the target index does not exist (HTTP
	// 404).
	NonExistentIndex
	// IndexInitializing indicates the index exists but is not ready to
	// accept requests yet (HTTP 409). Callers may retry at a higher
	// level.
	IndexInitializing
	// Unexpected covers any other status code and any transport level
	// failure. It is the only retriable kind.
	Unexpected
)

var kindNames = []string{
	"Success",
	"InvalidArgument",
	"InvalidAPIKey",
	"NonExistentIndex",
	"IndexInitializing",
	"Unexpected",
}

// Classify maps an HTTP status code to a Kind.
func Classify(statusCode int) Kind {
	switch statusCode {
	case 200, 204:
		return Success
	case 400:
		return InvalidArgument
	case 401:
		return InvalidAPIKey
	case 404:
		return NonExistentIndex
	case 409:
		return IndexInitializing
	default:
		return Unexpected
	}
}

// Retriable reports whether an attempt ending with this kind may be
// retried.
func (k Kind) Retriable() bool {
	return k == Unexpected
}

// Permanent reports whether the kind is a deterministic rejection
// which will not resolve by retrying the same request.
func (k Kind) Permanent() bool {
	return k != Success && k != Unexpected
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}
