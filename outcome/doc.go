// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package outcome classifies the result of a document API call.
//
// Classify maps an HTTP status code onto a Kind without performing any
// I/O, so retry policies and callers can share a single definition of
// which responses are successful, which are permanent rejections, and
// which are worth retrying:
//
//	200, 204 => Success
//	400      => InvalidArgument
//	401      => InvalidAPIKey
//	404      => NonExistentIndex
//	409      => IndexInitializing
//	other    => Unexpected (the only retriable kind)
//
// Failures are reported as *Error values, which can be matched against
// the sentinel errors in this package using errors.Is.
package outcome
