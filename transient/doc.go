// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies the transport errors which end a
// document API request attempt without an HTTP response.
//
// Any failure to speak HTTP with the index service is treated as
// transient, so that the retry policy gets a chance to recover from it.
// The only exception is cancellation by the caller, which is never
// retried. The finer categories (Timeout, ConnRefused, ConnReset) are
// useful for logging and for adapting attempt timeouts.
package transient
