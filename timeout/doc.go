// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout provides policies for the timeout of each individual
// document API request attempt. The overall call can additionally be
// bounded by a deadline on the context passed to the Document methods.
package timeout
