// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides the policies deciding whether a failed
// document API attempt is retried, and how long to wait before
// retrying it.
//
// A Policy is composed of a Decider and a Waiter. DefaultPolicy allows
// up to 5 attempts in total, retries only Unexpected outcomes (see
// package outcome) and transport failures, and waits 2, 4, 6, then 8
// seconds between attempts:
//
//	policy := retry.NewPolicy(
//		retry.MaxAttempts(5).And(retry.Retriable),
//		retry.NewLinearWaiter(2*time.Second))
//
// Permanent rejections (HTTP 400, 401, 404 and 409) are never retried
// by Retriable, whatever the remaining attempt budget.
package retry
