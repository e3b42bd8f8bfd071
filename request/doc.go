// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (describes one logical call
to the document API) and Execution (describes the state of a Plan
execution, including its attempt counter).

A Plan is built once per call and never shared between calls. Its body
is encoded up front, so every retry of the call sends exactly the same
bytes and no per-attempt state (such as the attempt counter) can leak
into the payload:

	p, err := request.NewJSONPlan(ctx, "PUT", indexURL, payload)
	...
	e, err := client.Do(p)
	...

The plan context controls the whole call: cancelling it aborts both an
in-flight attempt and any backoff sleep between attempts. Deadlines on
the plan context are separate from the per-attempt deadlines dictated by
the client's timeout.Policy.

An Execution is handed to retry and timeout policies and to event
handlers while the call is in progress, and is returned to the caller
once it ends. You will typically not allocate Execution instances
yourself.
*/
package request
