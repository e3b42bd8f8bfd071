// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package indextank provides a client for the IndexTank document API with
retry support, within a small and familiar interface.

Create a Document to begin making requests.

	doc, err := indextank.NewDocument(nil, "https://example.com/v1/indexes/books/docs", "book-17")
	...
	status, err := doc.Add(ctx, map[string]string{"text": "Moby Dick"}, nil)
	...
	status, err = doc.UpdateVariables(ctx, map[int]float64{0: 4.5})
	...
	status, err = doc.Delete(ctx)

Every operation is executed by a Client, which sends the request and
retries attempts that fail with an unexpected status code or a
transport error. By default a call makes up to 5 attempts, waiting 2, 4,
6 and 8 seconds between them. Status codes 400, 401, 404 and 409 are
never retried. Failures are returned as *outcome.Error values:

	if errors.Is(err, outcome.ErrNonExistentIndex) {
		...
	}

Cancelling the context passed to an operation aborts it, including
while it is waiting to retry.

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer. For example, use a GoLang standard
HTTP client:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client := &indextank.Client{
		HTTPDoer: doer,
	}

For control over the client's retry decisions and timing, create a
custom retry policy using components from package retry:

	retryWaiter := retry.NewExpWaiter(250*time.Millisecond, 5*time.Second)
	retryPolicy := retry.NewPolicy(retry.DefaultDecider, retryWaiter)
	client := &indextank.Client{
		RetryPolicy: retryPolicy,
	}

To see what the client is doing, give it an hclog logger:

	client := &indextank.Client{
		Logger: hclog.New(&hclog.LoggerOptions{Name: "indextank"}),
	}

To hook into the fine-grained details of the client's request execution
logic, install a handler into the appropriate handler chain:

	handlers := &indextank.HandlerGroup{}
	handlers.PushBack(indextank.BeforeAttempt, indextank.RequestIDHandler())
	client := &indextank.Client{
		Handlers: handlers,
	}

Package config builds a fully configured Client from a YAML file and
environment variables.
*/
package indextank
