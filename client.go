// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package indextank

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/gogama/indextank/request"
	"github.com/gogama/indextank/retry"
	"github.com/gogama/indextank/timeout"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}

var emptyHandlers = HandlerGroup{}

// defaultHTTPDoer is http.DefaultClient without redirect following.
// A redirect response is returned as-is and classified like any other
// unexpected status.
var defaultHTTPDoer = &http.Client{
	CheckRedirect: NoRedirect,
}

// NoRedirect is an http.Client CheckRedirect function which returns
// every redirect response to the caller instead of following it.
func NoRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// A Client executes document API request plans, retrying failed
// attempts according to its retry policy. Its zero value is a valid
// configuration.
//
// The zero value client uses an http.Client which does not follow
// redirects as the HTTPDoer,
// timeout.DefaultPolicy as the timeout policy, retry.DefaultPolicy as
// the retry policy, no rate limit, a null logger, and no event
// handlers.
//
// Client is safe for concurrent use by multiple goroutines. Each call
// to Do owns its own execution state, including its attempt counter,
// and no lock is held while a call waits between attempts.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, a client equivalent to http.DefaultClient
	// but with NoRedirect as its CheckRedirect function is used. A
	// custom HTTPDoer should not follow redirects either.
	HTTPDoer HTTPDoer
	// RetryPolicy decides when to retry failed attempts and how long
	// to wait after a failed attempt before retrying.
	//
	// If RetryPolicy is nil, retry.DefaultPolicy is used.
	RetryPolicy retry.Policy
	// TimeoutPolicy specifies the timeout of individual attempts.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Limiter, if set, is waited on before every attempt, including
	// retries, using the plan context.
	Limiter *rate.Limiter
	// Logger receives informational messages about attempts and
	// retries. Failures are always returned to the caller as well, so
	// nothing logged is authoritative.
	//
	// If Logger is nil, nothing is logged.
	Logger hclog.Logger
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during execution of a request plan.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
}

// Do executes a request plan and returns the final execution state,
// following the timeout and retry policies set on the Client.
//
// After each attempt the retry policy is consulted. With the default
// policy, an attempt whose status is 200 or 204 ends the call
// successfully; 400, 401, 404 and 409 end it immediately; any other
// status, and any transport error, is retried up to 5 attempts in
// total with a linearly growing wait.
//
// An error is returned only if the final attempt ended in a transport
// error, or if the plan context was cancelled or its deadline exceeded.
// A non-success status code in the final attempt does not result in an
// error from Do; use Execution.Failure to classify it. Any returned
// error is of type *url.Error, and the Err field of the returned
// Execution always references the same error.
//
// The returned Execution is never nil.
func (c *Client) Do(p *request.Plan) (*request.Execution, error) {
	e := request.Execution{
		Plan: p,
		ID:   uuid.NewString(),
	}

	doer := c.doer()

	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	retryPolicy := c.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retry.DefaultPolicy
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}

	logger := c.logger().With(
		"execution_id", e.ID,
		"method", p.Method,
		"url", p.URL.Redacted(),
	)

	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

RetryLoop:
	for {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(p.Context()); err != nil {
				e.Err = urlErrorWrap(p, err)
				break
			}
		}
		sendAndReceive(p, &e, doer, handlers, timeoutPolicy)
		if e.Timeout() {
			e.AttemptTimeouts++
			handlers.run(AfterAttemptTimeout, &e)
		}
		handlers.run(AfterAttempt, &e)
		logger.Debug("attempt finished", attemptArgs(&e)...)
		planCtxErr := p.Context().Err()
		if planCtxErr == context.DeadlineExceeded {
			handlers.run(AfterPlanTimeout, &e)
			break
		} else if planCtxErr != nil {
			e.Err = urlErrorWrap(p, planCtxErr)
			break
		} else if retryPolicy.Decide(&e) {
			e.Wait = retryPolicy.Wait(&e)
			logger.Warn("retrying document request", append(attemptArgs(&e), "wait", e.Wait)...)
			handlers.run(BeforeRetryWait, &e)
			timer := time.NewTimer(e.Wait)
			select {
			case <-timer.C:
			case <-p.Context().Done():
				timer.Stop()
				err := p.Context().Err()
				e.Err = urlErrorWrap(p, err)
				if err == context.DeadlineExceeded {
					handlers.run(AfterPlanTimeout, &e)
				}
				break RetryLoop
			}
			e.Response = nil
			e.Err = nil
			e.Body = nil
			e.Attempt++
		} else {
			break
		}
	}

	e.End = time.Now()
	logger.Debug("execution ended", append(attemptArgs(&e), "duration", e.Duration())...)
	handlers.run(AfterExecutionEnd, &e)
	return &e, e.Err
}

func sendAndReceive(p *request.Plan, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup, timeoutPolicy timeout.Policy) {
	ctx, cancel := context.WithTimeout(p.Context(), timeoutPolicy.Timeout(e))
	defer cancel()
	e.Request = p.ToRequest(ctx)
	handlers.run(BeforeAttempt, e)
	e.Sent++
	var err error
	e.Response, err = doer.Do(e.Request)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
	} else {
		readBody(p, e, handlers)
	}
}

func readBody(p *request.Plan, e *request.Execution, handlers *HandlerGroup) {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	handlers.run(BeforeReadBody, e)
	var err error
	e.Body, err = io.ReadAll(e.Response.Body)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
	}
}

func attemptArgs(e *request.Execution) []interface{} {
	args := []interface{}{
		"attempt", e.Attempts(),
		"outcome", e.Kind().String(),
	}
	if s := e.StatusCode(); s != 0 {
		args = append(args, "status", s)
	}
	if e.Err != nil {
		args = append(args, "error", e.Err)
	}
	return args
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer, if it has one.
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return defaultHTTPDoer
	}

	return c.HTTPDoer
}

func (c *Client) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}

	return c.Logger
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.Redacted(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
