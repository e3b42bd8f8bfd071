// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"github.com/gogama/indextank"
	"github.com/gogama/indextank/retry"
	"github.com/gogama/indextank/timeout"
)

// RetryPolicy returns a policy allowing Retry.MaxAttempts attempts of
// retriable failures, waiting according to Retry.Backoff.
func (cfg *Config) RetryPolicy() retry.Policy {
	decider := retry.MaxAttempts(cfg.Retry.MaxAttempts).And(retry.Retriable)
	var waiter retry.Waiter
	if cfg.Retry.Backoff == BackoffExponential {
		waiter = retry.NewExpWaiter(cfg.Retry.Step, cfg.Retry.MaxWait)
	} else {
		waiter = retry.NewLinearWaiter(cfg.Retry.Step)
	}
	return retry.NewPolicy(decider, waiter)
}

// TimeoutPolicy returns the attempt timeout policy.
func (cfg *Config) TimeoutPolicy() timeout.Policy {
	if cfg.Timeout == 0 {
		return timeout.Infinite
	}
	return timeout.Fixed(cfg.Timeout)
}

// Limiter returns the client side rate limiter, or nil if rate
// limiting is off.
func (cfg *Config) Limiter() *rate.Limiter {
	if cfg.Rate.Limit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.Rate.Limit), cfg.Rate.Burst)
}

// HTTPClient returns the HTTP client used to send attempts. Timeouts
// are left to the timeout policy, and redirects are never followed.
func (cfg *Config) HTTPClient() (*http.Client, error) {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, fmt.Errorf("config: configuring http2: %w", err)
		}
	}
	return &http.Client{
		Transport:     t,
		CheckRedirect: indextank.NoRedirect,
	}, nil
}

// Logger returns a logger named name writing to w.
func (cfg *Config) Logger(name string, w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(cfg.Log.Level),
		Output:     w,
		JSONFormat: cfg.Log.JSON,
	})
}

// Client returns a Client wired with every component configured in
// cfg, logging through logger.
func (cfg *Config) Client(logger hclog.Logger) (*indextank.Client, error) {
	hc, err := cfg.HTTPClient()
	if err != nil {
		return nil, err
	}
	return &indextank.Client{
		HTTPDoer:      hc,
		RetryPolicy:   cfg.RetryPolicy(),
		TimeoutPolicy: cfg.TimeoutPolicy(),
		Limiter:       cfg.Limiter(),
		Logger:        logger,
	}, nil
}

// Document returns a reference to docid at the configured URL,
// authenticated with the configured API key.
func (cfg *Config) Document(d indextank.Doer, docid string) (*indextank.Document, error) {
	doc, err := indextank.NewDocument(d, cfg.URL, docid)
	if err != nil {
		return nil, err
	}
	if cfg.APIKey != "" {
		doc = doc.WithAPIKey(cfg.APIKey)
	}
	return doc, nil
}
