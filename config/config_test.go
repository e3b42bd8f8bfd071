// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://api.example.com/v1/indexes/books/docs"

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "indextank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("", map[string]interface{}{"url": testURL})
		require.NoError(t, err)
		assert.Equal(t, testURL, cfg.URL)
		assert.Empty(t, cfg.APIKey)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, 5, cfg.Retry.MaxAttempts)
		assert.Equal(t, 2*time.Second, cfg.Retry.Step)
		assert.Equal(t, 30*time.Second, cfg.Retry.MaxWait)
		assert.Equal(t, BackoffLinear, cfg.Retry.Backoff)
		assert.Equal(t, float64(0), cfg.Rate.Limit)
		assert.Equal(t, 1, cfg.Rate.Burst)
		assert.False(t, cfg.HTTP2)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.JSON)
	})
	t.Run("missing url", func(t *testing.T) {
		cfg, err := Load("", nil)
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config: url: failed required")
	})
	t.Run("file", func(t *testing.T) {
		path := writeFile(t, `
url: `+testURL+`
api_key: s3cret
timeout: 10s
http2: true
retry:
  max_attempts: 3
  step: 1s
  backoff: exponential
rate:
  limit: 2.5
  burst: 4
log:
  level: debug
  json: true
`)
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", cfg.APIKey)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.True(t, cfg.HTTP2)
		assert.Equal(t, 3, cfg.Retry.MaxAttempts)
		assert.Equal(t, time.Second, cfg.Retry.Step)
		assert.Equal(t, BackoffExponential, cfg.Retry.Backoff)
		assert.Equal(t, 2.5, cfg.Rate.Limit)
		assert.Equal(t, 4, cfg.Rate.Burst)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.JSON)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config: loading")
	})
	t.Run("environment beats file", func(t *testing.T) {
		path := writeFile(t, "url: "+testURL+"\nretry:\n  max_attempts: 3\n")
		t.Setenv("INDEXTANK_RETRY__MAX_ATTEMPTS", "7")
		t.Setenv("INDEXTANK_API_KEY", "from-env")
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Retry.MaxAttempts)
		assert.Equal(t, "from-env", cfg.APIKey)
	})
	t.Run("overrides beat environment", func(t *testing.T) {
		t.Setenv("INDEXTANK_URL", "https://env.example.com/docs")
		cfg, err := Load("", map[string]interface{}{"url": testURL})
		require.NoError(t, err)
		assert.Equal(t, testURL, cfg.URL)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			URL:     testURL,
			Timeout: time.Second,
			Retry:   Retry{MaxAttempts: 5, Step: 2 * time.Second, MaxWait: 30 * time.Second, Backoff: BackoffLinear},
			Rate:    Rate{Burst: 1},
			Log:     Log{Level: "info"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(valid()))
	})
	t.Run("all problems reported", func(t *testing.T) {
		cfg := valid()
		cfg.URL = "not a url"
		cfg.Retry.MaxAttempts = 0
		cfg.Retry.Backoff = "fibonacci"
		cfg.Log.Level = "loud"
		err := Validate(cfg)
		require.Error(t, err)
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 4)
		assert.Contains(t, err.Error(), "config: url: failed url")
		assert.Contains(t, err.Error(), "config: retry.max_attempts: failed gte=1 (got 0)")
		assert.Contains(t, err.Error(), "config: retry.backoff: failed oneof=linear exponential")
		assert.Contains(t, err.Error(), "config: log.level")
	})
	t.Run("exponential without step", func(t *testing.T) {
		cfg := valid()
		cfg.Retry.Backoff = BackoffExponential
		cfg.Retry.Step = 0
		assert.ErrorContains(t, Validate(cfg), "retry.step must be positive")
	})
	t.Run("exponential max below step", func(t *testing.T) {
		cfg := valid()
		cfg.Retry.Backoff = BackoffExponential
		cfg.Retry.MaxWait = time.Second
		assert.ErrorContains(t, Validate(cfg), "retry.max_wait (1s) must be at least retry.step (2s)")
	})
}
