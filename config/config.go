// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "INDEXTANK_"

// Backoff strategies accepted in retry.backoff.
const (
	BackoffLinear      = "linear"
	BackoffExponential = "exponential"
)

// Config holds the client settings.
type Config struct {
	// URL is the document endpoint of the index.
	URL string `koanf:"url" validate:"required,url"`
	// APIKey is sent as the basic auth password when set.
	APIKey string `koanf:"api_key"`
	// Timeout bounds each attempt. Zero means no attempt timeout.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
	Retry   Retry         `koanf:"retry"`
	Rate    Rate          `koanf:"rate"`
	// HTTP2 configures the transport with golang.org/x/net/http2.
	HTTP2 bool `koanf:"http2"`
	Log   Log  `koanf:"log"`
}

// Retry holds the retry settings.
type Retry struct {
	// MaxAttempts is the total number of attempts, including the
	// first.
	MaxAttempts int `koanf:"max_attempts" validate:"gte=1"`
	// Step is the linear backoff step, or the initial interval of the
	// exponential backoff.
	Step time.Duration `koanf:"step" validate:"gte=0"`
	// MaxWait caps the exponential backoff.
	MaxWait time.Duration `koanf:"max_wait" validate:"gte=0"`
	Backoff string        `koanf:"backoff" validate:"oneof=linear exponential"`
}

// Rate holds the client side rate limit. A zero Limit disables it.
type Rate struct {
	Limit float64 `koanf:"limit" validate:"gte=0"`
	Burst int     `koanf:"burst" validate:"gte=1"`
}

// Log holds the logger settings.
type Log struct {
	Level string `koanf:"level" validate:"oneof=trace debug info warn error off"`
	JSON  bool   `koanf:"json"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"timeout":            "30s",
		"retry.max_attempts": 5,
		"retry.step":         "2s",
		"retry.max_wait":     "30s",
		"retry.backoff":      BackoffLinear,
		"rate.limit":         0,
		"rate.burst":         1,
		"http2":              false,
		"log.level":          "info",
		"log.json":           false,
	}
}

// Load loads the configuration from, in increasing priority, the
// defaults, the YAML file at path (skipped if path is empty), the
// INDEXTANK_ environment variables, and overrides, whose keys use the
// dotted koanf form such as "retry.max_attempts". The result is
// validated.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("config: loading overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps INDEXTANK_RETRY__MAX_ATTEMPTS to retry.max_attempts.
func envKey(k, v string) (string, interface{}) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	return strings.ReplaceAll(k, "__", "."), v
}
