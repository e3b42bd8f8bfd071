// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their configuration key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cfg and returns every problem found, combined into a
// *multierror.Error, or nil if cfg is usable.
func Validate(cfg *Config) error {
	var result *multierror.Error

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, fe := range verrs {
			result = multierror.Append(result, fieldError(fe))
		}
	}

	if cfg.Retry.Backoff == BackoffExponential {
		if cfg.Retry.Step <= 0 {
			result = multierror.Append(result,
				errors.New("config: retry.step must be positive for exponential backoff"))
		} else if cfg.Retry.MaxWait < cfg.Retry.Step {
			result = multierror.Append(result,
				fmt.Errorf("config: retry.max_wait (%s) must be at least retry.step (%s)",
					cfg.Retry.MaxWait, cfg.Retry.Step))
		}
	}

	return result.ErrorOrNil()
}

func fieldError(fe validator.FieldError) error {
	key := fe.Namespace()
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	if fe.Param() != "" {
		return fmt.Errorf("config: %s: failed %s=%s (got %v)", key, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("config: %s: failed %s (got %v)", key, fe.Tag(), fe.Value())
}
