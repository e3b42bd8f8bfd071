// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package config loads the settings of an indextank client and builds a
configured Client, and Documents, from them.

Settings are layered, lowest priority first: built-in defaults, an
optional YAML file, environment variables prefixed with INDEXTANK_, and
explicit overrides such as command line flags. In environment variable
names a double underscore separates nesting levels, so
INDEXTANK_RETRY__MAX_ATTEMPTS sets retry.max_attempts.

An example file:

	url: https://api.example.com/v1/indexes/books/docs
	api_key: s3cret
	timeout: 10s
	retry:
	  max_attempts: 5
	  step: 2s
	  backoff: linear
	rate:
	  limit: 20
	  burst: 5
	log:
	  level: debug
*/
package config
