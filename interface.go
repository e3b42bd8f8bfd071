// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package indextank

import (
	"context"
	"net/http"

	"github.com/gogama/indextank/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do executes a request plan and returns the final execution state
// (and error, if any). Client implements the Doer interface, and any
// other Doer implementation must behave substantially the same as
// Client.Do; in particular it must return a non-nil Execution.
type Doer interface {
	Do(p *request.Plan) (*request.Execution, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
type IdleCloser interface {
	CloseIdleConnections()
}

// PutJSON uses the specified Doer to issue a PUT of the JSON encoding
// of body to the specified URL.
func PutJSON(ctx context.Context, d Doer, url string, body interface{}) (*request.Execution, error) {
	return doJSON(ctx, d, http.MethodPut, url, body)
}

// DeleteJSON uses the specified Doer to issue a DELETE, carrying the
// JSON encoding of body, to the specified URL.
func DeleteJSON(ctx context.Context, d Doer, url string, body interface{}) (*request.Execution, error) {
	return doJSON(ctx, d, http.MethodDelete, url, body)
}

func doJSON(ctx context.Context, d Doer, method, url string, body interface{}) (*request.Execution, error) {
	p, err := request.NewJSONPlan(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	return d.Do(p)
}
