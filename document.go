// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package indextank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gogama/indextank/outcome"
	"github.com/gogama/indextank/request"
)

// MaxDocIDLen is the maximum length, in bytes of UTF-8, of a docid.
const MaxDocIDLen = 1024

// A Document is a reference to one document within a remote index. It
// holds the document endpoint URL and the docid, and carries no other
// state, so one Document may be shared by many goroutines.
type Document struct {
	url    *url.URL
	docID  string
	apiKey string
	doer   Doer
}

// AddOptions carries the optional parts of an add request.
type AddOptions struct {
	// Variables sets the document's scoring variables, keyed by
	// variable index.
	Variables map[int]float64
	// Categories sets the document's faceting categories.
	Categories map[string]string
	// Extra holds further top level members of the add request body,
	// for index features the fields above do not cover. The docid and
	// fields members, and variables or categories when set above,
	// always take precedence over a member of the same name in Extra.
	Extra map[string]interface{}
}

type addPayload struct {
	DocID      string             `json:"docid"`
	Fields     map[string]string  `json:"fields"`
	Variables  map[string]float64 `json:"variables,omitempty"`
	Categories map[string]string  `json:"categories,omitempty"`
}

// withExtra flattens p into a generic body, layered over extra.
func (p addPayload) withExtra(extra map[string]interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(extra)+4)
	for k, v := range extra {
		m[k] = v
	}
	m["docid"] = p.DocID
	m["fields"] = p.Fields
	if len(p.Variables) > 0 {
		m["variables"] = p.Variables
	}
	if len(p.Categories) > 0 {
		m["categories"] = p.Categories
	}
	return m
}

type deletePayload struct {
	DocID string `json:"docid"`
}

type variablesPayload struct {
	DocID     string             `json:"docid"`
	Variables map[string]float64 `json:"variables"`
}

type categoriesPayload struct {
	DocID      string            `json:"docid"`
	Categories map[string]string `json:"categories"`
}

// NewDocument returns a reference to the document docid reachable at
// the document endpoint indexURL. All requests are executed by d; if d
// is nil, a zero value Client is used.
//
// If indexURL is not an absolute URL, or docid is longer than
// MaxDocIDLen bytes, the returned error is an *outcome.Error of kind
// InvalidArgument and no request is ever made.
func NewDocument(d Doer, indexURL, docid string) (*Document, error) {
	if len(docid) > MaxDocIDLen {
		return nil, outcome.New(outcome.InvalidArgument,
			fmt.Sprintf("docid too long. max is %d bytes and got %d", MaxDocIDLen, len(docid)))
	}
	u, err := url.Parse(indexURL)
	if err != nil {
		return nil, &outcome.Error{Kind: outcome.InvalidArgument, Err: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, outcome.New(outcome.InvalidArgument,
			fmt.Sprintf("document url must be absolute: %q", indexURL))
	}
	if d == nil {
		d = &Client{}
	}
	return &Document{url: u, docID: docid, doer: d}, nil
}

// DocID returns the document's docid.
func (d *Document) DocID() string {
	return d.docID
}

// URL returns a copy of the document endpoint URL.
func (d *Document) URL() *url.URL {
	u := *d.url
	return &u
}

// WithAPIKey returns a shallow copy of d which authenticates every
// request with key, sent as the basic auth password. An empty key
// disables authentication, in which case any credentials embedded in
// the document URL are used.
func (d *Document) WithAPIKey(key string) *Document {
	d2 := *d
	d2.apiKey = key
	return &d2
}

// Add indexes the document with the given fields, replacing any
// previous version of it.
//
// On success Add returns the HTTP status code (200 or 204) and a nil
// error. Otherwise the error is an *outcome.Error and the returned
// status code is that of the final attempt, or zero if there was none.
func (d *Document) Add(ctx context.Context, fields map[string]string, opts *AddOptions) (int, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	payload := addPayload{
		DocID:  d.docID,
		Fields: fields,
	}
	if opts == nil {
		return d.execute(ctx, http.MethodPut, "", payload)
	}
	payload.Variables = variableKeys(opts.Variables)
	payload.Categories = opts.Categories
	if len(opts.Extra) > 0 {
		return d.execute(ctx, http.MethodPut, "", payload.withExtra(opts.Extra))
	}
	return d.execute(ctx, http.MethodPut, "", payload)
}

// Delete removes the document from the index.
//
// Delete always reports the final classified outcome: a document which
// does not exist is not treated specially by the client.
func (d *Document) Delete(ctx context.Context) (int, error) {
	return d.execute(ctx, http.MethodDelete, "", deletePayload{DocID: d.docID})
}

// UpdateVariables replaces the values of the given scoring variables
// without reindexing the document's fields.
func (d *Document) UpdateVariables(ctx context.Context, vars map[int]float64) (int, error) {
	payload := variablesPayload{
		DocID:     d.docID,
		Variables: variableKeys(vars),
	}
	if payload.Variables == nil {
		payload.Variables = map[string]float64{}
	}
	return d.execute(ctx, http.MethodPut, "variables", payload)
}

// UpdateCategories replaces the values of the given categories without
// reindexing the document's fields.
func (d *Document) UpdateCategories(ctx context.Context, cats map[string]string) (int, error) {
	if cats == nil {
		cats = map[string]string{}
	}
	payload := categoriesPayload{
		DocID:      d.docID,
		Categories: cats,
	}
	return d.execute(ctx, http.MethodPut, "categories", payload)
}

func (d *Document) execute(ctx context.Context, method, path string, body interface{}) (int, error) {
	u := d.url
	if path != "" {
		u = u.JoinPath(path)
	}
	p, err := request.NewJSONPlan(ctx, method, u.String(), body)
	if err != nil {
		return 0, &outcome.Error{Kind: outcome.InvalidArgument, Err: err}
	}
	if d.apiKey != "" {
		p.SetBasicAuth("", d.apiKey)
	}
	e, err := d.doer.Do(p)
	if e == nil {
		// Only a non-conforming Doer gets here.
		if err == nil {
			err = errors.New("indextank: doer returned nil execution")
		}
		return 0, &outcome.Error{Kind: outcome.Unexpected, Err: err}
	}
	if f := e.Failure(); f != nil {
		return e.StatusCode(), f
	}
	return e.StatusCode(), nil
}

// variableKeys converts variable indices to the decimal string keys
// used on the wire.
func variableKeys(vars map[int]float64) map[string]float64 {
	if vars == nil {
		return nil
	}
	m := make(map[string]float64, len(vars))
	for i, v := range vars {
		m[strconv.Itoa(i)] = v
	}
	return m
}
