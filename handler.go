// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package indextank

import (
	"github.com/gogama/indextank/request"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a Client.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("indextank: nil handler")
	}
	if evt < 0 || int(evt) >= numEvents {
		panic("indextank: invalid event")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	i := int(evt)
	if i < len(g.handlers) {
		for _, h := range g.handlers[i] {
			h.Handle(evt, e)
		}
	}
}

// A Handler handles the occurrence of an event during a request plan
// execution.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}

// RequestIDHeader is the header set by RequestIDHandler.
const RequestIDHeader = "X-Request-Id"

// RequestIDHandler returns a BeforeAttempt handler which sets the
// X-Request-Id header of every attempt to the execution ID, so that
// all attempts of one call can be correlated in the index service's
// logs.
func RequestIDHandler() Handler {
	return HandlerFunc(func(evt Event, e *request.Execution) {
		if evt != BeforeAttempt || e.Request == nil {
			return
		}
		e.Request.Header = e.Request.Header.Clone()
		e.Request.Header.Set(RequestIDHeader, e.ID)
	})
}
