// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package indextank

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

const docsPath = "/v1/indexes/books/docs"

// Transports an indexServer can listen on.
var transports = []string{"http", "https", "http2"}

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
	Password    string
}

// A reply scripts one response of an indexServer.
type reply struct {
	Status int
	Body   string
	// Location is sent as the Location header, if set.
	Location string
	// HeaderPause delays the status line.
	HeaderPause time.Duration
	// BytePause, if set, makes the body trickle out one flushed byte
	// at a time with this pause after each byte.
	BytePause time.Duration
}

// indexServer stands in for the document endpoint of an index. It
// answers the i-th request with replies[i], repeating the last reply
// once the script runs out, and records every request it receives.
type indexServer struct {
	*httptest.Server
	mu       sync.Mutex
	replies  []reply
	requests []recordedRequest
}

func newIndexServer(t *testing.T, transport string, replies ...reply) *indexServer {
	if len(replies) == 0 {
		t.Fatal("index server needs at least one reply")
	}
	s := &indexServer{replies: replies}
	s.Server = httptest.NewUnstartedServer(http.HandlerFunc(s.handle))
	switch transport {
	case "http":
		s.Start()
	case "https":
		s.StartTLS()
	case "http2":
		s.EnableHTTP2 = true
		s.StartTLS()
	default:
		t.Fatalf("unknown transport %q", transport)
	}
	t.Cleanup(s.Close)
	return s
}

// newScriptedServer starts a plain HTTP index server answering with
// statuses in order, each carrying body.
func newScriptedServer(t *testing.T, body string, statuses ...int) *indexServer {
	replies := make([]reply, len(statuses))
	for i, status := range statuses {
		replies[i] = reply{Status: status, Body: body}
	}
	return newIndexServer(t, "http", replies...)
}

func (s *indexServer) handle(w http.ResponseWriter, req *http.Request) {
	b, _ := io.ReadAll(req.Body)
	_, password, _ := req.BasicAuth()
	s.mu.Lock()
	i := len(s.requests)
	s.requests = append(s.requests, recordedRequest{
		Method:      req.Method,
		Path:        req.URL.Path,
		ContentType: req.Header.Get("Content-Type"),
		Body:        string(b),
		Password:    password,
	})
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	r := s.replies[i]
	s.mu.Unlock()

	if r.Location != "" {
		w.Header().Set("Location", r.Location)
	}
	noBody := r.Status == http.StatusNoContent || r.Body == ""
	if !noBody {
		w.Header().Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	if !pause(req.Context(), r.HeaderPause) {
		return
	}
	w.WriteHeader(r.Status)
	if noBody {
		return
	}
	if r.BytePause <= 0 {
		_, _ = io.WriteString(w, r.Body)
		return
	}

	f, _ := w.(http.Flusher)
	if f != nil {
		f.Flush()
	}
	for j := 0; j < len(r.Body); j++ {
		if _, err := io.WriteString(w, r.Body[j:j+1]); err != nil {
			return
		}
		if f != nil {
			f.Flush()
		}
		if !pause(req.Context(), r.BytePause) {
			return
		}
	}
}

func (s *indexServer) recorded() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

// pause sleeps for d, returning false early if the client goes away.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
