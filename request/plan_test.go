// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	for _, testCase := range newPlanTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			p, err := NewPlan(testCase.method, testCase.url, testCase.body())
			testCase.asserts(t, p, err)
			if p != nil {
				assert.Equal(t, context.Background(), p.Context())
			}
		})
	}
}

func TestNewPlanWithContext(t *testing.T) {
	type foo struct{}
	ctx := context.WithValue(context.Background(), foo{}, "bar")
	for _, testCase := range newPlanTestCases {
		t.Run(testCase.name+" with special context", func(t *testing.T) {
			p, err := NewPlanWithContext(ctx, testCase.method, testCase.url, testCase.body())
			testCase.asserts(t, p, err)
			if p != nil {
				assert.Same(t, ctx, p.Context())
			}
		})
		t.Run(testCase.name+" with nil context", func(t *testing.T) {
			p, err := NewPlanWithContext(nil, testCase.method, testCase.url, testCase.body())
			assert.Nil(t, p)
			assert.EqualError(t, err, nilCtxMsg)
		})
	}
}

var newPlanTestCases = []struct {
	name    string
	method  string
	url     string
	body    func() interface{}
	asserts func(*testing.T, *Plan, error)
}{
	{
		name:   "empty method means GET",
		method: "",
		url:    "https://api.example.com/v1/indexes/idx/docs",
		body:   func() interface{} { return nil },
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, "GET", p.Method)
			assert.Equal(t, "https://api.example.com/v1/indexes/idx/docs", p.URL.String())
			assert.Equal(t, "api.example.com", p.Host)
			assert.Nil(t, p.Body)
		},
	},
	{
		name:   "remove empty port",
		method: "DELETE",
		url:    "http://ham:/docs",
		body:   func() interface{} { return nil },
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, "ham", p.Host)
			assert.Equal(t, "ham", p.URL.Host)
		},
	},
	{
		name:   "body type string",
		method: "PUT",
		url:    "docs",
		body:   func() interface{} { return `{"docid":"a"}` },
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, []byte(`{"docid":"a"}`), p.Body)
		},
	},
	{
		name:   "body type []byte",
		method: "PUT",
		url:    "docs",
		body:   func() interface{} { return []byte{0x1, 0x2, 0x3} },
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, []byte{0x1, 0x2, 0x3}, p.Body)
		},
	},
	{
		name:   "body type io.Reader",
		method: "PUT",
		url:    "docs",
		body:   func() interface{} { return strings.NewReader("io.Reader") },
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, []byte("io.Reader"), p.Body)
		},
	},
	{
		name:   "error invalid method",
		method: "\tPUT",
		url:    "docs",
		body:   func() interface{} { return nil },
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.Nil(t, p)
			assert.EqualError(t, err, `indextank/request: invalid method "\tPUT"`)
		},
	},
	{
		name:   "error invalid URL",
		method: "PUT",
		url:    ":::",
		body:   func() interface{} { return nil },
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.Nil(t, p)
			assert.Error(t, err)
		},
	},
	{
		name:   "error invalid body type",
		method: "PUT",
		url:    "docs",
		body:   func() interface{} { return map[string]int{} },
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.Nil(t, p)
			assert.EqualError(t, err, badBodyTypeMsg)
		},
	},
}

func TestNewPlan_ReadCloser(t *testing.T) {
	t.Run("closed after read", func(t *testing.T) {
		rc := newMockReadCloser(t)
		rc.On("Read", mock.Anything).Return(0, io.EOF).Once()
		rc.On("Close").Return(nil).Once()
		p, err := NewPlan("PUT", "docs", rc)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Empty(t, p.Body)
		rc.AssertExpectations(t)
	})
	t.Run("read error", func(t *testing.T) {
		rc := newMockReadCloser(t)
		rc.On("Read", mock.Anything).Return(0, errors.New("read fail")).Once()
		rc.On("Close").Return(nil).Once()
		p, err := NewPlan("PUT", "docs", rc)
		assert.Nil(t, p)
		assert.EqualError(t, err, "read fail")
		rc.AssertExpectations(t)
	})
	t.Run("close error", func(t *testing.T) {
		rc := newMockReadCloser(t)
		rc.On("Read", mock.Anything).Return(0, io.EOF).Once()
		rc.On("Close").Return(errors.New("close fail")).Once()
		p, err := NewPlan("PUT", "docs", rc)
		assert.Nil(t, p)
		assert.EqualError(t, err, "close fail")
		rc.AssertExpectations(t)
	})
}

func TestNewJSONPlan(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		payload := map[string]interface{}{
			"docid":  "doc-1",
			"fields": map[string]string{"title": "x"},
		}
		p, err := NewJSONPlan(context.Background(), "PUT", "http://idx.example.com/docs", payload)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "PUT", p.Method)
		assert.Equal(t, ContentTypeJSON, p.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"docid":"doc-1","fields":{"title":"x"}}`, string(p.Body))
	})
	t.Run("body fixed at construction", func(t *testing.T) {
		payload := map[string]string{"docid": "before"}
		p, err := NewJSONPlan(context.Background(), "DELETE", "docs", payload)
		require.NoError(t, err)
		payload["docid"] = "after"
		assert.JSONEq(t, `{"docid":"before"}`, string(p.Body))
	})
	t.Run("encode error", func(t *testing.T) {
		p, err := NewJSONPlan(context.Background(), "PUT", "docs", make(chan int))
		assert.Nil(t, p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "indextank/request: encoding body")
	})
	t.Run("nil context", func(t *testing.T) {
		p, err := NewJSONPlan(nil, "PUT", "docs", struct{}{})
		assert.Nil(t, p)
		assert.EqualError(t, err, nilCtxMsg)
	})
}

func TestPlan_Context(t *testing.T) {
	t.Run("implicit context.Background", func(t *testing.T) {
		p := &Plan{}
		assert.Equal(t, context.Background(), p.Context())
	})
	t.Run("explicit custom context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q, err := NewPlanWithContext(ctx, "PUT", "http://idx.example.com/docs", "")
		require.NotNil(t, q)
		assert.NoError(t, err)
		assert.Same(t, ctx, q.Context())
	})
}

func TestPlan_SetBasicAuth(t *testing.T) {
	p, err := NewPlan("PUT", "http://idx.example.com", nil)
	require.NoError(t, err)
	r, err := http.NewRequest("PUT", "http://idx.example.com", nil)
	require.NoError(t, err)
	p.SetBasicAuth("", "")
	r.SetBasicAuth("", "")
	assert.Equal(t, "Basic Og==", p.Header.Get("Authorization"))
	assert.Equal(t, r.Header["Authorization"], p.Header["Authorization"])
	p.SetBasicAuth("", "s3cr3t")
	r.SetBasicAuth("", "s3cr3t")
	assert.Equal(t, r.Header["Authorization"], p.Header["Authorization"])
}

func TestPlan_ToRequest(t *testing.T) {
	t.Run("method and context", func(t *testing.T) {
		p, err := NewPlan("PUT", "test", "body")
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		r := p.ToRequest(ctx)
		require.NotNil(t, r)
		assert.Equal(t, "PUT", r.Method)
		assert.Same(t, ctx, r.Context())
		assert.Same(t, p.URL, r.URL)
	})
	t.Run("body empty", func(t *testing.T) {
		for _, body := range []interface{}{nil, "", []byte{}} {
			p, err := NewPlan("DELETE", "test", body)
			require.NoError(t, err)
			r := p.ToRequest(context.Background())
			assert.Nil(t, r.Body)
			assert.Nil(t, r.GetBody)
			assert.Equal(t, int64(0), r.ContentLength)
		}
	})
	t.Run("body replayable", func(t *testing.T) {
		p, err := NewPlan("DELETE", "test", `{"docid":"a"}`)
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			r := p.ToRequest(context.Background())
			assert.Equal(t, int64(13), r.ContentLength)
			b, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Equal(t, `{"docid":"a"}`, string(b))
			rc, err := r.GetBody()
			require.NoError(t, err)
			b, err = io.ReadAll(rc)
			assert.NoError(t, err)
			assert.Equal(t, `{"docid":"a"}`, string(b))
		}
	})
}

func TestPlan_WithContext(t *testing.T) {
	p, err := NewPlan("PUT", "test", "body")
	require.NoError(t, err)
	t.Run("nil context", func(t *testing.T) {
		assert.PanicsWithValue(t, nilCtxMsg, func() {
			p.WithContext(nil)
		})
	})
	t.Run("valid context", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, p)
		q := p.WithContext(ctx)
		assert.NotSame(t, p, q)
		assert.Equal(t, context.Background(), p.Context())
		assert.Same(t, ctx, q.Context())
		assert.Equal(t, p.Body, q.Body)
		assert.Same(t, p.URL, q.URL)
	})
}

type mockReadCloser struct {
	mock.Mock
}

func newMockReadCloser(t *testing.T) *mockReadCloser {
	m := &mockReadCloser{}
	m.Test(t)
	return m
}

func (m *mockReadCloser) Read(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *mockReadCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}
