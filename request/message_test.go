// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequest_RequestTarget(t *testing.T) {
	testCases := []struct {
		name   string
		req    Request
		target string
	}{
		{
			name:   "no params",
			req:    Request{Target: "/ping"},
			target: "/ping",
		},
		{
			name:   "empty params map",
			req:    Request{Target: "/ping", Params: map[string]string{}},
			target: "/ping",
		},
		{
			name:   "one param",
			req:    Request{Target: "/search", Params: map[string]string{"q": "go"}},
			target: "/search?q=go",
		},
		{
			name:   "sorted keys",
			req:    Request{Target: "/s", Params: map[string]string{"b": "2", "a": "1", "c": "3"}},
			target: "/s?a=1&b=2&c=3",
		},
		{
			name:   "no encoding",
			req:    Request{Target: "/s", Params: map[string]string{"q": "a b&c"}},
			target: "/s?q=a b&c",
		},
		{
			name:   "empty value",
			req:    Request{Target: "/s", Params: map[string]string{"flag": ""}},
			target: "/s?flag=",
		},
		{
			name:   "empty target",
			req:    Request{Params: map[string]string{"x": "y"}},
			target: "?x=y",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			target := testCase.req.RequestTarget()
			assert.Equal(t, testCase.target, target)
			assert.False(t, strings.HasSuffix(target, "&"))
			assert.Equal(t, len(testCase.req.Params) > 0, strings.Contains(target, "?"))
		})
	}
}

func TestResponse_StatusCode(t *testing.T) {
	assert.Equal(t, 200, (&Response{}).StatusCode())
	assert.Equal(t, 404, (&Response{Status: 404}).StatusCode())
	assert.Equal(t, 201, (&Response{Status: 201, Body: []byte("x")}).StatusCode())
}
