// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"bufio"
	"strings"
	"testing"

	"github.com/foxtrot75/httpsync/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpRequest(t *testing.T) {
	body := []byte("abc")
	req, err := NewRequest("POST", "h", "a/1", request.Request{Target: "/x", Body: body})
	require.NoError(t, err)

	s := DumpRequest(req, body, 10)
	assert.True(t, strings.HasPrefix(s, "POST /x HTTP/1.1\r\nHost: h\r\n"), s)
	assert.Contains(t, s, "User-Agent: a/1\r\n")
	assert.True(t, strings.HasSuffix(s, "\r\n\r\nabc"), s)

	s = DumpRequest(req, body, 3)
	assert.Contains(t, s, "[body elided: ")
	assert.NotContains(t, s, "abc")
}

func TestDumpResponse(t *testing.T) {
	req, err := NewRequest("GET", "h", "a", request.Request{Target: "/"})
	require.NoError(t, err)
	br := bufio.NewReader(strings.NewReader("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"))
	resp, body, err := ReadResponse(br, req)
	require.NoError(t, err)

	s := DumpResponse(resp, body, 2048)
	assert.True(t, strings.HasPrefix(s, "HTTP/1.1 200 OK\r\n"), s)
	assert.True(t, strings.HasSuffix(s, "hello"), s)

	s = DumpResponse(resp, body, 5)
	assert.Contains(t, s, "[body elided: ")
}

func TestDumpEncoded(t *testing.T) {
	enc, err := EncodeResponse(request.Response{}, "a/1")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nUser-Agent: a/1\r\n\r\n", DumpEncoded(enc, 1024))

	enc, err = EncodeResponse(request.Response{Body: []byte(strings.Repeat("x", 1024))}, "a/1")
	require.NoError(t, err)
	s := DumpEncoded(enc, 1024)
	assert.Contains(t, s, "Content-Length: 1024\r\n")
	assert.Contains(t, s, "[body elided: ")
}
