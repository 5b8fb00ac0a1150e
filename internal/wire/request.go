// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/foxtrot75/httpsync/request"
	"golang.org/x/net/http/httpguts"
)

// reserved lists the canonical names of fields that the transport owns
// on an outgoing request. Caller fields with these names are dropped.
var reserved = map[string]bool{
	"Host":              true,
	"User-Agent":        true,
	"Content-Length":    true,
	"Transfer-Encoding": true,
}

// NewRequest builds the HTTP/1.1 request a client sends for r.
//
// The request target is r.RequestTarget() sent byte for byte. The Host
// field is set to host and the User-Agent field to agent; caller fields
// are copied with their names in the case supplied, except those that
// collide with an implicit field. The body is copied, and Content-Length
// framing is left to net/http.
func NewRequest(method, host, agent string, r request.Request) (*http.Request, error) {
	if host == "" || !httpguts.ValidHostHeader(host) {
		return nil, fmt.Errorf("wire: invalid host %q", host)
	}

	target := r.RequestTarget()
	if target == "" {
		target = "/"
	}
	if strings.ContainsAny(target, " \r\n") {
		return nil, fmt.Errorf("wire: invalid request target %q", target)
	}

	hdr := make(http.Header, len(r.Fields)+1)
	hdr["User-Agent"] = []string{agent}
	for k, v := range r.Fields {
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, fmt.Errorf("wire: invalid header field name %q", k)
		}
		if !httpguts.ValidHeaderFieldValue(v) {
			return nil, fmt.Errorf("wire: invalid header field value for %q", k)
		}
		if reserved[textproto.CanonicalMIMEHeaderKey(k)] {
			continue
		}
		hdr[k] = []string{v}
	}

	req := &http.Request{
		Method:     method,
		URL:        &url.URL{Opaque: target},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     hdr,
		Host:       host,
		Close:      true,
	}

	if len(r.Body) > 0 {
		body := make([]byte, len(r.Body))
		copy(body, r.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	return req, nil
}

// ReadResponse reads one response to req from br, including its whole
// body.
func ReadResponse(br *bufio.Reader, req *http.Request) (*http.Response, []byte, error) {
	resp, err := http.ReadResponse(br, req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	return resp, body, nil
}

// ReadRequest reads one request from br, including its whole body, and
// decodes it into the message model handed to a server callback.
//
// Field names are lower-cased; when a field repeats, its last value
// wins. The host field, which net/http lifts out of the header map, is
// restored. Params holds the first value of each query parameter and
// Target is the raw request target, query string included.
func ReadRequest(br *bufio.Reader) (request.Request, *http.Request, error) {
	req, err := http.ReadRequest(br)
	if err != nil {
		return request.Request{}, nil, err
	}
	defer req.Body.Close()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return request.Request{}, nil, err
	}

	return Decode(req, body), req, nil
}

// Decode converts a parsed request and its body into the message model.
func Decode(req *http.Request, body []byte) request.Request {
	r := request.Request{
		Method: req.Method,
		Target: req.RequestURI,
		Fields: make(map[string]string, len(req.Header)+1),
		Body:   body,
	}

	for k, vv := range req.Header {
		if len(vv) > 0 {
			r.Fields[strings.ToLower(k)] = vv[len(vv)-1]
		}
	}
	if req.Host != "" {
		r.Fields["host"] = req.Host
	}

	if req.URL != nil && req.URL.RawQuery != "" {
		q, _ := url.ParseQuery(req.URL.RawQuery)
		r.Params = make(map[string]string, len(q))
		for k, vv := range q {
			if len(vv) > 0 {
				r.Params[k] = vv[0]
			}
		}
	}

	return r
}
