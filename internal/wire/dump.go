// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jpillora/sizestr"
)

// DumpRequest renders req for diagnostic logging. The body is included
// only when it is shorter than limit bytes; otherwise its size is shown
// in its place.
func DumpRequest(req *http.Request, body []byte, limit int) string {
	var b strings.Builder
	target := req.RequestURI
	if target == "" && req.URL != nil {
		target = req.URL.RequestURI()
	}
	fmt.Fprintf(&b, "%s %s HTTP/%d.%d\r\n", req.Method, target, req.ProtoMajor, req.ProtoMinor)
	if req.Host != "" {
		fmt.Fprintf(&b, "Host: %s\r\n", req.Host)
	}
	_ = req.Header.Write(&b)
	b.WriteString("\r\n")
	dumpBody(&b, body, limit)
	return b.String()
}

// DumpResponse renders a received response for diagnostic logging, with
// the same body rule as DumpRequest.
func DumpResponse(resp *http.Response, body []byte, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/%d.%d %s\r\n", resp.ProtoMajor, resp.ProtoMinor, statusText(resp))
	_ = resp.Header.Write(&b)
	b.WriteString("\r\n")
	dumpBody(&b, body, limit)
	return b.String()
}

// DumpEncoded renders an encoded response for diagnostic logging, with
// the same body rule as DumpRequest.
func DumpEncoded(enc Encoded, limit int) string {
	var b strings.Builder
	b.Write(enc.Head)
	dumpBody(&b, enc.Body, limit)
	return b.String()
}

func dumpBody(b *strings.Builder, body []byte, limit int) {
	if len(body) == 0 {
		return
	}
	if len(body) < limit {
		b.Write(body)
		return
	}
	fmt.Fprintf(b, "[body elided: %s]", sizestr.ToString(int64(len(body))))
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
