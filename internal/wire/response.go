// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"

	"github.com/foxtrot75/httpsync/request"
	"golang.org/x/net/http/httpguts"
)

// An Encoded holds a response serialized for the wire.
type Encoded struct {
	Head []byte
	Body []byte
}

// WriteTo writes the head and then the body to w.
func (enc Encoded) WriteTo(w io.Writer) (int64, error) {
	bufs := net.Buffers{enc.Head}
	if len(enc.Body) > 0 {
		bufs = append(bufs, enc.Body)
	}
	return bufs.WriteTo(w)
}

// EncodeResponse serializes a callback response as HTTP/1.1.
//
// The status line uses the standard reason phrase. A User-Agent field
// carrying agent comes first unless the callback supplies its own.
// Callback fields follow in sorted order, with names verbatim and line
// breaks in values replaced by spaces. Content-Length is emitted only
// when the body is non-empty, replacing any the callback supplied.
func EncodeResponse(resp request.Response, agent string) (Encoded, error) {
	status := resp.StatusCode()
	if status < 100 || status > 999 {
		return Encoded{}, fmt.Errorf("wire: invalid status code %d", status)
	}

	keys := make([]string, 0, len(resp.Fields))
	ownAgent := false
	for k := range resp.Fields {
		if !httpguts.ValidHeaderFieldName(k) {
			return Encoded{}, fmt.Errorf("wire: invalid header field name %q", k)
		}
		switch textproto.CanonicalMIMEHeaderKey(k) {
		case "Content-Length":
			if len(resp.Body) > 0 {
				continue
			}
		case "User-Agent":
			ownAgent = true
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b bytes.Buffer
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(status))
	b.WriteByte(' ')
	b.WriteString(reason(status))
	b.WriteString("\r\n")
	if !ownAgent {
		writeField(&b, "User-Agent", agent)
	}
	for _, k := range keys {
		writeField(&b, k, resp.Fields[k])
	}
	if len(resp.Body) > 0 {
		writeField(&b, "Content-Length", strconv.Itoa(len(resp.Body)))
	}
	b.WriteString("\r\n")

	return Encoded{Head: b.Bytes(), Body: resp.Body}, nil
}

func writeField(b *bytes.Buffer, name, value string) {
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(sanitizeValue(value))
	b.WriteString("\r\n")
}

var valueReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func sanitizeValue(v string) string {
	return strings.TrimSpace(valueReplacer.Replace(v))
}

func reason(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "status code " + strconv.Itoa(status)
}
