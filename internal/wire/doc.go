// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package wire converts between the httpsync message model and HTTP/1.1
// on the wire.
//
// Outgoing client requests and incoming server requests are framed by
// net/http. Server responses are encoded here, since net/http always
// frames an empty response body with an explicit
// Content-Length: 0.
package wire
