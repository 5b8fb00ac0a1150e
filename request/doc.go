// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the value types shared by the httpsync clients
and servers: Request and Response (the message model), Phase and
PhaseError (the steps of a client call and their failures), and
Exchange (the state of one client call).

Request describes both an outgoing request built by a caller and an
incoming request decoded by a server session:

	r := request.Request{
		Target: "/search",
		Params: map[string]string{"q": "go", "n": "10"},
		Fields: map[string]string{"Accept": "application/json"},
	}
	r.RequestTarget() // "/search?n=10&q=go"

Response is what a server callback returns:

	func(r request.Request) request.Response {
		return request.Response{Status: 200, Body: []byte(r.Target)}
	}

Exchange is handed to timeout policies and event handlers while a client
call runs. You will typically not allocate Exchange instances yourself,
but will instead work with the ones handed out by the client.
*/
package request
