// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpsync provides blocking HTTP and HTTPS clients and a small
HTTP server, all driven by one shared dispatch loop.

Create a Factory to begin. It owns the loop's worker goroutines and the
TLS trust store, and creates clients and servers:

	f := httpsync.NewFactory(nil)
	defer f.Close()

	client := f.Client("127.0.0.1", 8080)
	body, ok := client.Get(request.Request{
		Target: "/search",
		Params: map[string]string{"q": "go"},
	})
	if !ok {
		log.Print(client.Err())
	}

Every call opens a new connection and closes it once the response has
been read. Each phase of the call (resolving, connecting, handshaking,
writing, reading) gets its own fresh deadline:

	client.SetTimeout(2 * time.Second)

or, for finer control, a policy from package timeout:

	client.SetTimeoutPolicy(timeout.PerPhase(time.Second,
		map[request.Phase]time.Duration{request.Reading: 30 * time.Second}))

A TLSClient verifies its peer against the system trust store plus any
certificate authority added to the Factory:

	if !f.AddCertificate(caPEM) {
		log.Fatal("no certificate in PEM data")
	}
	secure := f.TLSClient("example.com", 443)

A Server answers one request per connection with its callback. Header
field names are lower case by the time the callback sees them:

	srv := f.Server("0.0.0.0", 7500)
	srv.SetCallback(func(r request.Request) request.Response {
		return request.Response{Body: []byte(r.Fields["user-agent"])}
	})
	if !srv.Run() {
		log.Fatal(srv.Err())
	}

To hook into the phases of client calls, install handlers in the
Factory's Config:

	handlers := &httpsync.HandlerGroup{}
	handlers.PushBack(httpsync.AfterPhase, httpsync.HandlerFunc(
		func(_ httpsync.Event, e *request.Exchange) {
			log.Printf("%s %s after %s: %v", e.Method, e.Phase, e.Duration(), e.Err)
		}))
	f := httpsync.NewFactory(&httpsync.Config{Handlers: handlers})

Diagnostics, including message dumps at debug level, go to the
Config's Logger:

	f := httpsync.NewFactory(&httpsync.Config{
		Logger: httpsync.NewZerologLogger(zerolog.New(os.Stderr)),
	})

Handlers and server callbacks run on the dispatch loop. They must never
call Get or Post on a client of the same Factory, since the loop would
then wait on itself.
*/
package httpsync
