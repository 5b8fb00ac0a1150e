// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies transport errors seen by the httpsync
// clients and servers. The server's acceptor uses it to decide whether
// an accept error is worth re-arming after, and the TLS client uses it
// to recognize a peer that closed without a TLS close-notify.
//
// Package transient is extremely lightweight, as it depends only on
// the standard library packages "errors", "io" and "syscall", so it
// doesn't bring any significant dependencies when imported as a
// standalone package.
package transient
