// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package httpsync

// SO_REUSEADDR lets a second listener steal the port on Windows, so it
// is left unset there.
func setReuseAddr(_ uintptr) error {
	return nil
}
