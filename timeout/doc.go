// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for setting the deadline applied to
// each phase of an httpsync client call. A generic interface for
// timeout policies is provided, Policy, along with a few policy
// generating functions and built-in policies.
package timeout
