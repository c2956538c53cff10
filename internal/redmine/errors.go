/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package redmine

import "fmt"

// OptionsError reports invalid connection options. It is only ever returned
// from NewServer: a constructed Server never fails configuration checks at
// call time.
type OptionsError struct {
	Reason string
}

func (e *OptionsError) Error() string { return "redmine: " + e.Reason }

// TransportError wraps a network-level failure (connection refused, reset,
// timeout). Server-side status codes are not transport errors; responses are
// decoded regardless of status.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("redmine: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
