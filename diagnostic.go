// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

// Diagnostic is a non-fatal finding surfaced alongside a successful
// discovery or plan: a malformed filename skipped during discovery, or
// a divergent/missing migration that policy chose to warn about rather
// than abort on.
type Diagnostic struct {
	Kind    ErrorKind `json:"kind"`
	Version int64     `json:"version,omitempty"`
	Name    string    `json:"name,omitempty"`
	Message string    `json:"message,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Message != "" {
		return d.Message
	}
	return (&Error{Kind: d.Kind, Version: d.Version, Name: d.Name}).Error()
}
