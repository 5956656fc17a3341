// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Report is the result of a run: the Migrations actually committed,
// alongside the diagnostics collected along the way and the error
// that stopped the run, if any.
type Report struct {
	// RunID identifies this run, for correlating CLI/CI output with
	// structured logs.
	RunID string `json:"runId"`

	Applied     []Migration  `json:"applied"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Err         error        `json:"-"`

	// ErrorMessage mirrors Err as a plain string for JSON consumers,
	// since the error interface does not marshal on its own.
	ErrorMessage string `json:"error,omitempty"`
}

// NewReport starts a Report with a fresh RunID.
func NewReport() *Report {
	return &Report{RunID: uuid.NewString()}
}

// Success reports whether the run completed without error. A Report
// can have a non-empty Applied slice even when Success is false: the
// per-migration transactional mode commits units up to the failure
// point.
func (r *Report) Success() bool { return r.Err == nil }

// MarshalJSON renders the Report with Err's text copied into
// ErrorMessage, so JSON output carries the failure without trying to
// marshal the error interface directly.
func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	out := *r
	if out.Err != nil {
		out.ErrorMessage = out.Err.Error()
	}
	return json.Marshal((*alias)(&out))
}
