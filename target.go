// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import "fmt"

// TargetMode selects which Target variant is in effect.
type TargetMode int

const (
	// TargetLatest applies every eligible migration.
	TargetLatest TargetMode = iota
	// TargetVersion applies migrations up to and including a version.
	TargetVersion
	// TargetFake records every eligible migration in history without
	// executing its SQL.
	TargetFake
	// TargetFakeVersion is TargetFake truncated to a version.
	TargetFakeVersion
)

// Target bounds the subset of eligible migrations a Plan includes, and
// whether the Executor actually runs their SQL or only records them.
type Target struct {
	Mode    TargetMode
	Version int64 // meaningful for TargetVersion and TargetFakeVersion
}

// Latest returns the Target that applies everything.
func Latest() Target { return Target{Mode: TargetLatest} }

// Version returns the Target that applies up to and including v.
func Version(v int64) Target { return Target{Mode: TargetVersion, Version: v} }

// Fake returns the Target that records every eligible migration
// without executing it.
func Fake() Target { return Target{Mode: TargetFake} }

// FakeVersion is Fake truncated to v.
func FakeVersion(v int64) Target { return Target{Mode: TargetFakeVersion, Version: v} }

// IsFake reports whether the Target instructs the Executor to skip
// running migration SQL and only record history.
func (t Target) IsFake() bool {
	return t.Mode == TargetFake || t.Mode == TargetFakeVersion
}

// Bounded reports whether the Target truncates by version, and the
// bound if so.
func (t Target) Bounded() (v int64, ok bool) {
	switch t.Mode {
	case TargetVersion, TargetFakeVersion:
		return t.Version, true
	default:
		return 0, false
	}
}

func (t Target) String() string {
	switch t.Mode {
	case TargetLatest:
		return "Latest"
	case TargetVersion:
		return fmt.Sprintf("Version(%d)", t.Version)
	case TargetFake:
		return "Fake"
	case TargetFakeVersion:
		return fmt.Sprintf("FakeVersion(%d)", t.Version)
	default:
		return "Unknown"
	}
}
