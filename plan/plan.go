// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package plan implements the migration planner: combining the
// authored MigrationSet with the applied History, validating the
// combined set against the integrity policy, and producing the
// Migrations that must still be applied, truncated by Target.
package plan

import (
	"github.com/go-refinery/refinery"
	"github.com/go-refinery/refinery/history"
)

// Plan is the ordered subset of authored migrations still to apply,
// plus the non-fatal diagnostics collected while building it.
type Plan struct {
	Migrations  []refinery.Migration
	Diagnostics []refinery.Diagnostic
}

// Build runs the planner algorithm over the authored set and the
// applied history, returning a fatal *refinery.Error if the policy in
// cfg is violated, or the resulting Plan otherwise.
func Build(authored refinery.MigrationSet, applied []history.Record, cfg refinery.Config) (*Plan, error) {
	byVersion := make(map[int64]history.Record, len(applied))
	for _, r := range applied {
		byVersion[r.Version] = r
	}

	var (
		diags     []refinery.Diagnostic
		highWater int64 = -1
	)
	// First pass over Versioned migrations: establish the high-water
	// mark of applied versions, check divergence.
	for _, m := range authored.Versioned() {
		r, ok := byVersion[m.Version]
		if !ok {
			continue
		}
		if r.Version > highWater {
			highWater = r.Version
		}
		if divergent(r, m) {
			d := refinery.Diagnostic{Kind: refinery.KindDivergent, Version: m.Version, Name: m.Name}
			if cfg.AbortDivergent {
				return nil, &refinery.Error{Kind: refinery.KindDivergent, Version: m.Version, Name: m.Name}
			}
			diags = append(diags, d)
		}
	}

	// Unversioned migrations: divergence applies to both kinds, but an
	// unapplied Unversioned migration never counts as Missing.
	for _, m := range authored.Unversioned() {
		r, ok := byVersion[m.Version]
		if !ok {
			continue
		}
		if divergent(r, m) {
			d := refinery.Diagnostic{Kind: refinery.KindDivergent, Version: m.Version, Name: m.Name}
			if cfg.AbortDivergent {
				return nil, &refinery.Error{Kind: refinery.KindDivergent, Version: m.Version, Name: m.Name}
			}
			diags = append(diags, d)
		}
	}

	// Second pass: detect Missing among authored Versioned migrations
	// not yet applied.
	for _, m := range authored.Versioned() {
		if _, ok := byVersion[m.Version]; ok {
			continue
		}
		if m.Version < highWater {
			d := refinery.Diagnostic{Kind: refinery.KindMissing, Version: m.Version, Name: m.Name}
			if cfg.AbortMissing {
				return nil, &refinery.Error{Kind: refinery.KindMissing, Version: m.Version, Name: m.Name}
			}
			diags = append(diags, d)
		}
	}

	// Construct the Plan: the subsequence of authored whose version is
	// not in history, preserving MigrationSet ordering, then truncated
	// by Target.
	bound, bounded := cfg.Target.Bounded()
	var eligible []refinery.Migration
	for _, m := range authored {
		if _, ok := byVersion[m.Version]; ok {
			continue // Fake over an already-applied migration is a no-op.
		}
		if bounded && m.Version > bound {
			continue
		}
		eligible = append(eligible, m)
	}

	return &Plan{Migrations: eligible, Diagnostics: diags}, nil
}

// divergent reports whether an applied record no longer matches its
// authored counterpart by checksum or name.
func divergent(r history.Record, m refinery.Migration) bool {
	return r.Checksum != m.Checksum || r.Name != m.Name
}
