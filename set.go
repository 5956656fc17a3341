// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import "sort"

// MigrationSet is an ordered sequence of Migrations maintaining a
// total deterministic order by (kind rank, version) with Versioned
// before Unversioned, and no two entries sharing the same (kind,
// version).
type MigrationSet []Migration

// NewMigrationSet sorts migrations into canonical order and validates
// the uniqueness invariant, returning a *Error with
// KindDuplicateVersion for the first repeat found.
func NewMigrationSet(migrations []Migration) (MigrationSet, error) {
	set := make(MigrationSet, len(migrations))
	copy(set, migrations)
	sort.SliceStable(set, func(i, j int) bool {
		if set[i].Kind.rank() != set[j].Kind.rank() {
			return set[i].Kind.rank() < set[j].Kind.rank()
		}
		return set[i].Version < set[j].Version
	})
	seen := make(map[[2]int64]bool, len(set))
	for _, m := range set {
		key := [2]int64{int64(m.Kind.rank()), m.Version}
		if seen[key] {
			return nil, &Error{Kind: KindDuplicateVersion, Version: m.Version, Name: m.Name}
		}
		seen[key] = true
	}
	return set, nil
}

// Versioned returns the Versioned-only subsequence, in ascending order.
func (s MigrationSet) Versioned() MigrationSet {
	return s.filter(Versioned)
}

// Unversioned returns the Unversioned-only subsequence, in ascending order.
func (s MigrationSet) Unversioned() MigrationSet {
	return s.filter(Unversioned)
}

func (s MigrationSet) filter(k Kind) MigrationSet {
	var out MigrationSet
	for _, m := range s {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

// ByVersion indexes the set by (kind, version).
func (s MigrationSet) ByVersion() map[[2]int64]Migration {
	idx := make(map[[2]int64]Migration, len(s))
	for _, m := range s {
		idx[[2]int64{int64(m.Kind.rank()), m.Version}] = m
	}
	return idx
}
