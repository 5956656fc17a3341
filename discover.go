// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import "errors"

// Discover builds a MigrationSet from every file a Source yields.
// Files whose name does not match the filename grammar are skipped
// with a Diagnostic: a malformed name is a warning, not a failure.
// Two files that resolve to the same (kind, version) pair is fatal.
func Discover(src Source, width Width) (MigrationSet, []Diagnostic, error) {
	raw, err := src.Load()
	if err != nil {
		return nil, nil, err
	}
	var (
		migrations []Migration
		diags      []Diagnostic
	)
	for _, f := range raw {
		m, err := ParseFilename(f.Name, string(f.Data), width)
		if err != nil {
			var e *Error
			if errors.As(err, &e) && e.Kind == KindMalformedFilename {
				diags = append(diags, Diagnostic{Kind: KindMalformedFilename, Name: f.Name})
				continue
			}
			return nil, diags, err
		}
		migrations = append(migrations, m)
	}
	set, err := NewMigrationSet(migrations)
	if err != nil {
		return nil, diags, err
	}
	return set, diags, nil
}
