// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Kind distinguishes the two migration authoring styles.
type Kind int

const (
	// Versioned migrations are applied in strict, contiguous order.
	Versioned Kind = iota
	// Unversioned migrations may be added out of order and never
	// trigger a Missing diagnostic.
	Unversioned
)

// rank orders Kind values for MigrationSet sorting: Versioned < Unversioned.
func (k Kind) rank() int {
	if k == Unversioned {
		return 1
	}
	return 0
}

func (k Kind) String() string {
	if k == Unversioned {
		return "Unversioned"
	}
	return "Versioned"
}

// prefix returns the filename-grammar letter for the Kind.
func (k Kind) prefix() byte {
	if k == Unversioned {
		return 'U'
	}
	return 'V'
}

// filenamePattern implements the canonical migration filename grammar:
// ^([VU])(\d+)__([A-Za-z0-9_]+)\.(sql|<ext>)$
var filenamePattern = regexp.MustCompile(`^([VU])(\d+)__([A-Za-z0-9_]+)\.([A-Za-z0-9]+)$`)

// Migration is the atomic unit of schema change.
type Migration struct {
	Version  int64  `json:"version"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	SQL      string `json:"-"`
	Checksum uint64 `json:"checksum"`

	// AppliedOn is set only for migrations loaded from history; it is
	// the zero Time for authored-but-unapplied migrations.
	AppliedOn time.Time `json:"appliedOn,omitempty"`
}

// Applied reports whether this Migration carries an applied_on
// timestamp, i.e. it originated from a history load rather than
// discovery.
func (m Migration) Applied() bool {
	return !m.AppliedOn.IsZero()
}

// Filename renders the canonical filename for this migration, with the
// given file extension (without the leading dot).
func (m Migration) Filename(ext string) string {
	return fmt.Sprintf("%c%d__%s.%s", m.Kind.prefix(), m.Version, m.Name, ext)
}

// ParseFilename extracts (kind, version, name) from a filename matching
// the canonical grammar, and computes the Migration's Checksum from the
// given SQL content. width bounds the accepted integer range for the
// parsed version; a version that overflows width is an error.
//
// ParseFilename returns a *Error with KindMalformedFilename if the name
// does not match the grammar; discovery treats that as a non-fatal
// warning and skips the file, never as a run-aborting error.
func ParseFilename(name, sql string, width Width) (Migration, error) {
	groups := filenamePattern.FindStringSubmatch(name)
	if groups == nil {
		return Migration{}, &Error{Kind: KindMalformedFilename, Name: name}
	}
	version, err := strconv.ParseInt(groups[2], 10, 64)
	if err != nil || version > width.Max() {
		return Migration{}, &Error{Kind: KindMalformedFilename, Name: name, Err: fmt.Errorf("version overflow: %s", groups[2])}
	}
	kind := Versioned
	if groups[1] == "U" {
		kind = Unversioned
	}
	m := Migration{
		Version: version,
		Name:    groups[3],
		Kind:    kind,
		SQL:     sql,
	}
	m.Checksum = Checksum(m.Version, m.Name, m.SQL)
	return m, nil
}
