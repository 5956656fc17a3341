// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import (
	"encoding/json"
	"fmt"
)

// ErrorKind classifies an Error into one of the taxonomy entries of
// the migration engine. ErrorKind values are comparable and are the
// basis for errors.Is matching via the Kind field comparison in Is.
type ErrorKind int

const (
	// KindMalformedFilename marks a migration file skipped during
	// discovery because its name does not match the filename grammar.
	// It is carried as a Diagnostic, never returned as a fatal Error.
	KindMalformedFilename ErrorKind = iota + 1
	// KindDuplicateVersion marks two authored migrations sharing the
	// same (kind, version) pair.
	KindDuplicateVersion
	// KindDivergent marks an applied migration whose checksum or name
	// no longer matches its authored counterpart.
	KindDivergent
	// KindMissing marks an authored Versioned migration whose version
	// is below the applied high-water mark yet remains unapplied.
	KindMissing
	// KindConnection marks a driver-level I/O failure.
	KindConnection
	// KindSQL marks a backend rejecting a statement during execution.
	KindSQL
	// KindLock marks a failure to acquire the cross-process advisory lock.
	KindLock
	// KindIntegrity marks a history table whose schema cannot be reconciled.
	KindIntegrity
	// KindPartialDDL marks a grouped run committed on a backend that
	// does not support DDL transactions: a mid-group failure may have
	// left the database in a state the backend could not roll back.
	KindPartialDDL
)

// String renders the ErrorKind as its documented taxonomy name.
func (k ErrorKind) String() string {
	switch k {
	case KindMalformedFilename:
		return "MalformedFilename"
	case KindDuplicateVersion:
		return "DuplicateVersion"
	case KindDivergent:
		return "Divergent"
	case KindMissing:
		return "Missing"
	case KindConnection:
		return "ConnectionError"
	case KindSQL:
		return "SqlError"
	case KindLock:
		return "LockError"
	case KindIntegrity:
		return "IntegrityError"
	case KindPartialDDL:
		return "PartialDDLWarning"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders the ErrorKind as its taxonomy name rather than
// its underlying integer, so JSON Report output stays readable.
func (k ErrorKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Error is the single error type raised across the engine. Every fatal
// condition is represented by an Error with the matching Kind, rather
// than as a distinct Go type per kind; callers distinguish cases with
// errors.As and a Kind comparison.
type Error struct {
	Kind    ErrorKind
	Version int64  // version involved, when applicable; zero otherwise
	Stmt    int    // statement index, for KindSQL
	Name    string // migration name, when applicable
	Err     error  // wrapped underlying cause, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDivergent, KindMissing:
		return fmt.Sprintf("refinery: %s: version %d", e.Kind, e.Version)
	case KindDuplicateVersion:
		return fmt.Sprintf("refinery: %s: version %d %q", e.Kind, e.Version, e.Name)
	case KindSQL:
		return fmt.Sprintf("refinery: %s: version %d statement %d: %v", e.Kind, e.Version, e.Stmt, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("refinery: %s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("refinery: %s", e.Kind)
	}
}

// Unwrap returns the wrapped cause, supporting errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, letting
// callers write errors.Is(err, &refinery.Error{Kind: refinery.KindDivergent}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
