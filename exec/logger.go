// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package exec

import (
	"fmt"

	"github.com/go-refinery/refinery"
)

// LogEntry is implemented by every event the Executor emits.
type LogEntry interface {
	logEntry()
}

// LogExecuting reports that a migration's SQL is about to run.
type LogExecuting struct {
	Migration refinery.Migration
}

// LogApplied reports that a migration committed, fake or not.
type LogApplied struct {
	Migration refinery.Migration
	Fake      bool
}

// LogError reports that applying a migration failed.
type LogError struct {
	Migration refinery.Migration
	Err       error
}

func (LogExecuting) logEntry() {}
func (LogApplied) logEntry()   {}
func (LogError) logEntry()     {}

// Logger receives LogEntry values as the Executor runs.
type Logger interface {
	Log(LogEntry)
}

// NopLogger discards every entry; the Executor's default.
type NopLogger struct{}

func (NopLogger) Log(LogEntry) {}

// Printer is a Logger that writes one line per entry, useful for
// simple CLI output without pulling in a structured logging
// dependency.
type Printer struct {
	Print func(string)
}

func (p Printer) Log(e LogEntry) {
	if p.Print == nil {
		return
	}
	switch v := e.(type) {
	case LogExecuting:
		p.Print(fmt.Sprintf("applying %s", v.Migration.Filename("sql")))
	case LogApplied:
		if v.Fake {
			p.Print(fmt.Sprintf("faked %s", v.Migration.Filename("sql")))
		} else {
			p.Print(fmt.Sprintf("applied %s", v.Migration.Filename("sql")))
		}
	case LogError:
		p.Print(fmt.Sprintf("failed %s: %v", v.Migration.Filename("sql"), v.Err))
	}
}
