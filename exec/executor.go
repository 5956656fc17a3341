// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package exec implements the migration executor: applying a Plan
// under a transactional discipline, updating the history store, and
// emitting a Report.
package exec

import (
	"context"
	"fmt"
	"time"

	"github.com/go-refinery/refinery"
	"github.com/go-refinery/refinery/driver"
	"github.com/go-refinery/refinery/history"
	"github.com/go-refinery/refinery/plan"
)

// Executor applies a Plan against a driver.Querier, per-migration or
// grouped, honoring Fake mode and the cross-process advisory lock.
type Executor struct {
	Q      driver.Querier
	Store  *history.Store
	Logger Logger
	Now    func() time.Time
}

// New returns an Executor reading/writing history through store and
// executing SQL through q. If logger is nil, a NopLogger is used.
func New(q driver.Querier, store *history.Store, logger Logger) *Executor {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Executor{Q: q, Store: store, Logger: logger, Now: time.Now}
}

// Run executes p.Migrations under the transactional mode cfg selects,
// acquiring the cross-process advisory lock first so concurrent
// runners serialize, and returns a Report describing what committed.
func (e *Executor) Run(ctx context.Context, p *plan.Plan, cfg refinery.Config) *refinery.Report {
	report := newReport(p.Diagnostics)

	unlock, err := e.Q.Lock(ctx, "refinery_migrate", 0)
	if err != nil {
		report.Err = &refinery.Error{Kind: refinery.KindLock, Err: err}
		return report
	}
	defer func() { _ = unlock() }()

	if err := e.Store.EnsureTable(ctx); err != nil {
		report.Err = &refinery.Error{Kind: refinery.KindIntegrity, Err: err}
		return report
	}

	fake := cfg.Target.IsFake()
	if cfg.Grouped {
		e.runGrouped(ctx, p, fake, report)
	} else {
		e.runPerMigration(ctx, p, fake, report)
	}
	return report
}

// runPerMigration applies one BEGIN/COMMIT per migration. On any
// failure it rolls back the current unit and aborts, leaving prior
// commits in the report.
func (e *Executor) runPerMigration(ctx context.Context, p *plan.Plan, fake bool, report *refinery.Report) {
	for _, m := range p.Migrations {
		if err := e.Q.Begin(ctx); err != nil {
			report.Err = &refinery.Error{Kind: refinery.KindConnection, Version: m.Version, Name: m.Name, Err: err}
			return
		}
		if err := e.applyOne(ctx, m, fake); err != nil {
			_ = e.Q.Rollback(ctx)
			e.Logger.Log(LogError{Migration: m, Err: err})
			report.Err = err
			return
		}
		if err := e.Q.Commit(ctx); err != nil {
			e.Logger.Log(LogError{Migration: m, Err: err})
			report.Err = &refinery.Error{Kind: refinery.KindConnection, Version: m.Version, Name: m.Name, Err: err}
			return
		}
		e.Logger.Log(LogApplied{Migration: m, Fake: fake})
		report.Applied = append(report.Applied, m)
	}
}

// runGrouped applies the whole plan in a single transaction. On any
// failure the whole plan rolls back and the report carries no applied
// migrations.
func (e *Executor) runGrouped(ctx context.Context, p *plan.Plan, fake bool, report *refinery.Report) {
	if len(p.Migrations) == 0 {
		return
	}
	if err := e.Q.Begin(ctx); err != nil {
		report.Err = &refinery.Error{Kind: refinery.KindConnection, Err: err}
		return
	}
	var applied []refinery.Migration
	for _, m := range p.Migrations {
		if err := e.applyOne(ctx, m, fake); err != nil {
			_ = e.Q.Rollback(ctx)
			e.Logger.Log(LogError{Migration: m, Err: err})
			report.Err = err
			return
		}
		applied = append(applied, m)
	}
	if !e.Q.SupportsDDLTransactions() {
		// The executor still issues BEGIN/COMMIT but a partial failure
		// mid-group may leave the database in an intermediate state the
		// backend cannot undo.
		report.Diagnostics = append(report.Diagnostics, refinery.Diagnostic{Kind: refinery.KindPartialDDL})
	}
	if err := e.Q.Commit(ctx); err != nil {
		report.Err = &refinery.Error{Kind: refinery.KindConnection, Err: err}
		return
	}
	for _, m := range applied {
		e.Logger.Log(LogApplied{Migration: m, Fake: fake})
	}
	report.Applied = applied
}

// applyOne executes (unless fake) a single migration's SQL and inserts
// its history row, both within whatever transaction the caller opened.
func (e *Executor) applyOne(ctx context.Context, m refinery.Migration, fake bool) error {
	if !fake {
		e.Logger.Log(LogExecuting{Migration: m})
		// Execute one statement per call, both because database/sql does
		// not guarantee multi-statement strings work across backends and
		// because it lets a failure report which statement in the batch
		// actually failed.
		stmts := refinery.SplitStatements(m.SQL)
		for i, stmt := range stmts {
			if err := e.Q.Execute(ctx, []string{stmt}); err != nil {
				return &refinery.Error{Kind: refinery.KindSQL, Version: m.Version, Name: m.Name, Stmt: i, Err: err}
			}
		}
	}
	record := history.Record{
		Version:   m.Version,
		Name:      m.Name,
		AppliedOn: e.now(),
		Checksum:  m.Checksum,
	}
	if err := e.Store.InsertApplied(ctx, record); err != nil {
		return &refinery.Error{Kind: refinery.KindConnection, Version: m.Version, Name: m.Name, Err: fmt.Errorf("insert history: %w", err)}
	}
	return nil
}

func (e *Executor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func newReport(diags []refinery.Diagnostic) *refinery.Report {
	r := refinery.NewReport()
	r.Diagnostics = append(r.Diagnostics, diags...)
	return r
}
