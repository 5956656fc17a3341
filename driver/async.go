// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package driver

import (
	"context"
	"time"
)

// AsyncQuerier is the cooperative-suspending twin of Querier: the same
// method set, but every call is a suspension point whose
// cancellation must leave the database in a consistent state — either
// before BEGIN or after COMMIT/ROLLBACK of the current unit.
//
// Go has no native async/await; the idiomatic equivalent is realized
// here by running the blocking Querier call on its own goroutine and
// observing completion through a context-cancelable channel, which is
// what "suspension point" means operationally for a goroutine-based
// runtime.
type AsyncQuerier interface {
	Execute(ctx context.Context, stmts []string) error
	QueryHistory(ctx context.Context, table string) ([]HistoryRow, error)
	InsertHistory(ctx context.Context, table string, row HistoryRow) error
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	AssertHistoryTable(ctx context.Context, table string) error
	Lock(ctx context.Context, name string, timeout time.Duration) (UnlockFunc, error)
	SupportsDDLTransactions() bool
	LockDialect() LockDialect
}

// Async adapts any blocking Querier into the cooperative-suspending
// AsyncQuerier: one blocking implementation per dialect, and one
// adapter that gives it a suspending contract.
func Async(q Querier) AsyncQuerier { return &asyncAdapter{q: q} }

type asyncAdapter struct{ q Querier }

// run executes fn on a dedicated goroutine and waits for either fn to
// finish or ctx to be cancelled first. If ctx is cancelled while fn is
// still running, run returns ctx.Err() immediately but fn continues to
// completion in the background — the caller (executor) is responsible
// for issuing a Rollback on the same Querier once it observes
// cancellation.
func run(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *asyncAdapter) Execute(ctx context.Context, stmts []string) error {
	return run(ctx, func() error { return a.q.Execute(ctx, stmts) })
}

func (a *asyncAdapter) QueryHistory(ctx context.Context, table string) ([]HistoryRow, error) {
	var rows []HistoryRow
	err := run(ctx, func() (err error) {
		rows, err = a.q.QueryHistory(ctx, table)
		return err
	})
	return rows, err
}

func (a *asyncAdapter) InsertHistory(ctx context.Context, table string, row HistoryRow) error {
	return run(ctx, func() error { return a.q.InsertHistory(ctx, table, row) })
}

func (a *asyncAdapter) Begin(ctx context.Context) error {
	return run(ctx, func() error { return a.q.Begin(ctx) })
}

func (a *asyncAdapter) Commit(ctx context.Context) error {
	return run(ctx, func() error { return a.q.Commit(ctx) })
}

func (a *asyncAdapter) Rollback(ctx context.Context) error {
	return run(ctx, func() error { return a.q.Rollback(ctx) })
}

func (a *asyncAdapter) AssertHistoryTable(ctx context.Context, table string) error {
	return run(ctx, func() error { return a.q.AssertHistoryTable(ctx, table) })
}

func (a *asyncAdapter) Lock(ctx context.Context, name string, timeout time.Duration) (UnlockFunc, error) {
	var unlock UnlockFunc
	err := run(ctx, func() (err error) {
		unlock, err = a.q.Lock(ctx, name, timeout)
		return err
	})
	return unlock, err
}

func (a *asyncAdapter) SupportsDDLTransactions() bool { return a.q.SupportsDDLTransactions() }
func (a *asyncAdapter) LockDialect() LockDialect      { return a.q.LockDialect() }
