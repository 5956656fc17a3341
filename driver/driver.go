// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package driver defines the capability interfaces the planner and
// executor demand of a database connection, in both a blocking and a
// cooperative-suspending realization.
package driver

import (
	"context"
	"database/sql"
	"time"
)

// UnlockFunc releases an advisory lock acquired via Querier.Lock.
type UnlockFunc func() error

// LockDialect names the backend-native advisory lock primitive a
// Querier uses, for diagnostics and documentation purposes.
type LockDialect string

const (
	LockDialectNone     LockDialect = "none"
	LockDialectPostgres LockDialect = "pg_advisory_lock"
	LockDialectMySQL    LockDialect = "GET_LOCK"
	LockDialectMSSQL    LockDialect = "sp_getapplock"
	LockDialectSQLite   LockDialect = "flock"
)

// Querier is the blocking capability set a dialect adapter implements.
// It composes the standard sql.DB-shaped execution surface with
// transaction control, idempotent history-table creation, and an
// advisory lock.
type Querier interface {
	// Execute runs a batch of statements in order, within whatever
	// transaction is currently open (or none).
	Execute(ctx context.Context, stmts []string) error
	// QueryHistory returns every row of the history table, ordered by
	// version ascending.
	QueryHistory(ctx context.Context, table string) ([]HistoryRow, error)
	// InsertHistory appends one row to the history table.
	InsertHistory(ctx context.Context, table string, row HistoryRow) error

	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// AssertHistoryTable idempotently creates the history table if
	// it is absent.
	AssertHistoryTable(ctx context.Context, table string) error

	// Lock acquires a named advisory lock. A zero timeout means
	// "try lock": return immediately if already held. A negative
	// timeout means no timeout. A backend without native lock support
	// degrades to a best-effort implementation.
	Lock(ctx context.Context, name string, timeout time.Duration) (UnlockFunc, error)

	SupportsDDLTransactions() bool
	LockDialect() LockDialect
}

// HistoryRow is the driver-layer shape of a history.Record: plain
// strings/ints so dialect adapters don't need to import the core
// migration types (avoids an import cycle between driver and the
// refinery root package; history.Store converts to/from its own
// richer Record type).
type HistoryRow struct {
	Version   int64
	Name      string
	AppliedOn string // ISO-8601 UTC, "YYYY-MM-DDTHH:MM:SS"
	Checksum  string // unsigned decimal digits of the 64-bit checksum
}

// DB is the minimal surface SQLQuerier needs; *sql.DB and *sql.Tx both
// satisfy it, which is how SQLQuerier lets one implementation serve
// both the "no transaction open yet" and "inside a transaction" cases.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
