// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package driver

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect supplies the SQL text that differs between backends: the
// history-table DDL and the placeholder style for parameterized
// queries.
type Dialect interface {
	// CreateTableSQL returns the idempotent CREATE TABLE statement for
	// the history table named table.
	CreateTableSQL(table string) string
	// Placeholder returns the parameter placeholder for the i'th
	// (1-based) argument of a query, e.g. "$1", "?", "@p1".
	Placeholder(i int) string
}

// SQLQuerier is the database/sql-backed implementation of the history
// table operations plus transaction control, shared by every dialect
// adapter in this module. Each operation is safe to invoke inside a
// transaction; SQLQuerier itself only exposes the SQL fragments and
// leaves transaction boundaries to the caller. Concrete dialect
// packages embed SQLQuerier and add Lock/SupportsDDLTransactions/
// LockDialect.
type SQLQuerier struct {
	db      *sql.DB
	tx      *sql.Tx
	dialect Dialect
}

// NewSQLQuerier wraps db using dialect's SQL fragments.
func NewSQLQuerier(db *sql.DB, dialect Dialect) *SQLQuerier {
	return &SQLQuerier{db: db, dialect: dialect}
}

// conn returns the active transaction if one is open, else the pool.
func (q *SQLQuerier) conn() DB {
	if q.tx != nil {
		return q.tx
	}
	return q.db
}

// DB exposes the underlying pool for dialect adapters that need it
// (e.g. to open a dedicated connection for an advisory lock).
func (q *SQLQuerier) DB() *sql.DB { return q.db }

func (q *SQLQuerier) Begin(ctx context.Context) error {
	if q.tx != nil {
		return fmt.Errorf("refinery/driver: transaction already open")
	}
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	q.tx = tx
	return nil
}

func (q *SQLQuerier) Commit(ctx context.Context) error {
	if q.tx == nil {
		return nil
	}
	err := q.tx.Commit()
	q.tx = nil
	return err
}

func (q *SQLQuerier) Rollback(ctx context.Context) error {
	if q.tx == nil {
		return nil
	}
	err := q.tx.Rollback()
	q.tx = nil
	return err
}

func (q *SQLQuerier) Execute(ctx context.Context, stmts []string) error {
	for _, s := range stmts {
		if _, err := q.conn().ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (q *SQLQuerier) AssertHistoryTable(ctx context.Context, table string) error {
	_, err := q.conn().ExecContext(ctx, q.dialect.CreateTableSQL(table))
	return err
}

func (q *SQLQuerier) QueryHistory(ctx context.Context, table string) ([]HistoryRow, error) {
	query := fmt.Sprintf("SELECT version, name, applied_on, checksum FROM %s ORDER BY version", table)
	rows, err := q.conn().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []HistoryRow
	for rows.Next() {
		var r HistoryRow
		if err := rows.Scan(&r.Version, &r.Name, &r.AppliedOn, &r.Checksum); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *SQLQuerier) InsertHistory(ctx context.Context, table string, row HistoryRow) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (version, name, applied_on, checksum) VALUES (%s, %s, %s, %s)",
		table, q.dialect.Placeholder(1), q.dialect.Placeholder(2), q.dialect.Placeholder(3), q.dialect.Placeholder(4),
	)
	_, err := q.conn().ExecContext(ctx, query, row.Version, row.Name, row.AppliedOn, row.Checksum)
	return err
}
