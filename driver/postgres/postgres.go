// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package postgres adapts refinery's driver.Querier to PostgreSQL via
// lib/pq. Its advisory lock uses pg_advisory_lock over a dedicated
// connection.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"net/url"
	"time"

	_ "github.com/lib/pq"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/go-refinery/refinery/driver"
)

func init() {
	driver.Register("postgres", driver.OpenerFunc(open))
	driver.Register("postgresql", driver.OpenerFunc(open))
	// "pgx" dials the same dialect through jackc/pgx's stdlib adapter
	// instead of lib/pq, for callers who already run a pgx connection
	// pool elsewhere and want one driver, not two, in their binary.
	driver.Register("pgx", driver.OpenerFunc(openPGX))
}

func open(ctx context.Context, u *url.URL) (driver.Querier, error) {
	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return nil, fmt.Errorf("refinery/driver/postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("refinery/driver/postgres: ping: %w", err)
	}
	return New(db), nil
}

func openPGX(ctx context.Context, u *url.URL) (driver.Querier, error) {
	stripped := *u
	stripped.Scheme = "postgres"
	db, err := sql.Open("pgx", stripped.String())
	if err != nil {
		return nil, fmt.Errorf("refinery/driver/postgres: open pgx: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("refinery/driver/postgres: ping pgx: %w", err)
	}
	return New(db), nil
}

type dialect struct{}

func (dialect) CreateTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  version    INTEGER PRIMARY KEY,
  name       VARCHAR(255) NOT NULL,
  applied_on VARCHAR(255) NOT NULL,
  checksum   VARCHAR(255) NOT NULL
)`, table)
}

func (dialect) Placeholder(i int) string { return fmt.Sprintf("$%d", i) }

// Driver is the PostgreSQL implementation of driver.Querier.
type Driver struct {
	*driver.SQLQuerier
}

// New wraps db as a Driver.
func New(db *sql.DB) *Driver {
	return &Driver{SQLQuerier: driver.NewSQLQuerier(db, dialect{})}
}

func (d *Driver) SupportsDDLTransactions() bool { return true }

func (d *Driver) LockDialect() driver.LockDialect { return driver.LockDialectPostgres }

// Lock acquires a session-level advisory lock over a single dedicated
// connection.
func (d *Driver) Lock(ctx context.Context, name string, timeout time.Duration) (driver.UnlockFunc, error) {
	conn, err := d.DB().Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("refinery/driver/postgres: acquiring connection: %w", err)
	}
	h := fnv.New32()
	_, _ = h.Write([]byte(name))
	id := h.Sum32()
	lockCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	var acquired bool
	query := "SELECT pg_advisory_lock($1)"
	if timeout == 0 {
		query = "SELECT pg_try_advisory_lock($1)"
	}
	row := conn.QueryRowContext(lockCtx, query, id)
	if timeout == 0 {
		if err := row.Scan(&acquired); err != nil {
			conn.Close()
			return nil, fmt.Errorf("refinery/driver/postgres: try lock: %w", err)
		}
		if !acquired {
			conn.Close()
			return nil, fmt.Errorf("refinery/driver/postgres: lock %q already held", name)
		}
	} else {
		var discard interface{}
		if err := row.Scan(&discard); err != nil {
			conn.Close()
			return nil, fmt.Errorf("refinery/driver/postgres: lock: %w", err)
		}
	}
	return func() error {
		defer conn.Close()
		var released bool
		if err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", id).Scan(&released); err != nil {
			return err
		}
		if !released {
			return fmt.Errorf("refinery/driver/postgres: failed releasing lock %q", name)
		}
		return nil
	}, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

var _ driver.Querier = (*Driver)(nil)
