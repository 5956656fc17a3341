// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package mssql adapts refinery's driver.Querier to SQL Server via
// microsoft/go-mssqldb. It implements an advisory lock via
// sp_getapplock/sp_releaseapplock, following the same
// dedicated-connection pattern as the postgres/mysql adapters.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/go-refinery/refinery/driver"
)

func init() {
	driver.Register("sqlserver", driver.OpenerFunc(open))
	driver.Register("mssql", driver.OpenerFunc(open))
}

func open(ctx context.Context, u *url.URL) (driver.Querier, error) {
	db, err := sql.Open("sqlserver", u.String())
	if err != nil {
		return nil, fmt.Errorf("refinery/driver/mssql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("refinery/driver/mssql: ping: %w", err)
	}
	return New(db), nil
}

type dialect struct{}

func (dialect) CreateTableSQL(table string) string {
	return fmt.Sprintf(`IF NOT EXISTS (SELECT * FROM sysobjects WHERE name='%s' AND xtype='U')
CREATE TABLE %s (
  version    INTEGER PRIMARY KEY,
  name       VARCHAR(255) NOT NULL,
  applied_on VARCHAR(255) NOT NULL,
  checksum   VARCHAR(255) NOT NULL
)`, table, table)
}

func (dialect) Placeholder(i int) string { return fmt.Sprintf("@p%d", i) }

// Driver is the SQL Server implementation of driver.Querier. MSSQL
// cannot roll back most DDL, so SupportsDDLTransactions reports false.
type Driver struct {
	*driver.SQLQuerier
}

// New wraps db as a Driver.
func New(db *sql.DB) *Driver {
	return &Driver{SQLQuerier: driver.NewSQLQuerier(db, dialect{})}
}

func (d *Driver) SupportsDDLTransactions() bool { return false }

func (d *Driver) LockDialect() driver.LockDialect { return driver.LockDialectMSSQL }

// Lock acquires an application lock via sp_getapplock over a single
// dedicated connection.
func (d *Driver) Lock(ctx context.Context, name string, timeout time.Duration) (driver.UnlockFunc, error) {
	conn, err := d.DB().Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("refinery/driver/mssql: acquiring connection: %w", err)
	}
	ms := int(timeout.Milliseconds())
	if timeout < 0 {
		ms = -1
	}
	var result int
	err = conn.QueryRowContext(ctx,
		"DECLARE @res INT; EXEC @res = sp_getapplock @Resource = @p1, @LockMode = 'Exclusive', @LockTimeout = @p2; SELECT @res",
		name, ms,
	).Scan(&result)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("refinery/driver/mssql: sp_getapplock: %w", err)
	}
	if result < 0 {
		conn.Close()
		return nil, fmt.Errorf("refinery/driver/mssql: lock %q failed with code %d", name, result)
	}
	return func() error {
		defer conn.Close()
		_, err := conn.ExecContext(ctx, "EXEC sp_releaseapplock @Resource = @p1", name)
		return err
	}, nil
}

var _ driver.Querier = (*Driver)(nil)
