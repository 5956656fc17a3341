// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package mysql adapts refinery's driver.Querier to MySQL/MariaDB via
// go-sql-driver/mysql. Its advisory lock uses GET_LOCK/RELEASE_LOCK
// over a dedicated connection.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/go-refinery/refinery/driver"
)

func init() {
	driver.Register("mysql", driver.OpenerFunc(open))
}

func open(ctx context.Context, u *url.URL) (driver.Querier, error) {
	dsn := strings.TrimPrefix(u.String(), "mysql://")
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("refinery/driver/mysql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("refinery/driver/mysql: ping: %w", err)
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
) ENGINE=InnoDB`, table)
}

func (dialect) Placeholder(int) string { return "?" }

// Driver is the MySQL/MariaDB implementation of driver.Querier. Some
// DDL statements commit implicitly on these backends, so
// SupportsDDLTransactions reports false.
type Driver struct {
	*driver.SQLQuerier
}

// New wraps db as a Driver.
func New(db *sql.DB) *Driver {
	return &Driver{SQLQuerier: driver.NewSQLQuerier(db, dialect{})}
}

func (d *Driver) SupportsDDLTransactions() bool { return false }

func (d *Driver) LockDialect() driver.LockDialect { return driver.LockDialectMySQL }

// Lock acquires a named lock over a single dedicated connection.
func (d *Driver) Lock(ctx context.Context, name string, timeout time.Duration) (driver.UnlockFunc, error) {
	conn, err := d.DB().Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("refinery/driver/mysql: acquiring connection: %w", err)
	}
	secs := int(timeout.Seconds())
	if timeout < 0 {
		secs = -1
	}
	var acquired sql.NullBool
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", name, secs).Scan(&acquired); err != nil {
		conn.Close()
		return nil, fmt.Errorf("refinery/driver/mysql: GET_LOCK: %w", err)
	}
	if !acquired.Valid || !acquired.Bool {
		conn.Close()
		return nil, fmt.Errorf("refinery/driver/mysql: lock %q already held", name)
	}
	return func() error {
		defer conn.Close()
		var released sql.NullBool
		if err := conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", name).Scan(&released); err != nil {
			return err
		}
		if !released.Valid || !released.Bool {
			return fmt.Errorf("refinery/driver/mysql: failed releasing lock %q", name)
		}
		return nil
	}, nil
}

var _ driver.Querier = (*Driver)(nil)
