// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package sqlite adapts refinery's driver.Querier to SQLite via
// mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/go-refinery/refinery/driver"
)

func init() {
	driver.Register("sqlite", driver.OpenerFunc(func(ctx context.Context, u *url.URL) (driver.Querier, error) {
		path := u.Opaque
		if path == "" {
			path = u.Path
		}
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("refinery/driver/sqlite: open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("refinery/driver/sqlite: ping: %w", err)
		}
		return New(db), nil
	}))
}

// dialect implements driver.Dialect for SQLite's type affinities.
type dialect struct{}

func (dialect) CreateTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  version    INTEGER PRIMARY KEY,
  name       VARCHAR(255) NOT NULL,
  applied_on VARCHAR(255) NOT NULL,
  checksum   VARCHAR(255) NOT NULL
)`, table)
}

func (dialect) Placeholder(int) string { return "?" }

// Driver is the SQLite implementation of driver.Querier.
type Driver struct {
	*driver.SQLQuerier
}

// New wraps db as a Driver.
func New(db *sql.DB) *Driver {
	return &Driver{SQLQuerier: driver.NewSQLQuerier(db, dialect{})}
}

func (d *Driver) SupportsDDLTransactions() bool { return true }

func (d *Driver) LockDialect() driver.LockDialect { return driver.LockDialectSQLite }

// Lock implements an advisory lock using a filesystem lock file in
// os.TempDir(), since SQLite has no cross-connection advisory lock
// primitive. It never waits: if an unexpired lock file exists it fails
// at once, whatever timeout is. A positive timeout sets how long the
// lock file stays valid; zero or negative makes it valid for 24 hours.
func (d *Driver) Lock(_ context.Context, name string, timeout time.Duration) (driver.UnlockFunc, error) {
	path := filepath.Join(os.TempDir(), "refinery-"+name+".lock")
	if c, err := os.ReadFile(path); err == nil {
		expires, perr := strconv.ParseInt(string(c), 10, 64)
		if perr == nil && time.Unix(0, expires).After(time.Now()) {
			return nil, fmt.Errorf("refinery/driver/sqlite: lock %q already held", name)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("refinery/driver/sqlite: reading lock file: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("refinery/driver/sqlite: creating lock file %q: %w", path, err)
	}
	defer f.Close()
	expiry := time.Now()
	if timeout > 0 {
		expiry = expiry.Add(timeout)
	} else {
		expiry = expiry.Add(24 * time.Hour)
	}
	if _, err := f.WriteString(strconv.FormatInt(expiry.UnixNano(), 10)); err != nil {
		return nil, fmt.Errorf("refinery/driver/sqlite: writing lock file: %w", err)
	}
	return func() error { return os.Remove(path) }, nil
}

var _ driver.Querier = (*Driver)(nil)
