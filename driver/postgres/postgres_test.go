// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// TestLockAcquired mocks a zero-timeout (try-lock) round trip through
// pg_try_advisory_lock/pg_advisory_unlock over a dedicated connection
// and asserts Lock/unlock complete without error.
func TestLockAcquired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT pg_try_advisory_lock\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"acquired"}).AddRow(true))
	mock.ExpectQuery(`SELECT pg_advisory_unlock\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(true))

	d := New(db)
	unlock, err := d.Lock(context.Background(), "name", 0)
	require.NoError(t, err)
	require.NoError(t, unlock())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockAlreadyHeld(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT pg_try_advisory_lock\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"acquired"}).AddRow(false))

	d := New(db)
	_, err = d.Lock(context.Background(), "name", 0)
	require.Error(t, err)
}

// TestLockBlocking mocks a positive-timeout round trip, which uses the
// blocking pg_advisory_lock rather than the try variant.
func TestLockBlocking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT pg_advisory_lock\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"locked"}).AddRow(nil))
	mock.ExpectQuery(`SELECT pg_advisory_unlock\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(true))

	d := New(db)
	unlock, err := d.Lock(context.Background(), "name", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock())
	require.NoError(t, mock.ExpectationsWereMet())
}
