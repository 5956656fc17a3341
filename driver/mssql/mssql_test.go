// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package mssql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// TestLockAcquired mocks the single sp_getapplock round trip and the
// subsequent sp_releaseapplock exec, asserting Lock/unlock complete
// without error when sp_getapplock returns a non-negative result code.
func TestLockAcquired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`DECLARE @res INT; EXEC @res = sp_getapplock`).
		WithArgs("name", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"res"}).AddRow(0))
	mock.ExpectExec(`EXEC sp_releaseapplock`).
		WithArgs("name").
		WillReturnResult(sqlmock.NewResult(0, 1))

	d := New(db)
	unlock, err := d.Lock(context.Background(), "name", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock())
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestLockFailed mocks sp_getapplock returning a negative result code,
// which signals the lock request failed (timeout or error).
func TestLockFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`DECLARE @res INT; EXEC @res = sp_getapplock`).
		WithArgs("name", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"res"}).AddRow(-1))

	d := New(db)
	_, err = d.Lock(context.Background(), "name", time.Second)
	require.Error(t, err)
}
