// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// TestLockAcquired mocks the two round trips GET_LOCK/RELEASE_LOCK
// makes over a dedicated connection and asserts Lock/unlock complete
// without error.
func TestLockAcquired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT GET_LOCK\(\?, \?\)`).
		WithArgs("name", 1).
		WillReturnRows(sqlmock.NewRows([]string{"acquired"}).AddRow(1))
	mock.ExpectQuery(`SELECT RELEASE_LOCK\(\?\)`).
		WithArgs("name").
		WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(1))

	d := New(db)
	unlock, err := d.Lock(context.Background(), "name", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockAlreadyHeld(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT GET_LOCK\(\?, \?\)`).
		WithArgs("name", 1).
		WillReturnRows(sqlmock.NewRows([]string{"acquired"}).AddRow(0))

	d := New(db)
	_, err = d.Lock(context.Background(), "name", time.Second)
	require.Error(t, err)
}
