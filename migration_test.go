// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	m, err := ParseFilename("V1__create_users.sql", "CREATE TABLE users (id INT);", Width32)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.Version)
	assert.Equal(t, "create_users", m.Name)
	assert.Equal(t, Versioned, m.Kind)
	assert.Equal(t, "V1__create_users.sql", m.Filename("sql"))
	assert.NotZero(t, m.Checksum)
}

func TestParseFilenameUnversioned(t *testing.T) {
	m, err := ParseFilename("U1__seed_roles.sql", "INSERT INTO roles VALUES (1);", Width32)
	require.NoError(t, err)
	assert.Equal(t, Unversioned, m.Kind)
	assert.Equal(t, "U1__seed_roles.sql", m.Filename("sql"))
}

func TestParseFilenameMalformed(t *testing.T) {
	_, err := ParseFilename("not-a-migration.txt", "", Width32)
	require.Error(t, err)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindMalformedFilename, e.Kind)
}

func TestParseFilenameOverflow(t *testing.T) {
	_, err := ParseFilename("V99999999999__too_big.sql", "SELECT 1;", Width32)
	require.Error(t, err)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindMalformedFilename, e.Kind)
}

func TestChecksumStable(t *testing.T) {
	a := Checksum(1, "create_users", "CREATE TABLE users (id INT);")
	b := Checksum(1, "create_users", "CREATE TABLE users (id INT);")
	assert.Equal(t, a, b)

	c := Checksum(1, "create_users", "CREATE TABLE users (id BIGINT);")
	assert.NotEqual(t, a, c)
}

func TestMigrationApplied(t *testing.T) {
	var m Migration
	assert.False(t, m.Applied())
}
