// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDirLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/V1__init.sql", []byte("CREATE TABLE t (id INT);"), 0o644))

	src, err := NewLocalDir(dir)
	require.NoError(t, err)
	files, err := src.Load()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "V1__init.sql", files[0].Name)
}

func TestNewLocalDirRejectsFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/not-a-dir.sql"
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;"), 0o644))

	_, err := NewLocalDir(path)
	assert.Error(t, err)
}

func TestFSLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__init.sql": &fstest.MapFile{Data: []byte("CREATE TABLE t (id INT);")},
		"nested/U1__seed.sql": &fstest.MapFile{Data: []byte("INSERT INTO t VALUES (1);")},
	}
	files, err := NewFS(fsys).Load()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
