// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// RawFile is a (filename, bytes) pair. A Source is an ordered sequence
// of these, produced either by a filesystem walk (LocalDir) or by an
// fs.FS supplied by an external collaborator (FS), such as a compile-
// time embed.FS built by an embed-generation tool.
type RawFile struct {
	Name string
	Data []byte
}

// Source loads the raw migration files backing a discovery pass.
type Source interface {
	// Load returns every regular file found, in an implementation-
	// defined order; callers are responsible for filtering names that
	// don't match the filename grammar and building a MigrationSet.
	Load() ([]RawFile, error)
}

// LocalDir is a Source backed by a recursive walk of an OS directory
// tree.
type LocalDir struct {
	path string
}

// NewLocalDir returns a Source rooted at path.
func NewLocalDir(path string) (*LocalDir, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("refinery: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("refinery: %q is not a dir", path)
	}
	return &LocalDir{path: path}, nil
}

// Load implements Source.
func (d *LocalDir) Load() ([]RawFile, error) {
	var files []RawFile
	err := filepath.WalkDir(d.path, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("refinery: read file %q: %w", p, err)
		}
		files = append(files, RawFile{Name: entry.Name(), Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FS adapts any fs.FS — in particular a //go:embed embed.FS produced
// by a build-time embedding tool external to this module — into a
// Source, recursing the whole tree like LocalDir.
type FS struct {
	fsys fs.FS
}

// NewFS wraps fsys as a Source.
func NewFS(fsys fs.FS) *FS { return &FS{fsys: fsys} }

// Load implements Source.
func (f *FS) Load() ([]RawFile, error) {
	var files []RawFile
	err := fs.WalkDir(f.fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(f.fsys, p)
		if err != nil {
			return fmt.Errorf("refinery: read file %q: %w", p, err)
		}
		files = append(files, RawFile{Name: entry.Name(), Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
