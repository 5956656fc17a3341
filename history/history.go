// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package history implements the schema-history store: ensuring the
// history table exists, reading every applied row, and appending one
// row per applied migration, through the driver abstraction so the
// same code drives any backend.
package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-refinery/refinery/driver"
)

// TimeLayout is the ISO-8601 UTC layout the applied_on column uses,
// with no timezone suffix.
const TimeLayout = "2006-01-02T15:04:05"

// Record is a row of the history table.
type Record struct {
	Version   int64
	Name      string
	AppliedOn time.Time
	Checksum  uint64
}

func (r Record) toRow() driver.HistoryRow {
	return driver.HistoryRow{
		Version:   r.Version,
		Name:      r.Name,
		AppliedOn: r.AppliedOn.UTC().Format(TimeLayout),
		Checksum:  strconv.FormatUint(r.Checksum, 10),
	}
}

func fromRow(row driver.HistoryRow) (Record, error) {
	t, err := time.Parse(TimeLayout, row.AppliedOn)
	if err != nil {
		return Record{}, fmt.Errorf("refinery/history: parse applied_on %q: %w", row.AppliedOn, err)
	}
	checksum, err := strconv.ParseUint(row.Checksum, 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("refinery/history: parse checksum %q: %w", row.Checksum, err)
	}
	return Record{Version: row.Version, Name: row.Name, AppliedOn: t.UTC(), Checksum: checksum}, nil
}

// Store exposes the history table's read/write operations over a
// driver.Querier.
type Store struct {
	q     driver.Querier
	Table string
}

// NewStore returns a Store reading/writing table through q.
func NewStore(q driver.Querier, table string) *Store {
	return &Store{q: q, Table: table}
}

// EnsureTable idempotently creates the history table if absent.
func (s *Store) EnsureTable(ctx context.Context) error {
	return s.q.AssertHistoryTable(ctx, s.Table)
}

// GetApplied returns all rows ordered by version.
func (s *Store) GetApplied(ctx context.Context) ([]Record, error) {
	rows, err := s.q.QueryHistory(ctx, s.Table)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(rows))
	for i, row := range rows {
		r, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// InsertApplied appends one record.
func (s *Store) InsertApplied(ctx context.Context, r Record) error {
	return s.q.InsertHistory(ctx, s.Table, r.toRow())
}
