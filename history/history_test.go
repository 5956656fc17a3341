// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-refinery/refinery/driver"
)

type memQuerier struct {
	driver.Querier
	table string
	rows  []driver.HistoryRow
}

func (m *memQuerier) AssertHistoryTable(ctx context.Context, table string) error {
	m.table = table
	return nil
}

func (m *memQuerier) QueryHistory(ctx context.Context, table string) ([]driver.HistoryRow, error) {
	return m.rows, nil
}

func (m *memQuerier) InsertHistory(ctx context.Context, table string, row driver.HistoryRow) error {
	m.rows = append(m.rows, row)
	return nil
}

func TestStoreRoundTrip(t *testing.T) {
	q := &memQuerier{}
	store := NewStore(q, "refinery_schema_history")

	require.NoError(t, store.EnsureTable(context.Background()))
	assert.Equal(t, "refinery_schema_history", q.table)

	r := Record{Version: 1, Name: "init", AppliedOn: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Checksum: 42}
	require.NoError(t, store.InsertApplied(context.Background(), r))

	got, err := store.GetApplied(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.Version, got[0].Version)
	assert.Equal(t, r.Name, got[0].Name)
	assert.Equal(t, r.Checksum, got[0].Checksum)
	assert.True(t, r.AppliedOn.Equal(got[0].AppliedOn))
}
