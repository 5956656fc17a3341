// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package exec

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-refinery/refinery"
	"github.com/go-refinery/refinery/driver"
	"github.com/go-refinery/refinery/history"
	"github.com/go-refinery/refinery/plan"
)

// fakeQuerier is an in-memory driver.Querier good enough to exercise
// the Executor's transactional bookkeeping without a real database.
type fakeQuerier struct {
	rows       []driver.HistoryRow
	executed   []string
	failOn     string // SQL that returns an error when executed
	inTx       bool
	ddlTx      bool
	lockCalled bool
}

func (f *fakeQuerier) Execute(ctx context.Context, stmts []string) error {
	for _, s := range stmts {
		if s == f.failOn {
			return fmt.Errorf("simulated failure executing %q", s)
		}
		f.executed = append(f.executed, s)
	}
	return nil
}

func (f *fakeQuerier) QueryHistory(ctx context.Context, table string) ([]driver.HistoryRow, error) {
	return f.rows, nil
}

func (f *fakeQuerier) InsertHistory(ctx context.Context, table string, row driver.HistoryRow) error {
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeQuerier) Begin(ctx context.Context) error    { f.inTx = true; return nil }
func (f *fakeQuerier) Commit(ctx context.Context) error   { f.inTx = false; return nil }
func (f *fakeQuerier) Rollback(ctx context.Context) error { f.inTx = false; return nil }

func (f *fakeQuerier) AssertHistoryTable(ctx context.Context, table string) error { return nil }

func (f *fakeQuerier) Lock(ctx context.Context, name string, timeout time.Duration) (driver.UnlockFunc, error) {
	f.lockCalled = true
	return func() error { return nil }, nil
}

func (f *fakeQuerier) SupportsDDLTransactions() bool { return f.ddlTx }
func (f *fakeQuerier) LockDialect() driver.LockDialect { return driver.LockDialectNone }

var _ driver.Querier = (*fakeQuerier)(nil)

func TestExecutorPerMigrationSuccess(t *testing.T) {
	q := &fakeQuerier{ddlTx: true}
	store := history.NewStore(q, "refinery_schema_history")
	ex := New(q, store, nil)

	p := &plan.Plan{Migrations: []refinery.Migration{
		{Version: 1, Name: "init", SQL: "CREATE TABLE t (id INT);", Checksum: 1},
		{Version: 2, Name: "add_col", SQL: "ALTER TABLE t ADD x INT;", Checksum: 2},
	}}

	report := ex.Run(context.Background(), p, refinery.NewConfig())
	require.NoError(t, report.Err)
	assert.True(t, report.Success())
	assert.Len(t, report.Applied, 2)
	assert.True(t, q.lockCalled)
	assert.Len(t, q.rows, 2)
}

func TestExecutorPerMigrationPartialFailureKeepsPriorCommits(t *testing.T) {
	q := &fakeQuerier{ddlTx: true, failOn: "ALTER TABLE t ADD x INT"}
	store := history.NewStore(q, "refinery_schema_history")
	ex := New(q, store, nil)

	p := &plan.Plan{Migrations: []refinery.Migration{
		{Version: 1, Name: "init", SQL: "CREATE TABLE t (id INT);", Checksum: 1},
		{Version: 2, Name: "add_col", SQL: "ALTER TABLE t ADD x INT;", Checksum: 2},
	}}

	report := ex.Run(context.Background(), p, refinery.NewConfig())
	require.Error(t, report.Err)
	assert.False(t, report.Success())
	require.Len(t, report.Applied, 1)
	assert.Equal(t, int64(1), report.Applied[0].Version)
}

func TestExecutorGroupedFailureRollsBackEverything(t *testing.T) {
	q := &fakeQuerier{ddlTx: true, failOn: "ALTER TABLE t ADD x INT"}
	store := history.NewStore(q, "refinery_schema_history")
	ex := New(q, store, nil)

	p := &plan.Plan{Migrations: []refinery.Migration{
		{Version: 1, Name: "init", SQL: "CREATE TABLE t (id INT);", Checksum: 1},
		{Version: 2, Name: "add_col", SQL: "ALTER TABLE t ADD x INT;", Checksum: 2},
	}}

	report := ex.Run(context.Background(), p, refinery.NewConfig(refinery.WithGrouped(true)))
	require.Error(t, report.Err)
	assert.Empty(t, report.Applied)
}

func TestExecutorFakeSkipsSQL(t *testing.T) {
	q := &fakeQuerier{ddlTx: true}
	store := history.NewStore(q, "refinery_schema_history")
	ex := New(q, store, nil)

	p := &plan.Plan{Migrations: []refinery.Migration{
		{Version: 1, Name: "init", SQL: "CREATE TABLE t (id INT);", Checksum: 1},
	}}

	report := ex.Run(context.Background(), p, refinery.NewConfig(refinery.WithTarget(refinery.Fake())))
	require.NoError(t, report.Err)
	assert.Len(t, report.Applied, 1)
	assert.Empty(t, q.executed)
	assert.Len(t, q.rows, 1)
}

func TestExecutorGroupedWithoutDDLTransactionsWarns(t *testing.T) {
	q := &fakeQuerier{ddlTx: false}
	store := history.NewStore(q, "refinery_schema_history")
	ex := New(q, store, nil)

	p := &plan.Plan{Migrations: []refinery.Migration{
		{Version: 1, Name: "init", SQL: "CREATE TABLE t (id INT);", Checksum: 1},
	}}

	report := ex.Run(context.Background(), p, refinery.NewConfig(refinery.WithGrouped(true)))
	require.NoError(t, report.Err)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, refinery.KindPartialDDL, report.Diagnostics[0].Kind)
}
