// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package driver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQuerier struct {
	Querier
	executed []string
	block    chan struct{}
}

func (s *stubQuerier) Execute(ctx context.Context, stmts []string) error {
	if s.block != nil {
		<-s.block
	}
	s.executed = append(s.executed, stmts...)
	return nil
}

func (s *stubQuerier) SupportsDDLTransactions() bool { return true }
func (s *stubQuerier) LockDialect() LockDialect      { return LockDialectNone }

func TestAsyncCompletesNormally(t *testing.T) {
	s := &stubQuerier{}
	a := Async(s)
	err := a.Execute(context.Background(), []string{"SELECT 1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT 1"}, s.executed)
}

func TestAsyncObservesCancellation(t *testing.T) {
	s := &stubQuerier{block: make(chan struct{})}
	a := Async(s)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := a.Execute(ctx, []string{"SELECT 1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(s.block)
}
