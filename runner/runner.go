// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package runner wires the core packages into the single operation a
// caller actually wants: discover migrations, read history, plan, and
// execute. It exists as its own package (rather than living in the
// refinery root package) because plan and exec both import refinery,
// and refinery importing them back would cycle.
package runner

import (
	"context"
	"fmt"

	"github.com/go-refinery/refinery"
	"github.com/go-refinery/refinery/driver"
	"github.com/go-refinery/refinery/exec"
	"github.com/go-refinery/refinery/history"
	"github.com/go-refinery/refinery/plan"
)

// Migrate discovers migrations from src, plans them against the
// history store reachable through q, and applies the plan under cfg,
// returning the resulting Report. It composes the pipeline end to end:
// discovery → history → planner → executor.
func Migrate(ctx context.Context, q driver.Querier, src refinery.Source, cfg refinery.Config, logger exec.Logger) (*refinery.Report, error) {
	authored, diags, err := refinery.Discover(src, cfg.VersionWidth)
	if err != nil {
		return nil, fmt.Errorf("refinery: discover: %w", err)
	}

	store := history.NewStore(q, cfg.TableName)
	if err := store.EnsureTable(ctx); err != nil {
		return nil, fmt.Errorf("refinery: ensure history table: %w", err)
	}
	applied, err := store.GetApplied(ctx)
	if err != nil {
		return nil, fmt.Errorf("refinery: read history: %w", err)
	}

	p, err := plan.Build(authored, applied, cfg)
	if err != nil {
		return nil, err
	}
	p.Diagnostics = append(diags, p.Diagnostics...)

	ex := exec.New(q, store, logger)
	return ex.Run(ctx, p, cfg), nil
}
