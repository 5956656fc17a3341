// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-refinery/refinery"
	"github.com/go-refinery/refinery/driver"
	"github.com/go-refinery/refinery/history"
	"github.com/go-refinery/refinery/plan"
)

// statusCmd is the dry-run / plan preview supplemental feature: it
// runs discovery and planning exactly as apply would, but never opens
// a transaction or runs a migration. Its only write is creating the
// history table if it does not exist yet; otherwise it only reads
// history.
func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the migrations that would be applied, without applying them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}
	return cmd
}

func runStatus(ctx context.Context) error {
	q, err := driver.Open(ctx, flags.url)
	if err != nil {
		return fmt.Errorf("refinery: opening %s: %w", flags.url, err)
	}

	width := refinery.Width32
	if flags.versionWide {
		width = refinery.Width64
	}
	cfg := refinery.NewConfig(refinery.WithTableName(flags.table), refinery.WithVersionWidth(width))

	src, err := refinery.NewLocalDir(flags.dir)
	if err != nil {
		return fmt.Errorf("refinery: reading %s: %w", flags.dir, err)
	}
	authored, diags, err := refinery.Discover(src, cfg.VersionWidth)
	if err != nil {
		return err
	}

	store := history.NewStore(q, cfg.TableName)
	if err := store.EnsureTable(ctx); err != nil {
		return err
	}
	applied, err := store.GetApplied(ctx)
	if err != nil {
		return err
	}

	p, err := plan.Build(authored, applied, cfg)
	if err != nil {
		return err
	}

	if len(p.Migrations) == 0 {
		fmt.Println("database is up to date")
	}
	for _, m := range p.Migrations {
		fmt.Printf("pending  %s\n", m.Filename("sql"))
	}
	for _, d := range diags {
		fmt.Printf("warning  %s\n", d.String())
	}
	for _, d := range p.Diagnostics {
		fmt.Printf("warning  %s\n", d.String())
	}
	return nil
}
