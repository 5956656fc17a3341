// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-refinery/refinery"
	"github.com/go-refinery/refinery/driver"
	"github.com/go-refinery/refinery/exec"
	"github.com/go-refinery/refinery/runner"
)

// zapEntryLogger adapts exec.LogEntry events onto a *zap.Logger.
type zapEntryLogger struct {
	l *zap.Logger
}

func (z zapEntryLogger) Log(e exec.LogEntry) {
	switch v := e.(type) {
	case exec.LogExecuting:
		z.l.Info("applying migration", zap.Int64("version", v.Migration.Version), zap.String("name", v.Migration.Name))
	case exec.LogApplied:
		z.l.Info("migration applied", zap.Int64("version", v.Migration.Version), zap.String("name", v.Migration.Name), zap.Bool("fake", v.Fake))
	case exec.LogError:
		z.l.Error("migration failed", zap.Int64("version", v.Migration.Version), zap.String("name", v.Migration.Name), zap.Error(v.Err))
	}
}

type applyFlags struct {
	grouped        bool
	allowDivergent bool
	allowMissing   bool
	targetVersion  int64
	fake           bool
	json           bool
}

func applyCmd() *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply pending migrations to the connected database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), f)
		},
	}
	cmd.Flags().BoolVar(&f.grouped, "grouped", false, "run the whole plan in a single transaction")
	cmd.Flags().BoolVar(&f.allowDivergent, "allow-divergent", false, "warn instead of abort on checksum drift")
	cmd.Flags().BoolVar(&f.allowMissing, "allow-missing", false, "warn instead of abort on a missing lower-versioned migration")
	cmd.Flags().Int64Var(&f.targetVersion, "target", 0, "stop at this version (0 means latest)")
	cmd.Flags().BoolVar(&f.fake, "fake", false, "record migrations as applied without running their SQL")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the Report as JSON instead of plain text, for CI consumption")
	return cmd
}

func runApply(ctx context.Context, f applyFlags) error {
	q, err := driver.Open(ctx, flags.url)
	if err != nil {
		return fmt.Errorf("refinery: opening %s: %w", flags.url, err)
	}

	target := refinery.Latest()
	switch {
	case f.fake && f.targetVersion != 0:
		target = refinery.FakeVersion(f.targetVersion)
	case f.fake:
		target = refinery.Fake()
	case f.targetVersion != 0:
		target = refinery.Version(f.targetVersion)
	}

	width := refinery.Width32
	if flags.versionWide {
		width = refinery.Width64
	}

	cfg := refinery.NewConfig(
		refinery.WithGrouped(f.grouped),
		refinery.WithAbortDivergent(!f.allowDivergent),
		refinery.WithAbortMissing(!f.allowMissing),
		refinery.WithTarget(target),
		refinery.WithTableName(flags.table),
		refinery.WithVersionWidth(width),
	)

	src, err := refinery.NewLocalDir(flags.dir)
	if err != nil {
		return fmt.Errorf("refinery: reading %s: %w", flags.dir, err)
	}

	logger := exec.Logger(exec.NopLogger{})
	if flags.verbose {
		logger = zapEntryLogger{l: newZapLogger(true)}
	}

	report, err := runner.Migrate(ctx, q, src, cfg, logger)
	if err != nil {
		return err
	}
	if f.json {
		if err := printReportJSON(report); err != nil {
			return fmt.Errorf("refinery: encoding report: %w", err)
		}
	} else {
		printReport(report)
	}
	if !report.Success() {
		return report.Err
	}
	return nil
}

func printReport(r *refinery.Report) {
	fmt.Printf("run %s: %d applied\n", r.RunID, len(r.Applied))
	for _, m := range r.Applied {
		fmt.Printf("  %s\n", m.Filename("sql"))
	}
	for _, d := range r.Diagnostics {
		fmt.Printf("  warning: %s\n", d.String())
	}
}

func printReportJSON(r *refinery.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
