// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalFlags holds connection and directory flags registered once on
// the root command and read by every subcommand.
type globalFlags struct {
	url         string
	dir         string
	table       string
	versionWide bool
	verbose     bool
}

var flags globalFlags

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "refinery",
		Short:         "Apply versioned SQL schema migrations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&flags.url, "url", "u", "", "database connection URL, e.g. sqlite://path/to.db")
	cmd.PersistentFlags().StringVarP(&flags.dir, "dir", "d", "migrations", "path to the migrations directory")
	cmd.PersistentFlags().StringVar(&flags.table, "table", "", "history table name (default refinery_schema_history)")
	cmd.PersistentFlags().BoolVar(&flags.versionWide, "version-64", false, "accept 64-bit migration versions")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable structured logging")

	cmd.AddCommand(applyCmd())
	cmd.AddCommand(statusCmd())
	return cmd
}

func newZapLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
