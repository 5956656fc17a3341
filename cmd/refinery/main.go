// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Command refinery is the CLI front-end for the migration engine: it
// blank-imports every dialect so its init() registers with the driver
// registry, then hands off to cobra.
package main

import (
	"fmt"
	"os"

	_ "github.com/go-refinery/refinery/driver/mssql"
	_ "github.com/go-refinery/refinery/driver/mysql"
	_ "github.com/go-refinery/refinery/driver/postgres"
	_ "github.com/go-refinery/refinery/driver/sqlite"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
