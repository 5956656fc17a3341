// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package driver

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// Opener opens a Querier from a parsed DSN URL. Dialect packages call
// Register in an init() so the CLI and embedding API can dial any
// registered backend from a single DSN string without importing the
// dialect package's driver directly.
type Opener interface {
	Open(ctx context.Context, u *url.URL) (Querier, error)
}

// OpenerFunc adapts a function to an Opener.
type OpenerFunc func(context.Context, *url.URL) (Querier, error)

func (f OpenerFunc) Open(ctx context.Context, u *url.URL) (Querier, error) { return f(ctx, u) }

var openers sync.Map

// Register associates scheme (e.g. "postgres", "mysql", "sqlite",
// "sqlserver") with an Opener. It is typically called from a dialect
// package's init().
func Register(scheme string, o Opener) {
	openers.Store(scheme, o)
}

// Open dials dsn using the Opener registered for its URL scheme.
func Open(ctx context.Context, dsn string) (Querier, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("refinery/driver: parse dsn: %w", err)
	}
	v, ok := openers.Load(u.Scheme)
	if !ok {
		return nil, fmt.Errorf("refinery/driver: no driver registered for scheme %q", u.Scheme)
	}
	return v.(Opener).Open(ctx, u)
}
