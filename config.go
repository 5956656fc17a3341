// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

// Width selects the integer width used when parsing migration versions.
type Width int

const (
	// Width32 is the default: versions must fit in a signed 32-bit int.
	Width32 Width = iota
	// Width64 widens the accepted range to a signed 64-bit int.
	Width64
)

// Max returns the largest version accepted under this Width.
func (w Width) Max() int64 {
	if w == Width64 {
		return 1<<63 - 1
	}
	return 1<<31 - 1
}

// DefaultTableName is the default history table name.
const DefaultTableName = "refinery_schema_history"

// Config is the policy bundle threaded by value into a run. It carries
// no process-wide state. Build one with NewConfig, not a bare struct
// literal, so the true-by-default fields (AbortDivergent, AbortMissing)
// aren't silently zeroed by Go's zero-value rules.
type Config struct {
	// AbortDivergent fails the run on a checksum mismatch for an
	// applied version. Default true.
	AbortDivergent bool
	// AbortMissing fails the run when an authored Versioned migration
	// has a version lower than the applied high-water mark yet is
	// itself unapplied. Default true.
	AbortMissing bool
	// Grouped wraps the whole plan in a single transaction instead of
	// one transaction per migration. Default false.
	Grouped bool
	// Target bounds the plan. Default Latest.
	Target Target
	// TableName is the history table name. Default DefaultTableName.
	TableName string
	// VersionWidth controls the accepted integer width for versions.
	// Default Width32.
	VersionWidth Width
}

// Option configures a Config via NewConfig, a functional-option pair.
type Option func(*Config)

// NewConfig builds a Config starting from its defaults and applying
// opts in order.
func NewConfig(opts ...Option) Config {
	c := Config{
		AbortDivergent: true,
		AbortMissing:   true,
		Target:         Latest(),
		TableName:      DefaultTableName,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithAbortDivergent overrides the AbortDivergent policy.
func WithAbortDivergent(v bool) Option { return func(c *Config) { c.AbortDivergent = v } }

// WithAbortMissing overrides the AbortMissing policy.
func WithAbortMissing(v bool) Option { return func(c *Config) { c.AbortMissing = v } }

// WithGrouped enables wrapping the whole plan in a single transaction.
func WithGrouped(v bool) Option { return func(c *Config) { c.Grouped = v } }

// WithTarget overrides the plan Target.
func WithTarget(t Target) Option { return func(c *Config) { c.Target = t } }

// WithTableName overrides the history table name.
func WithTableName(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.TableName = name
		}
	}
}

// WithVersionWidth overrides the accepted version integer width.
func WithVersionWidth(w Width) Option { return func(c *Config) { c.VersionWidth = w } }
