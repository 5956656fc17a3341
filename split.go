// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import "strings"

// SplitStatements splits input into individual SQL statements on `;`,
// while tracking single-quoted strings (with `''` escapes),
// double-quoted identifiers, line comments (`--`) and non-nested block
// comments (`/* */`). The executor runs every migration through it and
// executes the resulting statements one at a time, whatever the
// backend; no backend is sent a whole file as one statement.
//
// This does not special-case BEGIN/END blocks or dollar-quoted
// strings: it is a narrower fallback, not a general SQL lexer, and
// those constructs are out of scope here.
func SplitStatements(input string) []string {
	var (
		stmts []string
		cur   strings.Builder
		runes = []rune(input)
		n     = len(runes)
	)
	emit := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}
	for i := 0; i < n; i++ {
		c := runes[i]
		switch c {
		case '\'':
			cur.WriteRune(c)
			i++
			for i < n {
				cur.WriteRune(runes[i])
				if runes[i] == '\'' {
					// A doubled quote is an escaped quote; consume both
					// and keep scanning the string.
					if i+1 < n && runes[i+1] == '\'' {
						i++
						cur.WriteRune(runes[i])
						i++
						continue
					}
					break
				}
				i++
			}
		case '"':
			cur.WriteRune(c)
			i++
			for i < n {
				cur.WriteRune(runes[i])
				if runes[i] == '"' {
					break
				}
				i++
			}
		case '-':
			if i+1 < n && runes[i+1] == '-' {
				for i < n && runes[i] != '\n' {
					cur.WriteRune(runes[i])
					i++
				}
				if i < n {
					cur.WriteRune(runes[i]) // keep the newline
				}
				continue
			}
			cur.WriteRune(c)
		case '/':
			if i+1 < n && runes[i+1] == '*' {
				cur.WriteRune(c)
				i++
				cur.WriteRune(runes[i])
				i++
				for i < n {
					cur.WriteRune(runes[i])
					if runes[i] == '*' && i+1 < n && runes[i+1] == '/' {
						i++
						cur.WriteRune(runes[i])
						break
					}
					i++
				}
				continue
			}
			cur.WriteRune(c)
		case ';':
			emit()
		default:
			cur.WriteRune(c)
		}
	}
	emit()
	return stmts
}
