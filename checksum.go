// Copyright 2026-present The Refinery Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package refinery

import (
	"encoding/binary"
	"strconv"
)

// Checksum computes the migration's identity hash: SipHash-1-3 (one
// compression round, three finalization rounds) with the fixed 128-bit
// key (0, 0), over the UTF-8 bytes of version||name||sql with no
// delimiters. This is implemented directly because no ecosystem Go
// package exposes a configurable-round SipHash — see DESIGN.md.
func Checksum(version int64, name, sql string) uint64 {
	h := siphash13{}
	h.reset(0, 0)
	h.write([]byte(strconv.FormatInt(version, 10)))
	h.write([]byte(name))
	h.write([]byte(sql))
	return h.sum()
}

// siphash13 implements SipHash with c=1 compression round and d=3
// finalization rounds.
type siphash13 struct {
	v0, v1, v2, v3 uint64
	buf            [8]byte
	buflen         int
	total          uint64
}

func (h *siphash13) reset(k0, k1 uint64) {
	h.v0 = k0 ^ 0x736f6d6570736575
	h.v1 = k1 ^ 0x646f72616e646f6d
	h.v2 = k0 ^ 0x6c7967656e657261
	h.v3 = k1 ^ 0x7465646279746573
	h.buflen = 0
	h.total = 0
}

func sipRound(v0, v1, v2, v3 uint64) (uint64, uint64, uint64, uint64) {
	v0 += v1
	v1 = rotl64(v1, 13)
	v1 ^= v0
	v0 = rotl64(v0, 32)
	v2 += v3
	v3 = rotl64(v3, 16)
	v3 ^= v2
	v0 += v3
	v3 = rotl64(v3, 21)
	v3 ^= v0
	v2 += v1
	v1 = rotl64(v1, 17)
	v1 ^= v2
	v2 = rotl64(v2, 32)
	return v0, v1, v2, v3
}

func rotl64(x uint64, b uint) uint64 {
	return (x << b) | (x >> (64 - b))
}

func (h *siphash13) write(p []byte) {
	h.total += uint64(len(p))
	if h.buflen > 0 {
		n := copy(h.buf[h.buflen:], p)
		h.buflen += n
		p = p[n:]
		if h.buflen < 8 {
			return
		}
		h.block(h.buf[:])
		h.buflen = 0
	}
	for len(p) >= 8 {
		h.block(p[:8])
		p = p[8:]
	}
	h.buflen = copy(h.buf[:], p)
}

func (h *siphash13) block(b []byte) {
	m := binary.LittleEndian.Uint64(b)
	h.v3 ^= m
	h.v0, h.v1, h.v2, h.v3 = sipRound(h.v0, h.v1, h.v2, h.v3)
	h.v0 ^= m
}

func (h *siphash13) sum() uint64 {
	var last [8]byte
	copy(last[:], h.buf[:h.buflen])
	last[7] = byte(h.total)
	m := binary.LittleEndian.Uint64(last[:])
	h.v3 ^= m
	h.v0, h.v1, h.v2, h.v3 = sipRound(h.v0, h.v1, h.v2, h.v3)
	h.v0 ^= m
	h.v2 ^= 0xff
	for i := 0; i < 3; i++ {
		h.v0, h.v1, h.v2, h.v3 = sipRound(h.v0, h.v1, h.v2, h.v3)
	}
	return h.v0 ^ h.v1 ^ h.v2 ^ h.v3
}
