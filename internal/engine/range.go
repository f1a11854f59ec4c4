// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package engine

import "math"

// RandRange returns a uniformly random value in [0, top], using rejection
// sampling to avoid modulo bias. Grounded on spec.md §4.2.4 and Open
// Question (a): the inclusive limit is top+1, computed in 64-bit
// arithmetic so top == math.MaxUint32 cannot silently wrap to a limit of
// zero the way a 32-bit "top+1" would.
func (c *core) RandRange(top uint32) uint32 {
	var divisor uint64
	if top == math.MaxUint32 {
		divisor = 1
	} else {
		lim := uint64(top) + 1
		divisor = (uint64(math.MaxUint32) + 1) / lim
	}
	for {
		n := uint64(c.RandUint32()) / divisor
		if n <= uint64(top) {
			return uint32(n)
		}
	}
}

// RandRange64 is RandRange's 64-bit counterpart. top == math.MaxUint64
// makes lim wrap to 0 in native uint64 arithmetic, which is the signal
// (rather than a bug) that the whole output range is already the target
// range: divisor collapses to 1 and every draw is accepted immediately.
func (c *core) RandRange64(top uint64) uint64 {
	var divisor uint64
	lim := top + 1
	if lim == 0 {
		divisor = 1
	} else {
		divisor = math.MaxUint64 / lim
	}
	for {
		n := c.RandUint64() / divisor
		if n <= top {
			return n
		}
	}
}
