// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package entropy

import (
	"context"
	"errors"
)

// DefaultSources returns the platform-appropriate default source list:
// the device RNG file and the OS syscall source, both STRONG, plus the
// CPU-instruction source (skipped by Combine when its capability is
// absent). EGD is never included by default: it requires an explicit
// daemon address, per spec.md §6.
func DefaultSources() []Source {
	return []Source{
		&DeviceSource{},
		SyscallSource{},
		CPUSource{},
	}
}

// Combine iterates sources in order, XOR-combining into dst the output of
// every source whose flags satisfy (flags&disable == 0) and
// (flags&selectMask == selectMask). It returns the union of the
// contributing sources' flags, succeeding only if at least one FlStrong
// source contributed. scratch must be len(dst) bytes of caller-owned
// working space; it is wiped before Combine returns.
//
// Each source writes all of dst or none of it: a source whose Read
// returns an error contributes nothing, and its error becomes the
// returned error only if no source succeeds at all.
func Combine(dst, scratch []byte, sources []Source, disable, selectMask Flags) (Flags, error) {
	if len(scratch) != len(dst) {
		panic("entropy: Combine: scratch and dst must be the same length")
	}
	defer wipe(scratch)

	for i := range dst {
		dst[i] = 0
	}

	var accumulated Flags
	var lastErr error
	sawStrong := false

	for _, src := range sources {
		flags := src.Flags()
		if flags&disable != 0 {
			continue
		}
		if flags&selectMask != selectMask {
			continue
		}

		if err := src.Read(context.Background(), scratch); err != nil {
			lastErr = err
			continue
		}

		for i := range dst {
			dst[i] ^= scratch[i]
		}
		accumulated |= flags
		if flags&FlStrong != 0 {
			sawStrong = true
		}
	}

	if !sawStrong {
		if lastErr == nil {
			lastErr = errors.New("entropy: no strong source available")
		}
		return accumulated, lastErr
	}
	return accumulated, nil
}

// wipe overwrites b with zeros using a write the compiler may not elide,
// matching the non-elidable clear contract of spec.md §4.3 and §9.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	noOptimizeSink(b)
}

//go:noinline
func noOptimizeSink(_ []byte) {}
