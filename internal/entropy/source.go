// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package entropy implements the multi-source entropy combiner that seeds
// and reseeds the ottery engine: a handful of independent OS and hardware
// entropy sources, XOR-combined into one seed buffer, reporting success
// only when at least one strong source contributed.
package entropy

import (
	"context"
	"errors"
)

// Flags is a bit-set describing an entropy source's provenance and
// strength, and is also the type used for the disable/select masks passed
// to Combine.
type Flags uint32

const (
	// Source identity bits.
	SrcRandomDev      Flags = 1 << 0
	SrcCryptGenRandom Flags = 1 << 1
	SrcRDRand         Flags = 1 << 2
	SrcEGD            Flags = 1 << 3

	// Provenance and strength bits.
	FlOS     Flags = 1 << 8
	FlCPU    Flags = 1 << 9
	FlDaemon Flags = 1 << 10
	FlStrong Flags = 1 << 11
	FlFast   Flags = 1 << 12
)

// ErrSourceUnavailable is returned by a Source whose required capability
// or resource is absent on the host (e.g. RDRAND without the CPU bit).
var ErrSourceUnavailable = errors.New("entropy: source unavailable")

// Source is one independent entropy provider. Read must write exactly
// len(p) bytes or return a non-nil error; partial writes are not
// permitted, matching the all-or-nothing contract spec.md §4.3 requires
// of every registered source.
type Source interface {
	// Name identifies the source for diagnostics and config overrides.
	Name() string
	// Flags reports this source's identity, provenance, and strength bits.
	Flags() Flags
	// Read fills p with exactly len(p) bytes of entropy, or returns an error.
	Read(ctx context.Context, p []byte) error
}
