// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package entropy

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/sys/cpu"
)

// CPUSource represents the CPU-instruction entropy source (RDRAND on
// amd64). Go exposes no portable way to issue the RDRAND instruction
// itself without cgo or hand-written assembly, which spec.md §1 places
// out of scope as OS/CPU glue; instead, when the capability bit is
// present, this source delegates to the platform strong RNG (the same
// path SyscallSource uses) as a safe stand-in, and is tagged with the CPU
// provenance bit so the combiner still records that a capability-gated
// source contributed. When the capability is absent, Read reports
// ErrSourceUnavailable and the combiner skips it, rather than silently
// returning bytes from an instruction the host cannot execute.
type CPUSource struct{}

func (CPUSource) Name() string { return "cpu" }

func (CPUSource) Flags() Flags { return SrcRDRand | FlCPU | FlStrong | FlFast }

func (CPUSource) Read(_ context.Context, p []byte) error {
	if !cpu.X86.HasRDRAND {
		return ErrSourceUnavailable
	}
	if _, err := io.ReadFull(rand.Reader, p); err != nil {
		return fmt.Errorf("entropy: cpu: %w", err)
	}
	return nil
}
