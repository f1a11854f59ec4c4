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
)

// SyscallSource draws entropy from the Go runtime's platform system call
// (getrandom(2), CryptGenRandom, getentropy, …) via crypto/rand, which
// already resolves to the OS's strong RNG syscall on every Go-supported
// platform.
type SyscallSource struct{}

func (SyscallSource) Name() string { return "syscall" }

func (SyscallSource) Flags() Flags { return SrcCryptGenRandom | FlOS | FlStrong }

func (SyscallSource) Read(_ context.Context, p []byte) error {
	if _, err := io.ReadFull(rand.Reader, p); err != nil {
		return fmt.Errorf("entropy: syscall: %w", err)
	}
	return nil
}
