// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package entropy

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// EGDSource draws entropy from an external EGD-protocol daemon reachable
// at Network/Address (e.g. "unix", "/var/run/egd-pool"), per spec.md
// §4.3 and original_source/src/ottery_entropy_egd.c: a non-blocking
// two-byte request (0x01, n) for n <= 255, followed by a one-byte length
// prefix and the response body.
type EGDSource struct {
	Network string
	Address string
	// Dialer overrides the default net.Dialer when non-nil, primarily for
	// tests.
	Dialer *net.Dialer
}

func (s *EGDSource) Name() string { return "egd" }

func (s *EGDSource) Flags() Flags { return SrcEGD | FlDaemon | FlStrong }

const egdMaxChunk = 255

func (s *EGDSource) Read(ctx context.Context, p []byte) error {
	dialer := s.Dialer
	if dialer == nil {
		dialer = &net.Dialer{Timeout: 5 * time.Second}
	}

	n := len(p)
	got := 0
	for got < n {
		chunk := n - got
		if chunk > egdMaxChunk {
			chunk = egdMaxChunk
		}
		if err := s.readChunk(ctx, dialer, p[got:got+chunk]); err != nil {
			return err
		}
		got += chunk
	}
	return nil
}

func (s *EGDSource) readChunk(ctx context.Context, dialer *net.Dialer, p []byte) error {
	conn, err := dialer.DialContext(ctx, s.Network, s.Address)
	if err != nil {
		return fmt.Errorf("entropy: egd: dial: %w", err)
	}
	defer conn.Close()

	req := [2]byte{0x01, byte(len(p))}
	if _, err := conn.Write(req[:]); err != nil {
		return fmt.Errorf("entropy: egd: write request: %w", err)
	}

	var lenPrefix [1]byte
	if _, err := io.ReadFull(conn, lenPrefix[:]); err != nil {
		return fmt.Errorf("entropy: egd: read length prefix: %w", err)
	}
	got := int(lenPrefix[0])
	if got != len(p) {
		return fmt.Errorf("entropy: egd: daemon returned %d bytes, requested %d", got, len(p))
	}

	if _, err := io.ReadFull(conn, p); err != nil {
		return fmt.Errorf("entropy: egd: read body: %w", err)
	}
	return nil
}
