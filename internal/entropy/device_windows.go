// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build windows

package entropy

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
)

// Windows has no /dev/urandom-equivalent device file; crypto/rand.Reader
// already resolves to CryptGenRandom (or BCryptGenRandom on newer
// runtimes), so the device path is unused here and Path is ignored.
func (s *DeviceSource) Read(_ context.Context, p []byte) error {
	if _, err := io.ReadFull(rand.Reader, p); err != nil {
		return fmt.Errorf("entropy: device: %w", err)
	}
	return nil
}
