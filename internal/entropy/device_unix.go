// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build !windows

package entropy

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"
)

func (s *DeviceSource) Read(_ context.Context, p []byte) error {
	path := s.Path
	if path == "" {
		path = DefaultDevicePath
	}

	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("entropy: device: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.ReadFull(f, p); err != nil {
		return fmt.Errorf("entropy: device: read %s: %w", path, err)
	}
	return nil
}
