// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package entropy

// DefaultDevicePath is the device-RNG file opened when no override is
// configured.
const DefaultDevicePath = "/dev/urandom"

// DeviceSource reads entropy from a device-RNG file such as /dev/urandom,
// opened read-only and close-on-exec for each call on Unix
// (device_unix.go). Windows has no such device file, so device_windows.go
// falls back to crypto/rand.Reader, which already wraps CryptGenRandom;
// see original_source/src/ottery_osrng.c's Windows-vs-Unix split.
type DeviceSource struct {
	// Path overrides DefaultDevicePath when non-empty. Ignored on Windows.
	Path string
}

func (s *DeviceSource) Name() string { return "device" }

func (s *DeviceSource) Flags() Flags { return SrcRandomDev | FlOS | FlStrong }
