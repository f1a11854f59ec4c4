// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package ottery provides a cryptographically secure pseudo-random number
// generator modeled on BSD arc4random: a buffered, forward-secure,
// fork-safe ChaCha-based stream, seeded from multiple independent
// entropy sources and exposed both as an io.Reader and as a package-level
// implicit-state API.
//
// This package is part of the experimental "x" modules and may be
// subject to change.
package ottery

import (
	"runtime"

	"github.com/go-ottery/ottery/internal/engine"
	"github.com/go-ottery/ottery/internal/entropy"
)

// Config defines the tunable parameters for an ottery engine and the
// Reader pool built on top of it.
//
// Fields:
//   - Impl: forces a specific PRF implementation name (e.g. "CHACHA20",
//     "CHACHA20-SIMD", "AES-CTR"); empty selects the best available for
//     the host.
//   - URandomDevice: overrides the device-RNG file path consulted by the
//     device entropy source; empty uses the platform default.
//   - DisabledEntropySources: a mask of entropy.Flags identity bits to
//     exclude from the combiner, mirroring
//     ottery_config_disable_entropy_sources.
//   - MaxInitRetries: number of attempts to initialize a pool entry
//     before giving up. If zero, a default of 3 is used.
//   - Shards: number of independent sync.Pool shards backing a Reader.
//     If zero, defaults to runtime.GOMAXPROCS(0).
type Config struct {
	Impl                   string
	URandomDevice          string
	DisabledEntropySources entropy.Flags
	MaxInitRetries         int
	Shards                 int
}

// engineConfig translates the public Config into the internal engine's
// Config shape.
func (c Config) engineConfig() engine.Config {
	return engine.Config{
		Impl:            c.Impl,
		DevicePath:      c.URandomDevice,
		DisabledSources: c.DisabledEntropySources,
	}
}

// DefaultConfig returns a Config populated with production-safe defaults:
// best-available implementation, default device path, no disabled
// sources, 3 init retries, and GOMAXPROCS(0) shards.
//
// Example usage:
//
//	cfg := ottery.DefaultConfig()
func DefaultConfig() Config {
	return Config{
		MaxInitRetries: 3,
		// Ref: Use of GOMAXPROCS is fine for now: https://github.com/golang/go/issues/73193
		Shards: runtime.GOMAXPROCS(0),
	}
}

// Option defines a functional option for customizing a Config.
//
// Use Option values with NewReader; Init takes a Config directly.
//
// Example:
//
//	r, err := ottery.NewReader(
//	    ottery.WithImplementation("CHACHA20-SIMD"),
//	    ottery.WithShards(4),
//	)
type Option func(*Config)

// WithImplementation returns an Option that forces a specific PRF
// implementation by name, mirroring
// ottery_config_force_implementation. An unknown or unsupported name
// surfaces as ErrInvalidArgument from Init/NewReader.
func WithImplementation(name string) Option {
	return func(cfg *Config) { cfg.Impl = name }
}

// WithURandomDevice returns an Option that overrides the device-RNG file
// path, mirroring ottery_config_set_urandom_device.
func WithURandomDevice(path string) Option {
	return func(cfg *Config) { cfg.URandomDevice = path }
}

// WithDisabledEntropySources returns an Option that excludes the given
// entropy.Flags identity bits from the combiner, mirroring
// ottery_config_disable_entropy_sources.
func WithDisabledEntropySources(mask entropy.Flags) Option {
	return func(cfg *Config) { cfg.DisabledEntropySources = mask }
}

// WithMaxInitRetries returns an Option that sets the maximum number of
// pool-entry initialization retries.
func WithMaxInitRetries(r int) Option {
	return func(cfg *Config) { cfg.MaxInitRetries = r }
}

// WithShards sets the number of independent sync.Pool shards a Reader
// uses.
//
// Note: if n <= 0, the number of shards defaults to runtime.GOMAXPROCS(0),
// which is useful in containerized environments.
// See: https://github.com/golang/go/issues/73193
func WithShards(n int) Option {
	return func(cfg *Config) { cfg.Shards = n }
}
