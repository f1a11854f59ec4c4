// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package engine

import "github.com/go-ottery/ottery/internal/entropy"

// Config parameterizes Init, mirroring the options spec.md §6 exposes on
// the root config object: which PRF implementation to force (empty
// selects the best available, per internal/prf.Best), which /dev/urandom
// path to read from, and which entropy sources to disable.
//
// Sources overrides the entropy source list outright; it exists so tests
// can inject deterministic fake sources without touching the filesystem or
// network, and is left nil in production configs.
type Config struct {
	Impl            string
	DevicePath      string
	DisabledSources entropy.Flags
	Sources         []entropy.Source
}

// sourcesForConfig returns the entropy sources Init/AddSeed should read
// from, honoring an explicit override and otherwise applying DevicePath
// to the default device source.
func sourcesForConfig(cfg Config) []entropy.Source {
	if cfg.Sources != nil {
		return cfg.Sources
	}
	dev := &entropy.DeviceSource{}
	if cfg.DevicePath != "" {
		dev.Path = cfg.DevicePath
	}
	return []entropy.Source{dev, entropy.SyscallSource{}, entropy.CPUSource{}}
}
