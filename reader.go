// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ottery

import (
	"fmt"
	"io"
	mrand "math/rand/v2"
	"runtime"
	"sync"

	"github.com/go-ottery/ottery/internal/engine"
)

// Reader is a global, cryptographically secure random source, backed by
// a pool of independent engines. It is initialized at package load time
// and is safe for concurrent use. If initialization fails (e.g. no
// strong entropy source is available), the package panics.
//
// Example usage:
//
//	buffer := make([]byte, 64)
//	n, err := Reader.Read(buffer)
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Printf("Read %d bytes of random data: %x\n", n, buffer)
var Reader io.Reader

// Interface defines the contract for an ottery-backed cryptographically
// secure pseudorandom number generator.
//
// Implementations of Interface provide a thread-safe source of
// cryptographically strong random bytes, and must also satisfy the
// io.Reader interface, making them compatible with standard Go APIs that
// consume randomness (e.g. encoding, crypto, and token generation).
//
// All methods are safe for concurrent use unless otherwise noted.
type Interface interface {
	io.Reader

	// Config returns a copy of the Reader's configuration. The returned
	// Config contains only non-secret, immutable parameters and omits any
	// runtime state or cryptographic keys.
	Config() Config
}

// init sets up the package-level Reader by creating a new pooled engine
// source. It is invoked automatically at program startup. If NewReader
// fails (e.g. no strong entropy source is available), init panics to
// prevent running without a secure random source.
func init() {
	r, err := NewReader()
	if err != nil {
		panic(fmt.Sprintf("ottery: package Reader init failed: %v", err))
	}
	Reader = r
}

// reader wraps a sync.Pool-per-shard set of *engine.Engine instances to
// provide an io.Reader that efficiently reuses forward-secure generator
// state across calls. Each call to Read pulls an engine from a shard,
// uses it to fill the provided buffer, and returns it to the pool.
type reader struct {
	config *Config
	pools  []*sync.Pool
}

// NewReader constructs and returns an io.Reader that produces
// cryptographically secure pseudo-random bytes using a pool of
// ottery-engine instances. Functional options may be supplied to
// customize the PRF implementation, entropy sources, and pool shape.
//
// The returned Reader is safe for concurrent use. If the pool cannot be
// initialized, NewReader returns an error.
//
// Example:
//
//	r, err := ottery.NewReader()
//	if err != nil {
//	    // handle error
//	}
//	buf := make([]byte, 32)
//	n, err := r.Read(buf)
func NewReader(opts ...Option) (Interface, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Shards <= 0 {
		cfg.Shards = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxInitRetries <= 0 {
		cfg.MaxInitRetries = 3
	}

	ecfg := cfg.engineConfig()

	// Validate the configuration eagerly, with retries, so a bad
	// implementation name or an entropy failure surfaces here rather than
	// on first Read. The error from the final attempt is wrapped with %w
	// so callers can errors.Is against it (e.g. ErrInvalidArgument).
	var probeErr error
	for r := 0; r < cfg.MaxInitRetries; r++ {
		var e *engine.Engine
		if e, probeErr = engine.NewEngine(ecfg); probeErr == nil {
			_ = e
			break
		}
	}
	if probeErr != nil {
		return nil, fmt.Errorf("ottery: pool initialization failed after %d retries: %w", cfg.MaxInitRetries, probeErr)
	}

	pools := make([]*sync.Pool, cfg.Shards)
	for i := range pools {
		pools[i] = &sync.Pool{
			New: func() interface{} {
				// The configuration was already validated above, so a
				// failure here reflects transient entropy exhaustion;
				// retry the same number of times before giving up.
				var e *engine.Engine
				var err error
				for r := 0; r < cfg.MaxInitRetries; r++ {
					if e, err = engine.NewEngine(ecfg); err == nil {
						return e
					}
				}
				return nil
			},
		}
	}

	return &reader{pools: pools, config: &cfg}, nil
}

// Config returns a copy of the Reader's configuration settings.
func (r *reader) Config() Config {
	return *r.config
}

// shardIndex selects a pseudo-random shard index in [0, n) using a fast,
// non-cryptographic global RNG, to spread load across shards without
// mutex contention.
func shardIndex(n int) int {
	return mrand.IntN(n)
}

// Read fills b with cryptographically secure random data. It implements
// io.Reader and is safe for concurrent use. Each call borrows an engine
// from an internal shard pool, ensuring safe concurrent usage without
// shared mutable state between callers.
func (r *reader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	n := len(r.pools)
	shard := 0
	if n > 1 {
		shard = shardIndex(n)
	}

	e := r.pools[shard].Get().(*engine.Engine)
	defer r.pools[shard].Put(e)

	e.RandBytes(b)
	return len(b), nil
}
