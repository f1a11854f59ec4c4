// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ottery

import (
	"sync"

	"github.com/go-ottery/ottery/internal/engine"
)

var (
	globalOnce sync.Once
	globalMu   sync.Mutex
	globalEng  *engine.Engine
	globalErr  error
)

// GetGlobal returns the package's lazily-initialized, shared engine,
// taking a handle callers can use directly instead of going through the
// implicit-state functions below. It is initialized at most once, on
// first call, using DefaultConfig, unless Init has already installed a
// differently-configured engine.
func GetGlobal() (*engine.Engine, error) {
	globalOnce.Do(func() {
		globalMu.Lock()
		defer globalMu.Unlock()
		if globalEng != nil {
			return
		}
		globalEng = &engine.Engine{}
		globalErr = globalEng.Init(DefaultConfig().engineConfig())
	})
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalEng, globalErr
}

// mustGlobal returns the global engine, reporting a failed lazy
// initialization through the fatal-handler path (flagged
// FlagGlobalPRNGInit) instead of a return value, matching the no-error
// signatures of the implicit-state functions below.
func mustGlobal() *engine.Engine {
	e, err := GetGlobal()
	if err != nil {
		code, _ := engine.ErrAsCode(err)
		engine.Fatal(code | engine.FlagGlobalPRNGInit)
		return nil
	}
	return e
}

// Init (re)initializes the package-level global engine against cfg,
// drawing a fresh seed. Unlike GetGlobal's lazy first-use semantics, Init
// is explicit and may be called again later to reconfigure the global
// engine.
func Init(cfg Config) error {
	globalMu.Lock()
	if globalEng == nil {
		globalEng = &engine.Engine{}
	}
	e := globalEng
	globalMu.Unlock()

	err := e.Init(cfg.engineConfig())

	globalMu.Lock()
	globalErr = err
	globalMu.Unlock()
	return err
}

// AddSeed mixes extra entropy into the global engine. A nil or empty seed
// draws fresh material from the configured entropy sources instead.
func AddSeed(seed []byte) error {
	e := mustGlobal()
	if e == nil {
		return nil
	}
	return e.AddSeed(seed)
}

// RandBytes fills out with random bytes drawn from the global engine.
func RandBytes(out []byte) {
	if e := mustGlobal(); e != nil {
		e.RandBytes(out)
	}
}

// RandUnsigned returns one uniformly random uint32 from the global
// engine.
func RandUnsigned() uint32 {
	if e := mustGlobal(); e != nil {
		return e.RandUnsigned()
	}
	return 0
}

// RandUint32 returns one uniformly random uint32 from the global engine.
func RandUint32() uint32 {
	if e := mustGlobal(); e != nil {
		return e.RandUint32()
	}
	return 0
}

// RandUint64 returns one uniformly random uint64 from the global engine.
func RandUint64() uint64 {
	if e := mustGlobal(); e != nil {
		return e.RandUint64()
	}
	return 0
}

// RandRange returns a uniformly random value in [0, top] from the global
// engine.
func RandRange(top uint32) uint32 {
	if e := mustGlobal(); e != nil {
		return e.RandRange(top)
	}
	return 0
}

// RandRange64 returns a uniformly random value in [0, top] from the
// global engine.
func RandRange64(top uint64) uint64 {
	if e := mustGlobal(); e != nil {
		return e.RandRange64(top)
	}
	return 0
}

// Stir calls Stir on the global engine, which is a no-op: bytes it has
// handed out are already wiped from its buffer. It always returns nil.
func Stir() error {
	e := mustGlobal()
	if e == nil {
		return nil
	}
	return e.Stir()
}

// Wipe zeros and invalidates the global engine. A subsequent call to any
// other package function re-triggers the use-before-init fatal path until
// Init is called again; GetGlobal keeps returning the wiped engine.
func Wipe() {
	globalMu.Lock()
	e := globalEng
	globalMu.Unlock()
	if e != nil {
		e.Wipe()
	}
}
