// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package engine

import (
	"sync"

	"github.com/go-ottery/ottery/internal/entropy"
	"github.com/go-ottery/ottery/internal/prf"
)

// Engine is a self-synchronizing generator: every exported method takes
// its own internal mutex, so a single Engine may be shared freely across
// goroutines. It is the building block of the package pool (spec.md
// §6.7); most callers should obtain one through that pool rather than
// constructing their own.
type Engine struct{ core }

// NolockEngine is identical to Engine except it performs no internal
// locking: callers that already hold exclusive access to one (e.g. one
// per goroutine, or guarded by an external mutex) avoid the mutex
// overhead entirely. Grounded on the locked/nolock Cipher split the
// teacher's chacha20 wrapper exposes.
type NolockEngine struct{ core }

// NewEngine constructs and initializes a lock-guarded Engine.
func NewEngine(cfg Config) (*Engine, error) {
	e := &Engine{}
	if err := e.Init(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// NewNolockEngine constructs and initializes a NolockEngine.
func NewNolockEngine(cfg Config) (*NolockEngine, error) {
	e := &NolockEngine{}
	if err := e.Init(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Init (re)initializes e against cfg, drawing a fresh seed. It is safe to
// call again later to force a full reseed under a different
// configuration.
func (e *Engine) Init(cfg Config) error {
	if e.core.mu == nil {
		e.core.mu = &sync.Mutex{}
	}
	e.core.mu.Lock()
	defer e.core.mu.Unlock()
	return e.core.init(cfg)
}

// Init (re)initializes e against cfg. The caller is responsible for any
// synchronization NolockEngine needs.
func (e *NolockEngine) Init(cfg Config) error {
	if e.core.mu == nil {
		e.core.mu = noopLocker{}
	}
	return e.core.init(cfg)
}

// AddSeed mixes extra entropy into e. A nil or empty seed draws
// StateBytes of fresh material from the configured entropy sources
// instead, matching spec.md §6's add_seed(seed?, n) signature.
func (c *core) AddSeed(seed []byte) error {
	if !c.checkReady() {
		return nil
	}

	if len(seed) == 0 {
		c.mu.Lock()
		need := c.prf.StateBytes
		cfg := c.cfg
		c.mu.Unlock()

		var tmp [prf.MaxStateBytes]byte
		sources := sourcesForConfig(cfg)
		var scratch [prf.MaxStateBytes]byte
		if _, err := entropy.Combine(tmp[:need], scratch[:need], sources, cfg.DisabledSources, 0); err != nil {
			wipeBytes(tmp[:need])
			return wrapEntropyErr(ErrAccessStrongRNG, err)
		}
		defer wipeBytes(tmp[:need])
		c.mu.Lock()
		defer c.mu.Unlock()
		c.mixSeedLocked(tmp[:need])
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mixSeedLocked(seed)
	return nil
}

// mixSeedLocked folds seed into the backend key in StateBytes-sized
// chunks, per spec.md §4.1's add_seed algorithm and the Open Question (c)
// fix: each chunk is min(remaining, state_bytes) long, so a final partial
// chunk is folded in rather than dropped.
func (c *core) mixSeedLocked(seed []byte) {
	remaining := seed
	for len(remaining) > 0 {
		m := len(remaining)
		if m > c.prf.StateBytes {
			m = c.prf.StateBytes
		}
		c.nextBlockNoRekeyLocked()
		for i := 0; i < m; i++ {
			c.buffer[i] ^= remaining[i]
		}
		c.prf.Setup(c.st[:c.prf.StateLen], c.buffer[:c.prf.StateBytes])
		c.blockCounter = 0
		remaining = remaining[m:]
	}
	c.nextBlockRekeyLocked()
}

// Stir is a no-op kept for API parity: every byte handed out is already
// wiped from the buffer and the key is replaced after every block, so
// there is no older output left to forget. It always returns nil.
func (c *core) Stir() error {
	if !c.checkReady() {
		return nil
	}
	return nil
}

// RandBytes fills out with random bytes, per the small/medium and large
// request paths of spec.md §4.2.2.
func (c *core) RandBytes(out []byte) {
	if len(out) == 0 {
		return
	}
	if !c.checkReady() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.postforkCheck() {
		return
	}
	c.randBytesLocked(out)
}

func (c *core) randBytesLocked(out []byte) {
	n := len(out)
	l := c.prf.OutputLen
	k := c.prf.StateBytes

	if n+c.pos < 2*l-k-1 {
		c.smallReadLocked(out)
		return
	}

	tail := l - c.pos
	copy(out[:tail], c.buffer[c.pos:l])
	wipeBytes(c.buffer[c.pos:l])
	out = out[tail:]
	c.pos = l

	for len(out) >= l {
		c.nextBlockNoRekeyLocked()
		copy(out[:l], c.buffer[:l])
		out = out[l:]
	}

	c.nextBlockRekeyLocked()
	for len(out) >= l-k {
		copy(out[:l-k], c.buffer[k:l])
		wipeBytes(c.buffer[k:l])
		out = out[l-k:]
		c.nextBlockRekeyLocked()
	}
	rem := len(out)
	copy(out, c.buffer[k:k+rem])
	wipeBytes(c.buffer[k : k+rem])
	c.pos = k + rem
}

func (c *core) smallReadLocked(out []byte) {
	n := len(out)
	l := c.prf.OutputLen

	if n+c.pos < l {
		copy(out, c.buffer[c.pos:c.pos+n])
		wipeBytes(c.buffer[c.pos : c.pos+n])
		c.pos += n
		return
	}

	head := l - c.pos
	copy(out[:head], c.buffer[c.pos:l])
	wipeBytes(c.buffer[c.pos:l])

	c.nextBlockRekeyLocked()

	rem := out[head:]
	copy(rem, c.buffer[c.pos:c.pos+len(rem)])
	wipeBytes(c.buffer[c.pos : c.pos+len(rem)])
	c.pos += len(rem)
}

// randFixedLocked serves a small, fixed-size draw (the building block
// behind RandUint32/RandUint64), discarding any buffer tail shorter than
// the request rather than splitting it across a rekey, per spec.md
// §4.2.3.
func (c *core) randFixedLocked(out []byte) {
	s := len(out)
	l := c.prf.OutputLen

	if c.pos+s > l {
		c.nextBlockRekeyLocked()
	}
	copy(out, c.buffer[c.pos:c.pos+s])
	wipeBytes(c.buffer[c.pos : c.pos+s])
	c.pos += s
	if c.pos == l {
		c.nextBlockRekeyLocked()
	}
}

// RandUint32 returns one uniformly random uint32.
func (c *core) RandUint32() uint32 {
	if !c.checkReady() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.postforkCheck() {
		return 0
	}
	var buf [4]byte
	c.randFixedLocked(buf[:])
	return le32(buf[:])
}

// RandUnsigned is an alias of RandUint32, matching the C "unsigned int"
// accessor spec.md §6 names alongside it.
func (c *core) RandUnsigned() uint32 { return c.RandUint32() }

// RandUint64 returns one uniformly random uint64.
func (c *core) RandUint64() uint64 {
	if !c.checkReady() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.postforkCheck() {
		return 0
	}
	var buf [8]byte
	c.randFixedLocked(buf[:])
	return le64(buf[:])
}

// Wipe zeros and invalidates the engine; any method called after Wipe
// other than Init re-triggers the use-before-init fatal path.
func (c *core) Wipe() {
	c.mu.Lock()
	wipeBytes(c.st[:])
	wipeBytes(c.buffer[:])
	c.pos = 0
	c.blockCounter = 0
	c.ready = false
	c.mu.Unlock()
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func le64(b []byte) uint64 {
	return uint64(le32(b[:4])) | uint64(le32(b[4:8]))<<32
}
