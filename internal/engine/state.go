// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package engine

import (
	"unsafe"

	"github.com/go-ottery/ottery/internal/entropy"
	"github.com/go-ottery/ottery/internal/prf"
)

// locker abstracts the synchronization Engine and NolockEngine apply
// around their shared core: a real sync.Mutex for Engine, a no-op for
// NolockEngine whose callers supply their own external synchronization.
// Grounded on the exported-wrapper-over-shared-core pattern the teacher
// uses to split its Cipher variants.
type locker interface {
	Lock()
	Unlock()
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// core holds everything an Engine and a NolockEngine share: the PRF
// descriptor currently selected, its opaque state bytes, the output
// buffer and read cursor, the counter driving Generate, and the last
// observed process id used to detect a fork.
type core struct {
	mu locker

	cfg  Config
	prf  prf.Descriptor
	ctx  entropy.Flags // accumulated flags across every reseed this engine has performed

	st     *[prf.MaxStateLen]byte // separate allocation, see init
	buffer [prf.MaxOutputLen]byte

	blockCounter uint32
	pos          int
	pid          int
	ready        bool
}

func (c *core) checkReady() bool {
	if !c.ready {
		fatal(FlagStateInit)
		return false
	}
	return true
}

// init performs first-time (or re-) initialization of c against cfg: it
// resolves the PRF implementation, validates the chosen descriptor's
// invariants, checks opaque-state alignment, and draws an initial seed.
func (c *core) init(cfg Config) error {
	var desc prf.Descriptor
	if cfg.Impl == "" {
		desc = prf.Best()
	} else {
		var err error
		desc, err = prf.Select(cfg.Impl)
		if err != nil {
			return ErrInvalidArgument
		}
	}
	if !desc.Valid() {
		return ErrInternal
	}
	// Go only guarantees a [N]byte its natural (1-byte) alignment, so an
	// array embedded in core would sit wherever the surrounding fields put
	// it. c.st is therefore its own pointer-free allocation, which the
	// heap allocator places on a 16-byte boundary; we confirm that here
	// rather than assume it, mirroring the explicit check
	// original_source/src/ottery_st.h performs before use.
	if c.st == nil {
		c.st = new([prf.MaxStateLen]byte)
	}
	if uintptr(unsafe.Pointer(&c.st[0]))%16 != 0 {
		return ErrStateAlignment
	}

	c.cfg = cfg
	c.prf = desc
	c.pos = 0
	c.blockCounter = 0
	c.ctx = 0

	if err := c.reseed(); err != nil {
		return err
	}
	c.pid = currentPID()
	c.ready = true
	return nil
}

// reseed draws StateBytes of fresh keying material from the configured
// entropy sources and re-keys the backend, per spec.md §4.1.
func (c *core) reseed() error {
	need := c.prf.StateBytes
	var seed, scratch [prf.MaxStateBytes]byte

	sources := sourcesForConfig(c.cfg)
	flags, err := entropy.Combine(seed[:need], scratch[:need], sources, c.cfg.DisabledSources, 0)
	if err != nil {
		wipeBytes(seed[:need])
		if c.ready {
			return wrapEntropyErr(ErrAccessStrongRNG, err)
		}
		return wrapEntropyErr(ErrInitStrongRNG, err)
	}

	c.prf.Setup(c.st[:c.prf.StateLen], seed[:need])
	wipeBytes(seed[:need])
	c.blockCounter = 0
	c.nextBlockRekeyLocked()
	c.ctx |= flags
	return nil
}

// postforkCheck reseeds c if the process id has changed since the last
// operation, matching the fork-safety invariant of spec.md §4.4. Must be
// called with c.mu held.
func (c *core) postforkCheck() bool {
	pid := currentPID()
	if pid == c.pid {
		return true
	}
	if err := c.reseed(); err != nil {
		code, _ := ErrAsCode(err)
		fatal(code | FlagPostforkReseed)
		return false
	}
	c.pid = pid
	return true
}

// ErrAsCode unwraps err looking for a wrapped Code, the same way
// errors.As would if Code implemented an Is/As hook. reseed's errors are
// built with wrapEntropyErr, which uses fmt.Errorf("%w: %v", ...) and so
// never stores a bare Code at the top level; callers outside this package
// (global.go's mustGlobal) need this to recover the original Code instead
// of a type-asserting on err directly, which would always fail.
func ErrAsCode(err error) (Code, bool) {
	type coder interface{ Unwrap() error }
	for {
		if c, ok := err.(Code); ok {
			return c, true
		}
		u, ok := err.(coder)
		if !ok {
			return ErrInternal, false
		}
		err = u.Unwrap()
		if err == nil {
			return ErrInternal, false
		}
	}
}

// nextBlockNoRekeyLocked fills the buffer with one fresh PRF block without
// re-keying, per spec.md §4.2.1.
func (c *core) nextBlockNoRekeyLocked() {
	c.prf.Generate(c.st[:c.prf.StateLen], c.buffer[:c.prf.OutputLen], c.blockCounter)
	c.blockCounter += uint32(c.prf.IdxStep)
	wipeStack()
}

// nextBlockRekeyLocked fills the buffer, then consumes its first
// StateBytes as the next backend key, restoring forward secrecy (P1).
func (c *core) nextBlockRekeyLocked() {
	c.nextBlockNoRekeyLocked()
	k := c.prf.StateBytes
	c.prf.Setup(c.st[:c.prf.StateLen], c.buffer[:k])
	wipeBytes(c.buffer[:k])
	c.blockCounter = 0
	c.pos = k
}
