// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ottery/ottery/internal/entropy"
)

type constSource struct {
	fill byte
}

func (s constSource) Name() string         { return "const" }
func (s constSource) Flags() entropy.Flags { return entropy.FlStrong }
func (s constSource) Read(_ context.Context, p []byte) error {
	for i := range p {
		p[i] = s.fill
	}
	return nil
}

func testConfig() Config {
	return Config{
		Impl:    "CHACHA8-NOSIMD",
		Sources: []entropy.Source{constSource{fill: 0x5a}},
	}
}

func Test_Engine_RandBytesIsDeterministicForFixedSeed(t *testing.T) {
	e1, err := NewEngine(testConfig())
	require.NoError(t, err)
	e2, err := NewEngine(testConfig())
	require.NoError(t, err)

	out1 := make([]byte, 1000)
	out2 := make([]byte, 1000)
	e1.RandBytes(out1)
	e2.RandBytes(out2)
	assert.True(t, bytes.Equal(out1, out2), "identical seeds must yield identical streams")
}

func Test_Engine_RandBytesAnySizeHasNoGaps(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)

	for _, n := range []int{0, 1, 63, 64, 65, 127, 200, 1000, 4096} {
		out := make([]byte, n)
		e.RandBytes(out)
		if n == 0 {
			continue
		}
		allZero := true
		for _, b := range out {
			if b != 0 {
				allZero = false
				break
			}
		}
		assert.False(t, allZero, "n=%d: output should not be all-zero", n)
	}
}

func Test_Engine_BufferNeverLeaksAcrossRekey(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		out := make([]byte, 17)
		e.RandBytes(out)
	}
	k := e.core.prf.StateBytes
	assert.True(t, bytes.Equal(e.core.buffer[:k], make([]byte, k)), "yielded key material must stay zeroed")
}

func Test_Engine_AddSeedChangesOutput(t *testing.T) {
	e1, err := NewEngine(testConfig())
	require.NoError(t, err)
	e2, err := NewEngine(testConfig())
	require.NoError(t, err)

	require.NoError(t, e2.core.AddSeed([]byte("extra entropy mixed in by the caller")))

	out1 := make([]byte, 64)
	out2 := make([]byte, 64)
	e1.RandBytes(out1)
	e2.RandBytes(out2)
	assert.False(t, bytes.Equal(out1, out2))
}

func Test_Engine_AddSeedWithOddLengthDoesNotDropTail(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)
	// StateBytes for CHACHA8-NOSIMD is 40; an odd, non-multiple length
	// exercises the Open Question (c) partial-chunk fix in mixSeedLocked.
	require.NoError(t, e.core.AddSeed([]byte("13 bytes!!!!!")))

	// A second engine seeded with a different final byte must diverge,
	// which only holds if the partial chunk was folded in.
	e2, err := NewEngine(testConfig())
	require.NoError(t, err)
	require.NoError(t, e2.core.AddSeed([]byte("13 bytes!!!!?")))

	out1 := make([]byte, 32)
	out2 := make([]byte, 32)
	e.RandBytes(out1)
	e2.RandBytes(out2)
	assert.False(t, bytes.Equal(out1, out2), "the last byte of the seed must affect the stream")
}

func Test_Engine_RandUint32AndUint64Vary(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)

	seen32 := map[uint32]bool{}
	for i := 0; i < 32; i++ {
		seen32[e.RandUint32()] = true
	}
	assert.Greater(t, len(seen32), 1)

	a := e.RandUint64()
	b := e.RandUint64()
	assert.NotEqual(t, a, b)
}

func Test_Engine_RandRangeStaysInBounds(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)

	for _, top := range []uint32{0, 1, 2, 5, 17, 255, 1 << 20} {
		for i := 0; i < 50; i++ {
			v := e.RandRange(top)
			assert.LessOrEqual(t, v, top)
		}
	}
}

func Test_Engine_RandRangeMaxUint32DoesNotHang(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)
	v := e.RandRange(^uint32(0))
	_ = v // any uint32 value satisfies v <= math.MaxUint32
}

func Test_Engine_RandRange64StaysInBounds(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)

	for _, top := range []uint64{0, 1, 5, 1 << 40, ^uint64(0)} {
		v := e.RandRange64(top)
		assert.LessOrEqual(t, v, top)
	}
}

func Test_NolockEngine_ProducesOutput(t *testing.T) {
	e, err := NewNolockEngine(testConfig())
	require.NoError(t, err)
	out := make([]byte, 128)
	e.RandBytes(out)
	assert.NotEqual(t, make([]byte, 128), out)
}

func Test_Engine_ReinitChangesStream(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)
	first := make([]byte, 32)
	e.RandBytes(first)

	require.NoError(t, e.Init(Config{
		Impl:    "CHACHA8-NOSIMD",
		Sources: []entropy.Source{constSource{fill: 0xa5}},
	}))
	second := make([]byte, 32)
	e.RandBytes(second)
	assert.False(t, bytes.Equal(first, second))
}

func Test_Engine_StirDoesNotRepeatOutput(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)
	before := make([]byte, 32)
	e.RandBytes(before)
	require.NoError(t, e.core.Stir())
	after := make([]byte, 32)
	e.RandBytes(after)
	assert.False(t, bytes.Equal(before, after))
}

func Test_Engine_WipeZeroesStateAndRequiresReinit(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)
	e.core.Wipe()
	assert.False(t, e.core.ready)

	var fired Code
	SetFatalHandler(func(c Code) { fired = c })
	defer SetFatalHandler(nil)

	out := make([]byte, 8)
	e.RandBytes(out)
	assert.Equal(t, FlagStateInit, fired)
}

// varyingSource fills p with a value that changes on every Read call, so
// successive reseeds are never bit-identical, unlike constSource above.
type varyingSource struct {
	calls uint32
}

func (s *varyingSource) Name() string         { return "varying" }
func (s *varyingSource) Flags() entropy.Flags { return entropy.FlStrong }
func (s *varyingSource) Read(_ context.Context, p []byte) error {
	s.calls++
	for i := range p {
		p[i] = byte(s.calls) + byte(i)
	}
	return nil
}

// Test_Engine_PostforkCheckReseedsAndAdoptsCurrentPID exercises property
// P7 (spec.md §8 scenario 5): a detected pid change must trigger a reseed
// and adopt the new pid, so that a forked child's stream diverges from its
// parent's within the first bytes drawn after the fork.
func Test_Engine_PostforkCheckReseedsAndAdoptsCurrentPID(t *testing.T) {
	e, err := NewEngine(Config{
		Impl:    "CHACHA8-NOSIMD",
		Sources: []entropy.Source{&varyingSource{}},
	})
	require.NoError(t, err)

	before := make([]byte, 16)
	e.RandBytes(before)

	originalPid := e.core.pid
	fakePid := originalPid + 1000003
	e.core.pid = fakePid

	e.core.mu.Lock()
	ok := e.core.postforkCheck()
	e.core.mu.Unlock()

	require.True(t, ok, "postforkCheck must succeed when reseed succeeds")
	assert.Equal(t, currentPID(), e.core.pid, "postforkCheck must adopt the current pid")
	assert.NotEqual(t, fakePid, e.core.pid)

	after := make([]byte, 16)
	e.RandBytes(after)
	assert.False(t, bytes.Equal(before, after), "engine must diverge after a detected fork (P7)")
}

// Test_Engine_PostforkCheckNoopWhenPIDUnchanged confirms the common case
// does not reseed: a same-process call must leave the pid and the
// existing key schedule untouched.
func Test_Engine_PostforkCheckNoopWhenPIDUnchanged(t *testing.T) {
	e, err := NewEngine(testConfig())
	require.NoError(t, err)

	pidBefore := e.core.pid
	e.core.mu.Lock()
	ok := e.core.postforkCheck()
	e.core.mu.Unlock()

	assert.True(t, ok)
	assert.Equal(t, pidBefore, e.core.pid)
}

// Test_Engine_RandRangeCoversFullRange checks spec.md §8 scenario 4: for
// top=5, 1000 draws from RandRange must include every value in {0..5}, not
// merely respect the upper bound.
func Test_Engine_RandRangeCoversFullRange(t *testing.T) {
	e, err := NewEngine(Config{Sources: []entropy.Source{entropy.SyscallSource{}}})
	require.NoError(t, err)

	const top = uint32(5)
	seen := make(map[uint32]bool, top+1)
	for i := 0; i < 1000; i++ {
		v := e.RandRange(top)
		require.LessOrEqual(t, v, top)
		seen[v] = true
	}
	for v := uint32(0); v <= top; v++ {
		assert.Truef(t, seen[v], "RandRange(%d) never produced %d across 1000 draws", top, v)
	}
}

// Test_Engine_RandRange64CoversFullRange is RandRange64's analogue of
// Test_Engine_RandRangeCoversFullRange.
func Test_Engine_RandRange64CoversFullRange(t *testing.T) {
	e, err := NewEngine(Config{Sources: []entropy.Source{entropy.SyscallSource{}}})
	require.NoError(t, err)

	const top = uint64(5)
	seen := make(map[uint64]bool, top+1)
	for i := 0; i < 1000; i++ {
		v := e.RandRange64(top)
		require.LessOrEqual(t, v, top)
		seen[v] = true
	}
	for v := uint64(0); v <= top; v++ {
		assert.Truef(t, seen[v], "RandRange64(%d) never produced %d across 1000 draws", top, v)
	}
}

func Test_Code_IsFatalDistinguishesFlags(t *testing.T) {
	assert.False(t, ErrInvalidArgument.IsFatal())
	assert.True(t, (ErrInvalidArgument | FlagPostforkReseed).IsFatal())
}
