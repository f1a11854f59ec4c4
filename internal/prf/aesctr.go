// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package prf

import (
	"crypto/aes"
	"crypto/cipher"
)

// AES-CTR key layout: a 256-bit key followed by a 96-bit nonce, per
// spec.md §4.1's optional AES-NI variant. The nonce occupies the high 96
// bits of the 128-bit CTR counter block; the low 32 bits carry the
// per-call block index.
const (
	aesKeyLen     = 32
	aesNonceLen   = 12
	aesStateBytes = aesKeyLen + aesNonceLen
	aesBlockLen   = 16
	// aesWideBlocks mirrors chachaWideBlocks: four parallel 128-bit block
	// evaluations per Generate call, so AES-CTR's output_len (64) lines up
	// with the ChaCha descriptors it stands alongside in the registry.
	aesWideBlocks = 4
	aesOutputLen  = aesBlockLen * aesWideBlocks
)

const aesStateLen = aesKeyLen + aesNonceLen

func aesSetup(state []byte, key []byte) {
	copy(state[:aesStateBytes], key[:aesStateBytes])
}

// aesGenerate emits aesWideBlocks AES-CTR-style block-cipher evaluations
// of nonce||(counter+k), k in [0, aesWideBlocks), into out.
//
// Backends cannot fail per spec.md §4.1; a Descriptor constructed with an
// invalid key would only ever come from a setup bug, so aes.NewCipher
// errors here are treated as internal invariant violations and panic,
// matching the "backends cannot fail" contract rather than threading an
// error return through the Generate signature.
func aesGenerate(state []byte, out []byte, counter uint32) {
	block, err := aes.NewCipher(state[:aesKeyLen])
	if err != nil {
		panic("prf: aes-ctr: invalid key length")
	}

	var iv [aesBlockLen]byte
	copy(iv[:aesNonceLen], state[aesKeyLen:aesStateBytes])

	for k := 0; k < aesWideBlocks; k++ {
		putCounter(iv[aesNonceLen:], counter+uint32(k))
		stream := cipher.NewCTR(block, iv[:])
		var zero [aesBlockLen]byte
		stream.XORKeyStream(out[k*aesBlockLen:(k+1)*aesBlockLen], zero[:])
	}
}

func putCounter(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
