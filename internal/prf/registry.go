// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package prf

import (
	"fmt"
	"strings"

	"golang.org/x/sys/cpu"
)

// ErrInvalidArgument is returned by Select when name does not match any
// registered Descriptor.
var ErrInvalidArgument = fmt.Errorf("prf: unknown implementation name")

func chachaDescriptor(rounds int, flav string, wide bool, cap_ CapSet) Descriptor {
	name := fmt.Sprintf("CHACHA%d", rounds)
	impl := name + "-" + flav
	outputLen := chachaBlockLen
	idxStep := 1
	generate := chachaGenerateScalar(rounds)
	if wide {
		outputLen = chachaBlockLen * chachaWideBlocks
		idxStep = chachaWideBlocks
		generate = chachaGenerateWide(rounds)
	}
	return Descriptor{
		Name:           name,
		Impl:           impl,
		Flav:           flav,
		StateLen:       chachaStateLen,
		StateBytes:     chachaStateLen,
		OutputLen:      outputLen,
		IdxStep:        idxStep,
		RequiredCPUCap: cap_,
		Setup:          chachaSetup,
		Generate:       generate,
	}
}

func aesDescriptor() Descriptor {
	return Descriptor{
		Name:           "AES",
		Impl:           "AES-CTR",
		Flav:           "NOSIMD",
		StateLen:       aesStateLen,
		StateBytes:     aesStateBytes,
		OutputLen:      aesOutputLen,
		IdxStep:        aesWideBlocks,
		RequiredCPUCap: CapAES,
		Setup:          aesSetup,
		Generate:       aesGenerate,
	}
}

// registry lists every compiled-in PRF variant, tagged with the CPU
// capability bits required to select it. Scalar variants require nothing;
// widened variants are gated on a vector capability purely to exercise the
// same selection contract a true SIMD implementation would need, per
// SPEC_FULL.md §6.1.
var registry = []Descriptor{
	chachaDescriptor(8, "NOSIMD", false, CapNone),
	chachaDescriptor(12, "NOSIMD", false, CapNone),
	chachaDescriptor(20, "NOSIMD", false, CapNone),
	chachaDescriptor(8, "SIMD", true, CapSSE2),
	chachaDescriptor(12, "SIMD", true, CapSSE2),
	chachaDescriptor(20, "SIMD", true, CapSSE2),
	aesDescriptor(),
}

// hostCaps reports the capability bits available on the running host.
func hostCaps() CapSet {
	var c CapSet
	if cpu.X86.HasSSE2 {
		c |= CapSSE2
	}
	if cpu.X86.HasAVX2 {
		c |= CapAVX2
	}
	if cpu.ARM64.HasASIMD {
		c |= CapNEON
	}
	if cpu.X86.HasAES {
		c |= CapAES
	}
	if cpu.X86.HasRDRAND {
		c |= CapRDRAND
	}
	return c
}

// Select returns the Descriptor whose Impl name matches name exactly, or
// whose Name matches when name carries no flavor suffix (e.g. "CHACHA20"
// resolves to the best available flavor for the host, "CHACHA" aliases
// "CHACHA20"). It returns ErrInvalidArgument if name is unknown or if the
// selected variant requires CPU capabilities the host lacks.
func Select(name string) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, ErrInvalidArgument
	}
	if name == "CHACHA" {
		name = "CHACHA20"
	}
	caps := hostCaps()

	// Exact implementation-name match, e.g. "CHACHA20-SIMD".
	for _, d := range registry {
		if d.Impl == name {
			if !caps.Has(d.RequiredCPUCap) {
				return Descriptor{}, ErrInvalidArgument
			}
			return d, nil
		}
	}

	// Bare family name: pick the best flavor the host supports.
	upper := strings.ToUpper(name)
	var best *Descriptor
	for i := range registry {
		d := &registry[i]
		if d.Name != upper {
			continue
		}
		if !caps.Has(d.RequiredCPUCap) {
			continue
		}
		if best == nil || d.OutputLen > best.OutputLen {
			best = d
		}
	}
	if best == nil {
		return Descriptor{}, ErrInvalidArgument
	}
	return *best, nil
}

// Best returns the highest-throughput Descriptor available on the host,
// preferring ChaCha20 in its widened flavor when the host's capabilities
// allow it, falling back to the scalar flavor otherwise. It never fails:
// the plain scalar ChaCha20 descriptor requires no capability bits and is
// always selectable.
func Best() Descriptor {
	d, err := Select("CHACHA20")
	if err != nil {
		// Unreachable in practice: CHACHA20-NOSIMD requires CapNone.
		return registry[2]
	}
	return d
}
