// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ottery

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

// benchConcurrent runs fn across the specified number of goroutines,
// distributing b.N iterations as evenly as possible.
func benchConcurrent(b *testing.B, fn func(), goroutines int) {
	nPerG := b.N / goroutines
	rem := b.N % goroutines
	var wg sync.WaitGroup
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < goroutines; i++ {
		iters := nPerG
		if i < rem {
			iters++
		}
		wg.Add(1)
		go func(iters int) {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				fn()
			}
		}(iters)
	}
	wg.Wait()
}

// itoa converts a non-negative integer to its decimal string
// representation using a fixed-size buffer, for cheap sub-benchmark names.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [12]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = '0' + byte(i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// BenchmarkUUID_v4_Default_Serial measures the baseline performance of
// uuid.New() using the default (crypto/rand) random source in a serial loop.
func BenchmarkUUID_v4_Default_Serial(b *testing.B) {
	uuid.SetRand(nil)
	b.ReportAllocs()
	for b.Loop() {
		_ = uuid.New()
	}
}

// BenchmarkUUID_v4_Default_Parallel benchmarks uuid.New() with the default
// random source under Go's RunParallel helper.
func BenchmarkUUID_v4_Default_Parallel(b *testing.B) {
	uuid.SetRand(nil)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = uuid.New()
		}
	})
}

// BenchmarkUUID_v4_Default_Concurrent benchmarks uuid.New() using the
// default random source across a range of goroutine counts.
func BenchmarkUUID_v4_Default_Concurrent(b *testing.B) {
	uuid.SetRand(nil)
	for _, gr := range []int{2, 4, 8, 16, 32, 64, 128, 256} {
		b.Run("Goroutines_"+itoa(gr), func(b *testing.B) {
			benchConcurrent(b, func() { _ = uuid.New() }, gr)
		})
	}
}

// BenchmarkUUID_v4_Ottery_Serial measures uuid.New() performance using the
// package's engine-backed Reader as the random source, for comparison
// against the stdlib-seeded default.
func BenchmarkUUID_v4_Ottery_Serial(b *testing.B) {
	uuid.SetRand(Reader)
	defer uuid.SetRand(nil)
	b.ReportAllocs()
	for b.Loop() {
		_ = uuid.New()
	}
}

// BenchmarkUUID_v4_Ottery_Parallel benchmarks uuid.New() with the
// engine-backed Reader under Go's RunParallel helper.
func BenchmarkUUID_v4_Ottery_Parallel(b *testing.B) {
	uuid.SetRand(Reader)
	defer uuid.SetRand(nil)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = uuid.New()
		}
	})
}

// BenchmarkUUID_v4_Ottery_Concurrent benchmarks uuid.New() with the
// engine-backed Reader across multiple goroutine counts, to measure
// scalability and contention under the sharded pool.
func BenchmarkUUID_v4_Ottery_Concurrent(b *testing.B) {
	uuid.SetRand(Reader)
	defer uuid.SetRand(nil)
	for _, gr := range []int{2, 4, 8, 16, 32, 64, 128, 256} {
		b.Run("Goroutines_"+itoa(gr), func(b *testing.B) {
			benchConcurrent(b, func() { _ = uuid.New() }, gr)
		})
	}
}
