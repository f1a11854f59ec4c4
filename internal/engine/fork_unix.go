// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build !windows

package engine

import "os"

// currentPID backs the fork-safety check of spec.md §4.4: after fork(2),
// a child process inherits the parent's generator state byte-for-byte,
// so comparing the cached pid against the live one on every operation is
// how libottery (and this port) detect the fork without relying on
// pthread_atfork or pid wrap, per original_source/src/ottery.c.
func currentPID() int {
	return os.Getpid()
}
