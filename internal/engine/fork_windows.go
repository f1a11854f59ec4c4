// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build windows

package engine

import "os"

// Windows has no fork(2): a new process is always created via
// CreateProcess, never a copy-on-write duplicate of its parent's memory,
// so the scenario this check defends against cannot occur here. The
// comparison is kept rather than compiled out (matching
// drbg_fork_windows.go's permanent no-op branch) so the generator core
// has exactly one postforkCheck call site regardless of platform; it
// simply never trips on Windows.
func currentPID() int {
	return os.Getpid()
}
