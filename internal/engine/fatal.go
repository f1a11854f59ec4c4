// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package engine

import (
	"fmt"
	"sync/atomic"
)

var fatalHandler atomic.Value // func(Code)

// SetFatalHandler installs fn to be called instead of the default panic
// when the engine detects a condition spec.md §7 marks fatal: use before
// init, lock initialization failure, or a failed postfork reseed. Passing
// nil restores the default.
//
// A handler that returns normally does not resume the operation that
// detected the fault; the caller that triggered it receives a zero-valued
// result. Handlers are expected to terminate the process (os.Exit, panic,
// or similar) rather than return, matching the abort-on-fatal contract of
// the original implementation.
func SetFatalHandler(fn func(Code)) {
	if fn == nil {
		fatalHandler.Store((func(Code))(nil))
		return
	}
	fatalHandler.Store(fn)
}

// Fatal triggers the installed fatal handler (or the default panic) for
// code. It exists so packages above engine (notably the root package's
// global-engine wrappers) can report a fatal condition through the same
// path Engine/NolockEngine methods use internally.
func Fatal(code Code) {
	fatal(code)
}

func fatal(code Code) {
	if v := fatalHandler.Load(); v != nil {
		if fn, _ := v.(func(Code)); fn != nil {
			fn(code)
			return
		}
	}
	panic(fmt.Sprintf("ottery: fatal error %v", code))
}
