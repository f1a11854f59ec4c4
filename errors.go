// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ottery

import (
	"unsafe"

	"github.com/go-ottery/ottery/internal/engine"
)

// Error is the stable error taxonomy every ottery operation reports
// through: a closed integer type wrapping internal/engine.Code so the
// same codes used internally for fatal-handler dispatch are the ones
// callers compare against with errors.Is.
type Error = engine.Code

// Error classes, mirroring the taxonomy of spec.md §6.
const (
	ErrNone            = Error(engine.ErrNone)
	ErrLockInit        = Error(engine.ErrLockInit)
	ErrInternal        = Error(engine.ErrInternal)
	ErrInitStrongRNG   = Error(engine.ErrInitStrongRNG)
	ErrAccessStrongRNG = Error(engine.ErrAccessStrongRNG)
	ErrInvalidArgument = Error(engine.ErrInvalidArgument)
	ErrStateAlignment  = Error(engine.ErrStateAlignment)
)

// Flags OR'd onto an Error to describe the circumstance a fatal error
// was detected under.
const (
	FlagStateInit      = Error(engine.FlagStateInit)
	FlagGlobalPRNGInit = Error(engine.FlagGlobalPRNGInit)
	FlagPostforkReseed = Error(engine.FlagPostforkReseed)
)

// SetFatalHandler installs fn to run instead of the default panic when
// the engine hits a condition spec.md §7 marks fatal (use-before-init,
// lock initialization failure, failed postfork reseed). Passing nil
// restores the default panic behavior.
func SetFatalHandler(fn func(Error)) {
	if fn == nil {
		engine.SetFatalHandler(nil)
		return
	}
	engine.SetFatalHandler(func(c engine.Code) { fn(Error(c)) })
}

// GetSizeofConfig reports the in-memory size of Config, kept for API
// parity with libottery's sizeof introspection contract (spec.md §6)
// even though Go callers rarely need it.
func GetSizeofConfig() uintptr {
	return unsafe.Sizeof(Config{})
}

// GetSizeofState reports the in-memory size of a lock-guarded engine
// instance.
func GetSizeofState() uintptr {
	return unsafe.Sizeof(engine.Engine{})
}

// GetSizeofStateNolock reports the in-memory size of a nolock engine
// instance.
func GetSizeofStateNolock() uintptr {
	return unsafe.Sizeof(engine.NolockEngine{})
}
