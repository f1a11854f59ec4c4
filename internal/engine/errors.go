// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package engine implements the buffered, forward-secure, fork- and
// init-checked PRNG state machine: the generator core described in
// SPEC_FULL.md §6.4, shared between a mutex-guarded Engine and a
// caller-synchronized NolockEngine.
package engine

import "fmt"

// Code is the stable error/flag taxonomy of spec.md §6. The low 12 bits
// carry an error class; bits above that are flags that, when set, mark
// the code as fatal (IsFatal).
type Code uint32

// Error classes (low 12 bits).
const (
	ErrNone            Code = 0
	ErrLockInit        Code = 1
	ErrInternal        Code = 2
	ErrInitStrongRNG   Code = 3
	ErrAccessStrongRNG Code = 4
	ErrInvalidArgument Code = 5
	ErrStateAlignment  Code = 6
)

// Flags (high bits), OR'd onto an error class to describe the
// circumstance a fatal error occurred under.
const (
	FlagStateInit        Code = 0x1000
	FlagGlobalPRNGInit   Code = 0x2000
	FlagPostforkReseed   Code = 0x4000
)

// IsFatal reports whether any flag bit (above the low 12 bits) is set.
func (c Code) IsFatal() bool {
	return c&^0xfff != 0
}

func (c Code) class() Code { return c & 0xfff }

func (c Code) Error() string {
	var msg string
	switch c.class() {
	case ErrNone:
		msg = "no error"
	case ErrLockInit:
		msg = "lock initialization failed"
	case ErrInternal:
		msg = "internal invariant violation"
	case ErrInitStrongRNG:
		msg = "could not initialize a strong entropy source"
	case ErrAccessStrongRNG:
		msg = "could not read from a strong entropy source"
	case ErrInvalidArgument:
		msg = "invalid argument"
	case ErrStateAlignment:
		msg = "engine state is not 16-byte aligned"
	default:
		msg = "unknown error"
	}
	if c.IsFatal() {
		return fmt.Sprintf("ottery: %s (fatal, flags=0x%x)", msg, uint32(c&^0xfff))
	}
	return fmt.Sprintf("ottery: %s", msg)
}

// wrapEntropyErr attaches an entropy-acquisition failure to one of the
// two entropy error classes, preserving the underlying cause via %w so
// callers can both errors.Is the Code and read the original message.
func wrapEntropyErr(base Code, cause error) error {
	return fmt.Errorf("%w: %v", base, cause)
}
