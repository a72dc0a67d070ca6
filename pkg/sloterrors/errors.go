// Package sloterrors provides structured error handling for slot pool
// operations with error categorization and index context. It enables
// consistent error handling patterns across the module.
//
// # Overview
//
// The sloterrors package extends Go's standard error handling with:
//   - Error categorization through Kind
//   - Preallocated kind sentinels for allocation-free failure paths
//   - Index and capacity context for diagnostics
//   - Kind-based matching through errors.Is
//
// # Basic Usage
//
//	elem, err := pool.Get(idx)
//	if errors.Is(err, sloterrors.ErrNotInUse) {
//	    // slot is free; nothing to read
//	}
//
//	if _, _, err := pool.UseNext(); sloterrors.IsKind(err, sloterrors.KindFull) {
//	    // every slot is active; drop or defer the spawn
//	}
//
// # Error Kinds
//
// Every fallible pool operation reports exactly one of the kinds below.
// All of them are recoverable, expected conditions: the pool never panics
// for them and never performs partial mutation on an error path.
//
// # Allocation Behavior
//
// The pool returns the package-level sentinels directly, so routine failures
// such as Full during a spawn burst allocate nothing. Enriched errors carrying
// the offending index are built with WithIndex, which copies; the sentinels
// themselves are never mutated.
package sloterrors

import (
	"errors"
	"fmt"
)

// Kind categorizes a pool error. Kinds are the unit of matching: two errors
// with the same Kind compare equal under errors.Is regardless of context.
type Kind string

const (
	// KindOutOfRange reports an index at or beyond the pool's capacity.
	KindOutOfRange Kind = "out_of_range"
	// KindAlreadyInUse reports activation of a slot that is already active.
	KindAlreadyInUse Kind = "already_in_use"
	// KindNotInUse reports checked access to a slot that is not active.
	KindNotInUse Kind = "not_in_use"
	// KindAlreadyUnused reports deactivation of a slot that is already free.
	KindAlreadyUnused Kind = "already_unused"
	// KindFull reports that a next-free search visited every slot without
	// finding a free one.
	KindFull Kind = "full"
	// KindInvalidCapacity reports a pool construction with a negative capacity.
	KindInvalidCapacity Kind = "invalid_capacity"
	// KindStaleHandle reports use of a handle whose slot has been
	// reconstructed since the handle was created.
	KindStaleHandle Kind = "stale_handle"
)

// Error is a structured pool error. Index and Capacity are optional context;
// a negative value means "not applicable".
type Error struct {
	Kind     Kind
	Message  string
	Index    int
	Capacity int
	Cause    error
}

// Sentinel errors, one per kind. Pool operations return these directly on
// their hot paths; they carry no index context.
var (
	ErrOutOfRange      = &Error{Kind: KindOutOfRange, Message: "index out of range", Index: -1, Capacity: -1}
	ErrAlreadyInUse    = &Error{Kind: KindAlreadyInUse, Message: "slot already in use", Index: -1, Capacity: -1}
	ErrNotInUse        = &Error{Kind: KindNotInUse, Message: "slot is not in use", Index: -1, Capacity: -1}
	ErrAlreadyUnused   = &Error{Kind: KindAlreadyUnused, Message: "slot already unused", Index: -1, Capacity: -1}
	ErrFull            = &Error{Kind: KindFull, Message: "pool is full", Index: -1, Capacity: -1}
	ErrInvalidCapacity = &Error{Kind: KindInvalidCapacity, Message: "capacity must not be negative", Index: -1, Capacity: -1}
	ErrStaleHandle     = &Error{Kind: KindStaleHandle, Message: "handle refers to a reconstructed slot", Index: -1, Capacity: -1}
)

// Error implements the error interface, returning the kind, message, and any
// index context.
func (e *Error) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	case e.Index >= 0 && e.Capacity >= 0:
		return fmt.Sprintf("%s: %s (index %d, capacity %d)", e.Kind, e.Message, e.Index, e.Capacity)
	case e.Index >= 0:
		return fmt.Sprintf("%s: %s (index %d)", e.Kind, e.Message, e.Index)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// traversal through wrapped causes.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by Kind, so enriched copies compare equal to their sentinel:
//
//	errors.Is(sloterrors.ErrFull.WithCapacity(64), sloterrors.ErrFull) // true
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// WithIndex returns a copy of the error carrying the offending index.
// The receiver is not modified, so sentinels stay immutable.
func (e *Error) WithIndex(index int) *Error {
	c := *e
	c.Index = index
	return &c
}

// WithCapacity returns a copy of the error carrying the pool capacity.
func (e *Error) WithCapacity(capacity int) *Error {
	c := *e
	c.Capacity = capacity
	return &c
}

// New creates a new error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Index: -1, Capacity: -1}
}

// Wrap wraps an existing error with a pool error kind, preserving the
// original as the cause. Returns nil if err is nil.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Index: -1, Capacity: -1, Cause: err}
}

// KindOf returns the kind of err, or the empty Kind if err is not a pool
// error (including nil).
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// IsKind reports whether err is a pool error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
