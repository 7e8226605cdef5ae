// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

// Package anchor provides a non-owning reference cell.
//
// An [Anchor] models "relation and lookup, never ownership": it holds either
// nothing or a reference supplied by someone else, and it never participates
// in the referent's lifetime. Back-references in the framework (a module's
// owner, its logger) are anchors, so tearing down a referent never cascades
// through the objects that point at it.
package anchor

import "github.com/samber/oops"

// CodeUnbound is the error code returned when an empty anchor is dereferenced.
const CodeUnbound = "ANCHOR_UNBOUND"

// Anchor is a nullable reference to a T owned elsewhere. T is typically a
// pointer or interface type. The zero value is unbound and ready to use.
type Anchor[T any] struct {
	ref   T
	bound bool
}

// New returns an anchor bound to ref.
func New[T any](ref T) Anchor[T] {
	return Anchor[T]{ref: ref, bound: true}
}

// Bind points the anchor at ref, replacing any previous binding.
func (a *Anchor[T]) Bind(ref T) {
	a.ref = ref
	a.bound = true
}

// Reset clears the binding. The referent is unaffected.
func (a *Anchor[T]) Reset() {
	var zero T
	a.ref = zero
	a.bound = false
}

// IsBound reports whether the anchor currently references anything.
func (a *Anchor[T]) IsBound() bool {
	return a.bound
}

// Get returns the referent, or a coded error when the anchor is unbound.
// Dereferencing an empty anchor is a recoverable condition, never a crash.
func (a *Anchor[T]) Get() (T, error) {
	if !a.bound {
		var zero T
		return zero, oops.Code(CodeUnbound).Errorf("reference is not bound")
	}
	return a.ref, nil
}

// MustGet returns the referent and panics when unbound. It is intended for
// call sites that have already established the binding with IsBound.
func (a *Anchor[T]) MustGet() T {
	ref, err := a.Get()
	if err != nil {
		panic(err)
	}
	return ref
}
