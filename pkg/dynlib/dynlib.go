// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

// Package dynlib wraps a native shared library behind one contract for both
// platform families: dlopen/dlsym/dlclose on POSIX systems and
// LoadLibrary/GetProcAddress/FreeLibrary on Windows.
//
// A [Library] owns exactly one native handle. Load checks its preconditions
// (readable file, platform extension, not already loaded) before touching the
// platform loader, and captures the platform's error text at the moment of
// failure, since the native last-error state is mutable and would be
// overwritten by later calls.
//
// This package is the repository's unsafe FFI boundary. [Bind] reinterprets a
// raw address as a Go function with no signature verification; a mismatched
// signature is undefined behavior and a documented caller obligation. Callers
// that cross into untrusted plugin code should go through [TryCall], which
// keeps errors and panics from unwinding into host orchestration.
package dynlib

import (
	"path/filepath"

	"github.com/samber/oops"

	"github.com/cwhitelytning/mi/internal/fsx"
)

// Error codes carried by oops errors from this package.
const (
	CodeNotReadable    = "DYNLIB_NOT_READABLE"
	CodeBadExtension   = "DYNLIB_BAD_EXTENSION"
	CodeAlreadyLoaded  = "DYNLIB_ALREADY_LOADED"
	CodeOpenFailed     = "DYNLIB_OPEN_FAILED"
	CodeCloseFailed    = "DYNLIB_CLOSE_FAILED"
	CodeNotLoaded      = "DYNLIB_NOT_LOADED"
	CodeSymbolNotFound = "DYNLIB_SYMBOL_NOT_FOUND"
	CodeBadSignature   = "DYNLIB_BAD_SIGNATURE"
	CodeCallPanicked   = "DYNLIB_CALL_PANICKED"
)

// noCopy triggers go vet's copylocks check when a value embedding it is
// copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Library is an exclusively-owned handle to one native shared library.
// A Library must not be copied: a loaded handle has exactly one owner, and
// go vet flags copies. The zero handle means unloaded.
type Library struct {
	noCopy noCopy

	path   string
	handle uintptr
}

// New creates an unloaded library for path. Nothing is opened until Load.
func New(path string) *Library {
	return &Library{path: path}
}

// Path returns the filesystem path the library was constructed with.
func (l *Library) Path() string { return l.path }

// IsLoaded reports whether the native handle is currently open.
func (l *Library) IsLoaded() bool { return l.handle != 0 }

// IsUnloaded reports whether the native handle is currently closed.
func (l *Library) IsUnloaded() bool { return !l.IsLoaded() }

// Load opens the native library.
//
// Preconditions: the path must name a file with at least one read permission
// bit set, carry the platform shared-library extension, and the library must
// not already be loaded. Each violated check fails with its own code before
// the platform loader is invoked.
func (l *Library) Load() error {
	if !fsx.IsReadable(l.path) {
		return oops.Code(CodeNotReadable).
			With("path", l.path).
			Errorf("no read access")
	}
	if filepath.Ext(l.path) != Extension() {
		return oops.Code(CodeBadExtension).
			With("path", l.path).
			With("want", Extension()).
			Errorf("invalid extension")
	}
	if l.IsLoaded() {
		return oops.Code(CodeAlreadyLoaded).
			With("path", l.path).
			Errorf("already loaded")
	}

	handle, err := dlOpen(l.path)
	if err != nil {
		return oops.Code(CodeOpenFailed).
			With("path", l.path).
			Wrap(err)
	}

	l.handle = handle
	return nil
}

// Unload closes the native library. Unloading an unloaded library is a no-op.
// On failure the handle is kept so the close can be retried.
func (l *Library) Unload() error {
	if l.IsUnloaded() {
		return nil
	}

	if err := dlClose(l.handle); err != nil {
		return oops.Code(CodeCloseFailed).
			With("path", l.path).
			Wrap(err)
	}

	l.handle = 0
	return nil
}

// SymUnsafe resolves a symbol with no load-state or type checking and returns
// zero when the symbol is missing. The caller owns every consequence.
func (l *Library) SymUnsafe(name string) uintptr {
	addr, err := dlSym(l.handle, name)
	if err != nil {
		return 0
	}
	return addr
}

// Sym resolves an exported symbol, requiring the library to be loaded.
func (l *Library) Sym(name string) (uintptr, error) {
	if l.IsUnloaded() {
		return 0, oops.Code(CodeNotLoaded).
			With("symbol", name).
			With("path", l.path).
			Errorf("library is not loaded")
	}

	addr, err := dlSym(l.handle, name)
	if err != nil || addr == 0 {
		return 0, oops.Code(CodeSymbolNotFound).
			With("symbol", name).
			With("path", l.path).
			Errorf("symbol not found")
	}
	return addr, nil
}
