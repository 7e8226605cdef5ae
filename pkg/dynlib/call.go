// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package dynlib

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/samber/oops"
)

// ErrorHandler receives errors intercepted at the native-call boundary.
type ErrorHandler func(err error)

// Bind resolves name and reinterprets it as a Go function of type T.
//
// No runtime signature verification is possible; if T does not match the
// export's actual signature the resulting call is undefined behavior. T must
// be a function type purego can marshal, otherwise Bind fails with
// CodeBadSignature.
func Bind[T any](l *Library, name string) (fn T, err error) {
	addr, err := l.Sym(name)
	if err != nil {
		return fn, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = oops.Code(CodeBadSignature).
				With("symbol", name).
				With("path", l.path).
				Errorf("cannot bind symbol: %v", r)
		}
	}()

	purego.RegisterFunc(&fn, addr)
	return fn, nil
}

// Call resolves name as a niladic export returning R and invokes it.
func Call[R any](l *Library, name string) (R, error) {
	fn, err := Bind[func() R](l, name)
	if err != nil {
		var zero R
		return zero, err
	}
	return fn(), nil
}

// TryCall binds name as a T and hands it to invoke. Every failure, including
// a panic escaping the native call, is routed to handler instead of
// propagating, so a misbehaving plugin cannot unwind through host
// orchestration. A nil handler discards the error.
func TryCall[T any](l *Library, name string, handler ErrorHandler, invoke func(fn T)) {
	report := func(err error) {
		if handler != nil {
			handler(err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			report(oops.Code(CodeCallPanicked).
				With("symbol", name).
				With("path", l.path).
				Errorf("native call panicked: %v", r))
		}
	}()

	fn, err := Bind[T](l, name)
	if err != nil {
		report(err)
		return
	}
	invoke(fn)
}

// CStrings reads n consecutive native string pointers starting at addr and
// copies each into a Go string. A zero addr yields n empty strings. This is
// the decode path for exports returning a pointer to a struct of C strings.
func CStrings(addr uintptr, n int) []string {
	out := make([]string, n)
	if addr == 0 {
		return out
	}
	ptrs := unsafe.Slice((*uintptr)(unsafe.Pointer(addr)), n)
	for i, p := range ptrs {
		out[i] = GoString(p)
	}
	return out
}

// GoString copies a NUL-terminated native string at addr into a Go string.
// A zero addr yields the empty string.
func GoString(addr uintptr) string {
	if addr == 0 {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Pointer(addr + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(addr)), n))
}
