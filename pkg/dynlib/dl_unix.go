// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

//go:build darwin || freebsd || linux

package dynlib

import (
	"runtime"

	"github.com/ebitengine/purego"
)

// Lazy binding: symbols resolve on first use.
func dlOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_LAZY)
}

func dlClose(handle uintptr) error {
	return purego.Dlclose(handle)
}

func dlSym(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

// Extension returns the platform's native shared-library suffix.
func Extension() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}
