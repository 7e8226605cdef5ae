// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

//go:build windows

package dynlib

import "golang.org/x/sys/windows"

func dlOpen(path string) (uintptr, error) {
	h, err := windows.LoadLibraryEx(path, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return 0, err
	}
	return uintptr(h), nil
}

func dlClose(handle uintptr) error {
	return windows.FreeLibrary(windows.Handle(handle))
}

func dlSym(handle uintptr, name string) (uintptr, error) {
	addr, err := windows.GetProcAddress(windows.Handle(handle), name)
	if err != nil {
		return 0, err
	}
	return addr, nil
}

// Extension returns the platform's native shared-library suffix.
func Extension() string {
	return ".dll"
}
