// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

// Package fsx holds small filesystem probes used as load preconditions.
package fsx

import "os"

// IsReadable reports whether path names an existing file with at least one
// read permission bit set (owner, group, or other). It says nothing about
// whether the calling process can actually open the file.
func IsReadable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o444 != 0
}
