// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

// Package testlib compiles the C fixtures that back native-loading tests.
package testlib

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cwhitelytning/mi/pkg/dynlib"
)

// BuildShared compiles testdata/<name>.c into a shared library named
// <name><platform extension> under dir and returns its path. Tests that need
// a real native library call this and are skipped on hosts without a C
// compiler.
func BuildShared(t *testing.T, dir, name string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("building native fixtures requires a POSIX cc")
	}
	cc, err := exec.LookPath("cc")
	if err != nil {
		t.Skip("cc not available, skipping native fixture test")
	}

	src := filepath.Join(sourceDir(t), "testdata", name+".c")
	out := filepath.Join(dir, name+dynlib.Extension())

	cmd := exec.Command(cc, "-shared", "-fPIC", "-o", out, src)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("compiling fixture %s: %v\n%s", name, err, output)
	}
	return out
}

func sourceDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate testlib source directory")
	}
	return filepath.Dir(file)
}
