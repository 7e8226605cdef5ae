// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwhitelytning/mi/internal/testlib"
	"github.com/cwhitelytning/mi/pkg/dynlib"
	"github.com/cwhitelytning/mi/pkg/errutil"
)

func TestRunLoad_EmptyTree(t *testing.T) {
	cfg := &Config{LogFormat: "json", LogLevels: "none"}

	var out, errOut bytes.Buffer
	require.NoError(t, runLoad(context.Background(), cfg, &out, &errOut))
	assert.Empty(t, out.String())
}

func TestRunLoad_MissingModule(t *testing.T) {
	cfg := &Config{
		LogFormat: "json",
		LogLevels: "all",
		Modules: []ModuleConfig{
			{Path: filepath.Join(t.TempDir(), "absent"+dynlib.Extension())},
		},
	}

	var out, errOut bytes.Buffer
	err := runLoad(context.Background(), cfg, &out, &errOut)
	errutil.AssertErrorCode(t, err, dynlib.CodeNotReadable)
	assert.Contains(t, errOut.String(), "module tree load failed")
}

func TestRunLoad_NativeTree(t *testing.T) {
	path := testlib.BuildShared(t, t.TempDir(), "hello")
	cfg := &Config{
		LogFormat: "json",
		LogLevels: "none",
		Modules:   []ModuleConfig{{Path: path}},
	}

	var out, errOut bytes.Buffer
	require.NoError(t, runLoad(context.Background(), cfg, &out, &errOut))

	line := strings.TrimSpace(out.String())
	assert.Contains(t, line, "hello 1.2.3")
	assert.Contains(t, line, path)
}

func TestRunInfo_NativeModule(t *testing.T) {
	path := testlib.BuildShared(t, t.TempDir(), "hello")

	var out, errOut bytes.Buffer
	require.NoError(t, runInfo(path, &out, &errOut))

	report := out.String()
	assert.Contains(t, report, "name:        hello")
	assert.Contains(t, report, "version:     1.2.3")
	assert.Contains(t, report, "author:      mi contributors")
	assert.Contains(t, report, "semver:      1.2.3")
}
