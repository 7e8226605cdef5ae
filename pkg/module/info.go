// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package module

import (
	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
)

// CodeBadVersion is returned when a module reports a non-semver version.
const CodeBadVersion = "MODULE_BAD_VERSION"

// Info is the identity a module library reports through its info hook.
// All fields are immutable copies of the native strings.
type Info struct {
	Author      string
	Name        string
	Version     string
	Description string
}

// Semver parses the reported version.
func (i Info) Semver() (*semver.Version, error) {
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return nil, oops.Code(CodeBadVersion).
			With("version", i.Version).
			With("module", i.Name).
			Wrap(err)
	}
	return v, nil
}
