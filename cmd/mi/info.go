// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cwhitelytning/mi/pkg/logging"
	"github.com/cwhitelytning/mi/pkg/module"
)

// NewInfoCmd creates the info subcommand.
func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <library>",
		Short: "Load a single module, print what it reports, and unload it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	return cmd
}

func runInfo(path string, out, errOut io.Writer) error {
	logger := logging.NewConsole(errOut, "text", logging.FlagsNone.With(logging.LevelError))

	m := module.New(path, logger)
	if err := m.Load(); err != nil {
		return err
	}
	defer func() {
		// Best effort: the process exits right after.
		_ = m.Unload()
	}()

	info, err := m.ModuleInfo()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "name:        %s\n", info.Name)
	fmt.Fprintf(out, "version:     %s\n", info.Version)
	fmt.Fprintf(out, "author:      %s\n", info.Author)
	fmt.Fprintf(out, "description: %s\n", info.Description)
	fmt.Fprintf(out, "root:        %s\n", m.RootPath())
	fmt.Fprintf(out, "config dir:  %s\n", m.ConfigDir())

	if v, err := info.Semver(); err == nil {
		fmt.Fprintf(out, "semver:      %s\n", v.String())
	}
	return nil
}
