// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the mi CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mi",
		Short: "mi - a dynamic module host",
		Long: `mi loads native shared libraries as modules, runs their lifecycle
hooks, and manages trees of nested module loaders.`,
	}

	cmd.AddCommand(NewLoadCmd())
	cmd.AddCommand(NewInfoCmd())

	return cmd
}
