// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/cwhitelytning/mi/pkg/dynlib"
	"github.com/cwhitelytning/mi/pkg/errutil"
	"github.com/cwhitelytning/mi/pkg/logging"
	"github.com/cwhitelytning/mi/pkg/module"
)

// Unload retry policy for libraries whose native close transiently fails.
const (
	unloadRetryDelay = 100 * time.Millisecond
	unloadRetryMax   = 3
)

// NewLoadCmd creates the load subcommand.
func NewLoadCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the configured module tree, report it, and unload it",
		Long: `Load every module the config file describes, in attachment order,
print what each one reports about itself, then unload the tree in
reverse order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runLoad(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file path (YAML)")
	cmd.Flags().String("log-format", defaultLogFormat, "log format (json or text)")
	cmd.Flags().String("log-levels", defaultLogLevels, "log level mask (all, none, or names joined with '|')")

	return cmd
}

func runLoad(ctx context.Context, cfg *Config, out, errOut io.Writer) error {
	mask, err := logging.ParseFlags(cfg.LogLevels)
	if err != nil {
		return err
	}
	logger := logging.NewConsole(errOut, cfg.LogFormat, mask)

	root := BuildLoader(cfg, logger)
	defer root.Close()

	if err := root.Load(); err != nil {
		errutil.Log(logger, "mi", logging.LevelError, "module tree load failed", err)
		return err
	}

	printTree(out, root, 0)

	if err := unloadWithRetry(ctx, root); err != nil {
		errutil.Log(logger, "mi", logging.LevelError, "module tree unload failed", err)
		return err
	}
	return nil
}

// unloadWithRetry retries the bulk unload when a native close fails, since a
// failed close leaves the library loaded and retryable by contract.
func unloadWithRetry(ctx context.Context, root *module.Loader) error {
	backoff := retry.WithMaxRetries(unloadRetryMax, retry.NewConstant(unloadRetryDelay))

	return retry.Do(ctx, backoff, func(context.Context) error {
		err := root.Unload()
		if err == nil {
			return nil
		}
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == dynlib.CodeCloseFailed {
			return retry.RetryableError(err)
		}
		return err
	})
}

// printTree writes one line per loaded module, indented by depth.
func printTree(w io.Writer, l *module.Loader, depth int) {
	indent := strings.Repeat("  ", depth)

	for i := 0; i < l.Len(); i++ {
		child, err := l.Child(i)
		if err != nil {
			continue
		}

		switch c := child.(type) {
		case *module.Loader:
			fmt.Fprintf(w, "%s%s\n", indent, describeModule(&c.Module))
			printTree(w, c, depth+1)
		case *module.Module:
			fmt.Fprintf(w, "%s%s\n", indent, describeModule(c))
		default:
			fmt.Fprintf(w, "%s%s\n", indent, child.Classname())
		}
	}
}

func describeModule(m *module.Module) string {
	if m.Path() == "" {
		return "(aggregator)"
	}
	if !m.IsLoaded() {
		return fmt.Sprintf("%s (not loaded)", m.Path())
	}

	info, err := m.ModuleInfo()
	if err != nil {
		return fmt.Sprintf("%s (no module info)", m.Path())
	}
	return fmt.Sprintf("%s %s: %s (%s)", info.Name, info.Version, info.Description, m.Path())
}
