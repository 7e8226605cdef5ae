// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

// Package errutil logs and asserts errors with their structured context
// preserved.
package errutil

import (
	"github.com/samber/oops"

	"github.com/cwhitelytning/mi/pkg/logging"
)

// Log writes err at the given level with structured context. For oops errors
// the code and context map are attached as attributes; plain errors log as a
// bare string. A nil logger discards the record.
func Log(logger logging.Logger, sender string, level logging.Level, msg string, err error) {
	if logger == nil {
		return
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Log(sender, level, msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error(), "code", oopsErr.Code()}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	logger.Log(sender, level, msg, attrs...)
}
