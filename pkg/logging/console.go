// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// slog has four named levels; the remaining four map onto the gaps and above
// so relative severity survives the translation.
var slogLevels = map[Level]slog.Level{
	LevelDebug:     slog.LevelDebug,
	LevelInfo:      slog.LevelInfo,
	LevelNotice:    slog.LevelInfo + 2,
	LevelWarning:   slog.LevelWarn,
	LevelError:     slog.LevelError,
	LevelCritical:  slog.LevelError + 2,
	LevelAlert:     slog.LevelError + 4,
	LevelEmergency: slog.LevelError + 6,
}

var slogLevelNames = map[slog.Level]string{
	slog.LevelDebug:     "DBG",
	slog.LevelInfo:      "INF",
	slog.LevelInfo + 2:  "NTC",
	slog.LevelWarn:      "WRN",
	slog.LevelError:     "ERR",
	slog.LevelError + 2: "CRT",
	slog.LevelError + 4: "ALT",
	slog.LevelError + 6: "EMG",
}

// Console is a Logger that writes structured records through log/slog.
type Console struct {
	logger *slog.Logger
	mask   LevelFlags
}

// NewConsole creates a console logger.
// format: "json" or "text" (defaults to "json" if empty).
// If w is nil, writes to os.Stderr. Only levels in mask are emitted.
func NewConsole(w io.Writer, format string, mask LevelFlags) *Console {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey {
				return a
			}
			level, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			if name, ok := slogLevelNames[level]; ok {
				a.Value = slog.StringValue(name)
			}
			return a
		},
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Console{
		logger: slog.New(handler),
		mask:   mask,
	}
}

// Log implements Logger. Records whose level is masked out are dropped.
func (c *Console) Log(sender string, level Level, msg string, args ...any) {
	if !c.mask.Has(level) {
		return
	}

	attrs := make([]any, 0, len(args)+2)
	attrs = append(attrs, "sender", sender)
	attrs = append(attrs, args...)

	c.logger.Log(context.Background(), slogLevels[level], msg, attrs...)
}

// Mask returns the current level mask.
func (c *Console) Mask() LevelFlags { return c.mask }
