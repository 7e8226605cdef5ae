// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package logging

import (
	"strings"

	"github.com/samber/oops"
)

// CodeUnknownLevel is returned when a level name cannot be parsed.
const CodeUnknownLevel = "LOGGING_UNKNOWN_LEVEL"

// Level is a log severity. The ordering follows syslog: Debug is the least
// severe, Emergency the most.
type Level uint8

// Severities, least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
	LevelCritical
	LevelAlert
	LevelEmergency
)

// String returns the three-letter tag used in log output.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelNotice:
		return "NTC"
	case LevelWarning:
		return "WRN"
	case LevelError:
		return "ERR"
	case LevelCritical:
		return "CRT"
	case LevelAlert:
		return "ALT"
	case LevelEmergency:
		return "EMG"
	}
	return "???"
}

// Flag returns the bitmask flag for the level.
func (l Level) Flag() LevelFlags {
	return 1 << l
}

// LevelFlags is a bitmask of enabled severities.
type LevelFlags uint8

// Flag sets.
const (
	FlagsNone LevelFlags = 0
	FlagsAll  LevelFlags = 0xFF
)

// Has reports whether the level is enabled in the mask.
func (f LevelFlags) Has(l Level) bool {
	return f&l.Flag() != 0
}

// With returns the mask with the level enabled.
func (f LevelFlags) With(l Level) LevelFlags {
	return f | l.Flag()
}

// Without returns the mask with the level disabled.
func (f LevelFlags) Without(l Level) LevelFlags {
	return f &^ l.Flag()
}

var levelNames = map[string]Level{
	"debug":     LevelDebug,
	"info":      LevelInfo,
	"notice":    LevelNotice,
	"warning":   LevelWarning,
	"error":     LevelError,
	"critical":  LevelCritical,
	"alert":     LevelAlert,
	"emergency": LevelEmergency,
}

// ParseLevel parses a single lowercase level name.
func ParseLevel(name string) (Level, error) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, oops.Code(CodeUnknownLevel).
			With("name", name).
			Errorf("unknown log level %q", name)
	}
	return l, nil
}

// ParseFlags parses a mask expression: "all", "none", or level names joined
// with '|' (for example "error|warning"). Used for config values.
func ParseFlags(expr string) (LevelFlags, error) {
	switch strings.ToLower(strings.TrimSpace(expr)) {
	case "", "all":
		return FlagsAll, nil
	case "none":
		return FlagsNone, nil
	}

	flags := FlagsNone
	for _, part := range strings.Split(expr, "|") {
		l, err := ParseLevel(part)
		if err != nil {
			return FlagsNone, err
		}
		flags = flags.With(l)
	}
	return flags, nil
}
