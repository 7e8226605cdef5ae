// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

// Package logging defines the logger contract the framework logs through,
// plus the console and null sinks that ship with it.
//
// The contract is deliberately narrow: a sender name, one of eight syslog
// severities, a message, and optional structured attributes. Which severities
// a sink emits is controlled by a [LevelFlags] bitmask, so hosts can silence
// individual levels rather than everything below a threshold.
package logging

// Logger is the sink the framework logs to. Implementations decide where
// records go; the mask decides which levels survive.
type Logger interface {
	// Log writes one record. sender identifies the originating component
	// (typically its classname); args are alternating key/value pairs as
	// accepted by log/slog.
	Log(sender string, level Level, msg string, args ...any)
}

// Null is a Logger that discards everything.
type Null struct{}

// NewNull returns a discarding logger.
func NewNull() *Null { return &Null{} }

// Log implements Logger.
func (*Null) Log(string, Level, string, ...any) {}
