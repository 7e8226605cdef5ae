// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package module

import (
	"github.com/samber/oops"

	"github.com/cwhitelytning/mi/pkg/logging"
)

// CodeIndexRange is returned for out-of-bounds child access.
const CodeIndexRange = "LOADER_INDEX_RANGE"

// Loader is an ordered, owning collection of child modules that is itself a
// Module, so loaders nest to arbitrary depth. Insertion order is load order;
// teardown runs in reverse so later children, which may depend on earlier
// ones, go first.
//
// A Loader is single-threaded: callers serialize Attach, Load and Unload on
// a given tree.
type Loader struct {
	Module
	children []Loadable
}

// NewLoader creates a pure aggregator loader with no backing library.
func NewLoader(logger logging.Logger) *Loader {
	l := &Loader{}
	l.init(l, "", nil, logger)
	return l
}

// NewLoaderAt creates a loader that is itself a plugin entry point backed by
// the library at path.
func NewLoaderAt(path string, logger logging.Logger) *Loader {
	l := &Loader{}
	l.init(l, path, nil, logger)
	return l
}

// Attach appends child to the end of the sequence, binding the owner and
// logger back-references when the child accepts them. The child is not
// loaded; a Load pass picks it up.
func (l *Loader) Attach(child Loadable) Loadable {
	if b, ok := child.(OwnerBinder); ok {
		b.BindOwner(l)
	}
	if b, ok := child.(LoggerBinder); ok {
		if logger, err := l.logger.Get(); err == nil {
			b.BindLogger(logger)
		}
	}
	l.children = append(l.children, child)
	return child
}

// AttachModule constructs a Module for the library at path against this
// loader and appends it.
func (l *Loader) AttachModule(path string) *Module {
	m := &Module{}
	m.init(m, path, l, l.loggerOrNil())
	l.children = append(l.children, m)
	return m
}

// AttachLoader constructs a nested loader backed by the library at path and
// appends it. An empty path yields a nested aggregator.
func (l *Loader) AttachLoader(path string) *Loader {
	child := &Loader{}
	child.init(child, path, l, l.loggerOrNil())
	l.children = append(l.children, child)
	return child
}

// Len returns the number of attached children.
func (l *Loader) Len() int { return len(l.children) }

// Child returns the i-th attached child in attachment order.
func (l *Loader) Child(i int) (Loadable, error) {
	if i < 0 || i >= len(l.children) {
		return nil, oops.Code(CodeIndexRange).
			With("index", i).
			With("len", len(l.children)).
			Errorf("child index out of range")
	}
	return l.children[i], nil
}

// Load loads the loader itself first (a no-op for pure aggregators), then
// every unloaded child in attachment order. The first child failure stops
// the pass and propagates; children loaded before it stay loaded.
func (l *Loader) Load() error {
	if err := l.Module.Load(); err != nil {
		return err
	}
	return l.loadChildren()
}

// Unload unloads every loaded child in reverse attachment order, then the
// loader itself. Same no-rollback policy as Load: a failure stops the pass
// and leaves unprocessed children untouched.
func (l *Loader) Unload() error {
	if err := l.unloadChildren(); err != nil {
		return err
	}
	return l.Module.Unload()
}

func (l *Loader) loadChildren() error {
	for _, child := range l.children {
		if child == nil || child.IsLoaded() {
			continue
		}
		if err := child.Load(); err != nil {
			l.log(logging.LevelError, "failed to load module",
				"module", child.Classname(), "error", err)
			return err
		}
	}
	return nil
}

func (l *Loader) unloadChildren() error {
	for i := len(l.children) - 1; i >= 0; i-- {
		child := l.children[i]
		if child == nil || !child.IsLoaded() {
			continue
		}
		if err := child.Unload(); err != nil {
			l.log(logging.LevelError, "failed to unload module",
				"module", child.Classname(), "error", err)
			return err
		}
	}
	return nil
}

// Close tears the tree down. Children are released in reverse attachment
// order regardless of loaded state, so native code is unmapped before the
// parent's own resources go. Failures are logged and discarded; Close never
// propagates them.
func (l *Loader) Close() {
	for i := len(l.children) - 1; i >= 0; i-- {
		child := l.children[i]
		l.children[i] = nil
		if child == nil {
			continue
		}

		if closer, ok := child.(interface{ Close() }); ok {
			closer.Close()
			continue
		}
		if child.IsLoaded() {
			if err := child.Unload(); err != nil {
				l.log(logging.LevelWarning, "unload failed during teardown",
					"module", child.Classname(), "error", err)
			}
		}
	}
	l.children = nil

	if l.Module.IsLoaded() {
		if err := l.Module.Unload(); err != nil {
			l.log(logging.LevelWarning, "unload failed during teardown",
				"module", l.ext.Classname(), "error", err)
		}
	}
}
