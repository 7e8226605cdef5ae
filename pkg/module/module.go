// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

// Package module implements the loadable unit of the framework and the
// loader that orchestrates trees of them.
//
// A [Module] pairs a native shared library with lifecycle hooks and an
// identity; a [Loader] is itself a Module owning an ordered sequence of
// children, which makes arbitrarily deep module trees possible. Loading
// walks the tree in attachment order, unloading walks it in reverse, and
// neither pass rolls back on partial failure: callers inspect per-module
// state when they need recovery.
package module

import (
	"path/filepath"
	"runtime/cgo"

	"github.com/samber/oops"

	"github.com/cwhitelytning/mi/pkg/anchor"
	"github.com/cwhitelytning/mi/pkg/dynlib"
	"github.com/cwhitelytning/mi/pkg/logging"
)

// Entry points a module library exports. The info hook is required to
// identify the module; the lifecycle hooks are optional.
const (
	HookLoad   = "on_module_load"
	HookUnload = "on_module_unload"
	HookInfo   = "on_module_info"
)

// infoFieldCount is the number of string fields in the native info struct.
const infoFieldCount = 4

// Loadable is the lifecycle capability a loader requires of its children.
type Loadable interface {
	Load() error
	Unload() error
	IsLoaded() bool
	Classname() string
}

// OwnerBinder is implemented by children that accept an owner back-reference.
type OwnerBinder interface {
	BindOwner(*Loader)
}

// LoggerBinder is implemented by children that accept a logger back-reference.
type LoggerBinder interface {
	BindLogger(logging.Logger)
}

// Module is a loadable unit backed by a native shared library. A Module with
// no backing path is a pure aggregator: its own load and unload are no-ops.
//
// State machine: Unloaded → Load → Loaded → Unload → Unloaded. Load fully
// succeeds or the module stays unloaded; a failing native load hook is
// reported to the logger, not propagated, because the library resource is
// valid and must remain unloadable later.
type Module struct {
	self   any
	ext    Extension
	lib    *dynlib.Library
	logger anchor.Anchor[logging.Logger]
}

// New creates an unowned module for a library at path.
func New(path string, logger logging.Logger) *Module {
	m := &Module{}
	m.init(m, path, nil, logger)
	return m
}

// init wires the composed parts. self names the most-derived value so the
// extension's classname reflects embedding types such as Loader, and so the
// handle native hooks receive resolves back to that value.
func (m *Module) init(self any, path string, owner *Loader, logger logging.Logger) {
	m.self = self
	m.ext = NewExtension(self, owner)
	if path != "" {
		m.lib = dynlib.New(path)
	}
	if logger != nil {
		m.logger.Bind(logger)
	}
}

// Path returns the backing library path, empty for pure aggregators.
func (m *Module) Path() string {
	if m.lib == nil {
		return ""
	}
	return m.lib.Path()
}

// Library exposes the underlying handle wrapper, nil for pure aggregators.
func (m *Module) Library() *dynlib.Library { return m.lib }

// IsLoaded reports whether the backing library is open.
func (m *Module) IsLoaded() bool {
	return m.lib != nil && m.lib.IsLoaded()
}

// BindOwner implements OwnerBinder.
func (m *Module) BindOwner(owner *Loader) {
	m.ext.owner.Bind(owner)
}

// BindLogger implements LoggerBinder.
func (m *Module) BindLogger(logger logging.Logger) {
	m.logger.Bind(logger)
}

// Owner returns the owning loader, or a coded error when unowned.
func (m *Module) Owner() (*Loader, error) { return m.ext.Owner() }

// Logger returns the bound logger, or a coded error when unbound.
func (m *Module) Logger() (logging.Logger, error) { return m.logger.Get() }

// Load opens the backing library and invokes the native load hook, passing
// an opaque handle to this module. Hook failures are logged, never fatal: by
// the time the hook runs the library is open and the framework's bookkeeping
// must reflect that.
func (m *Module) Load() error {
	if m.lib == nil {
		return nil
	}
	if err := m.lib.Load(); err != nil {
		return err
	}

	m.callHook(HookLoad)
	m.log(logging.LevelInfo, "module loaded", "path", m.lib.Path())
	return nil
}

// Unload invokes the native unload hook while the code is still mapped, then
// closes the library. Unloading an unloaded module is a no-op.
func (m *Module) Unload() error {
	if m.lib == nil || m.lib.IsUnloaded() {
		return nil
	}

	m.callHook(HookUnload)
	if err := m.lib.Unload(); err != nil {
		return err
	}

	m.log(logging.LevelInfo, "module unloaded", "path", m.lib.Path())
	return nil
}

// ModuleInfo calls the native info hook. Unlike the lifecycle hooks the info
// hook is mandatory; a missing export or an unloaded library is an error.
func (m *Module) ModuleInfo() (Info, error) {
	if m.lib == nil {
		return Info{}, oops.Code(dynlib.CodeNotLoaded).
			With("classname", m.ext.Classname()).
			Errorf("module has no backing library")
	}

	addr, err := dynlib.Call[uintptr](m.lib, HookInfo)
	if err != nil {
		return Info{}, err
	}

	fields := dynlib.CStrings(addr, infoFieldCount)
	return Info{
		Author:      fields[0],
		Name:        fields[1],
		Version:     fields[2],
		Description: fields[3],
	}, nil
}

// Classname implements Loadable. While loaded it qualifies the type name
// with the name the module reports, e.g. "module.Loader::admin"; otherwise
// it falls back to the bare type name so log attribution never fails.
func (m *Module) Classname() string {
	if m.IsLoaded() {
		if info, err := m.ModuleInfo(); err == nil && info.Name != "" {
			return m.ext.Classname() + "::" + info.Name
		}
	}
	return m.ext.Classname()
}

// RootPath returns the parent directory of the library file.
func (m *Module) RootPath() string {
	return filepath.Dir(m.Path())
}

// ConfigDir returns the conventional configuration directory: the "config"
// sibling of the module's root directory.
func (m *Module) ConfigDir() string {
	return filepath.Join(filepath.Dir(m.RootPath()), "config")
}

// callHook try-calls an optional lifecycle hook. The handle passed to native
// code wraps the most-derived value, so a plugin that is itself a loader can
// attach sub-modules into itself, and is valid for the duration of the call
// only.
func (m *Module) callHook(name string) {
	h := cgo.NewHandle(m.self)
	defer h.Delete()

	dynlib.TryCall(m.lib, name, m.hookHandler(name), func(fn func(uintptr)) {
		fn(uintptr(h))
	})
}

// hookHandler reports boundary errors from an optional hook. A missing
// export is expected and logged at debug; everything else is an error.
func (m *Module) hookHandler(hook string) dynlib.ErrorHandler {
	return func(err error) {
		level, msg := logging.LevelError, "module hook failed"
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == dynlib.CodeSymbolNotFound {
			level, msg = logging.LevelDebug, "module hook not exported"
		}
		m.log(level, msg, "hook", hook, "error", err)
	}
}

func (m *Module) loggerOrNil() logging.Logger {
	logger, err := m.logger.Get()
	if err != nil {
		return nil
	}
	return logger
}

func (m *Module) log(level logging.Level, msg string, args ...any) {
	logger, err := m.logger.Get()
	if err != nil {
		return
	}
	logger.Log(m.ext.Classname(), level, msg, args...)
}

// base lets FromHandle reach the embedded Module of any derived value.
func (m *Module) base() *Module { return m }

// FromHandle resolves an opaque handle passed to a native lifecycle hook
// back to its Module. Hosts that export callbacks into plugin code (for
// example with purego.NewCallback) use this to let a plugin reach the module
// that is being loaded. The handle wraps the most-derived value, so for a
// loader-backed plugin this yields the Loader's embedded Module. ok is false
// for anything but a live module handle.
func FromHandle(h uintptr) (m *Module, ok bool) {
	defer func() {
		if recover() != nil {
			m, ok = nil, false
		}
	}()
	b, ok := cgo.Handle(h).Value().(interface{ base() *Module })
	if !ok {
		return nil, false
	}
	return b.base(), true
}

// LoaderFromHandle resolves an opaque hook handle to a Loader. A plugin that
// is itself a loader receives a handle to its own Loader, so host callbacks
// can let it register sub-modules into itself; ok is false when the handle
// belongs to a plain module.
func LoaderFromHandle(h uintptr) (l *Loader, ok bool) {
	defer func() {
		if recover() != nil {
			l, ok = nil, false
		}
	}()
	l, ok = cgo.Handle(h).Value().(*Loader)
	return l, ok
}
