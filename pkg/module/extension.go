// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package module

import (
	"reflect"

	"github.com/cwhitelytning/mi/pkg/anchor"
)

// Extension is the identity primitive every loadable unit carries: a runtime
// type name and a non-owning back-reference to the loader that owns it.
type Extension struct {
	classname string
	owner     anchor.Anchor[*Loader]
}

// NewExtension derives the display name from self's concrete type and binds
// the owner when one is given.
func NewExtension(self any, owner *Loader) Extension {
	ext := Extension{classname: classnameOf(self)}
	if owner != nil {
		ext.owner.Bind(owner)
	}
	return ext
}

// Classname returns the runtime type name of the most-derived unit,
// for example "module.Loader".
func (e *Extension) Classname() string {
	return e.classname
}

// HasOwner reports whether an owner is bound.
func (e *Extension) HasOwner() bool {
	return e.owner.IsBound()
}

// Owner returns the owning loader, or a coded error when unowned.
func (e *Extension) Owner() (*Loader, error) {
	return e.owner.Get()
}

func classnameOf(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
