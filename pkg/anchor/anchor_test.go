// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package anchor_test

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwhitelytning/mi/pkg/anchor"
)

func TestAnchor_ZeroValueIsUnbound(t *testing.T) {
	var a anchor.Anchor[*int]

	assert.False(t, a.IsBound())

	_, err := a.Get()
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, anchor.CodeUnbound, oopsErr.Code())
}

func TestAnchor_BindAndGet(t *testing.T) {
	value := 42
	var a anchor.Anchor[*int]

	a.Bind(&value)
	require.True(t, a.IsBound())

	got, err := a.Get()
	require.NoError(t, err)
	assert.Same(t, &value, got)
	assert.Equal(t, 42, *got)
}

func TestAnchor_ResetClearsBinding(t *testing.T) {
	value := "owner"
	a := anchor.New(&value)
	require.True(t, a.IsBound())

	a.Reset()
	assert.False(t, a.IsBound())

	// Resetting does not touch the referent.
	assert.Equal(t, "owner", value)
}

func TestAnchor_RebindReplacesPrevious(t *testing.T) {
	first, second := 1, 2
	a := anchor.New(&first)

	a.Bind(&second)

	got, err := a.Get()
	require.NoError(t, err)
	assert.Same(t, &second, got)
}

func TestAnchor_HoldsInterfaceValues(t *testing.T) {
	var a anchor.Anchor[error]

	a.Bind(oops.Errorf("referent"))
	require.True(t, a.IsBound())

	got, err := a.Get()
	require.NoError(t, err)
	assert.EqualError(t, got, "referent")
}

func TestAnchor_MustGetPanicsWhenUnbound(t *testing.T) {
	var a anchor.Anchor[*int]
	assert.Panics(t, func() { a.MustGet() })
}

func TestAnchor_MustGetReturnsReferent(t *testing.T) {
	value := 7
	a := anchor.New(&value)
	assert.Same(t, &value, a.MustGet())
}
