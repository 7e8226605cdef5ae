// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package module_test

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwhitelytning/mi/pkg/dynlib"
	"github.com/cwhitelytning/mi/pkg/errutil"
	"github.com/cwhitelytning/mi/pkg/logging"
	"github.com/cwhitelytning/mi/pkg/module"
)

// stubModule records lifecycle events so ordering is observable.
type stubModule struct {
	name      string
	loaded    bool
	loadErr   error
	unloadErr error
	events    *[]string

	owner  *module.Loader
	logger logging.Logger
}

func (s *stubModule) Load() error {
	if s.loadErr != nil {
		return s.loadErr
	}
	s.loaded = true
	*s.events = append(*s.events, "load "+s.name)
	return nil
}

func (s *stubModule) Unload() error {
	if s.unloadErr != nil {
		return s.unloadErr
	}
	s.loaded = false
	*s.events = append(*s.events, "unload "+s.name)
	return nil
}

func (s *stubModule) IsLoaded() bool    { return s.loaded }
func (s *stubModule) Classname() string { return s.name }

func (s *stubModule) BindOwner(l *module.Loader)  { s.owner = l }
func (s *stubModule) BindLogger(l logging.Logger) { s.logger = l }

func newTree(t *testing.T) (*module.Loader, []*stubModule, *[]string) {
	t.Helper()

	events := &[]string{}
	root := module.NewLoader(logging.NewNull())

	stubs := make([]*stubModule, 0, 3)
	for _, name := range []string{"A", "B", "C"} {
		s := &stubModule{name: name, events: events}
		root.Attach(s)
		stubs = append(stubs, s)
	}
	return root, stubs, events
}

func TestLoader_ForwardLoadReverseUnload(t *testing.T) {
	root, _, events := newTree(t)

	require.NoError(t, root.Load())
	assert.Equal(t, []string{"load A", "load B", "load C"}, *events)

	*events = nil
	require.NoError(t, root.Unload())
	assert.Equal(t, []string{"unload C", "unload B", "unload A"}, *events)
}

func TestLoader_LoadSkipsAlreadyLoaded(t *testing.T) {
	root, stubs, events := newTree(t)
	stubs[1].loaded = true

	require.NoError(t, root.Load())
	assert.Equal(t, []string{"load A", "load C"}, *events)
}

func TestLoader_UnloadSkipsAlreadyUnloaded(t *testing.T) {
	root, stubs, events := newTree(t)
	require.NoError(t, root.Load())
	require.NoError(t, stubs[1].Unload())

	*events = nil
	require.NoError(t, root.Unload())
	assert.Equal(t, []string{"unload C", "unload A"}, *events)
}

func TestLoader_LoadStopsAtFirstFailure(t *testing.T) {
	root, stubs, events := newTree(t)
	boom := oops.Code("STUB_LOAD_FAILED").Errorf("boom")
	stubs[1].loadErr = boom

	err := root.Load()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STUB_LOAD_FAILED")

	// A stays loaded, C was never attempted; no rollback.
	assert.Equal(t, []string{"load A"}, *events)
	assert.True(t, stubs[0].IsLoaded())
	assert.False(t, stubs[2].IsLoaded())
}

func TestLoader_UnloadStopsAtFirstFailure(t *testing.T) {
	root, stubs, events := newTree(t)
	require.NoError(t, root.Load())

	boom := oops.Code("STUB_UNLOAD_FAILED").Errorf("boom")
	stubs[1].unloadErr = boom

	*events = nil
	err := root.Unload()
	require.Error(t, err)

	// C was unloaded before the failure; A was never reached.
	assert.Equal(t, []string{"unload C"}, *events)
	assert.True(t, stubs[0].IsLoaded())
}

func TestLoader_CloseReleasesInReverseOrder(t *testing.T) {
	root, _, events := newTree(t)
	require.NoError(t, root.Load())

	*events = nil
	root.Close()
	assert.Equal(t, []string{"unload C", "unload B", "unload A"}, *events)
	assert.Zero(t, root.Len())
}

func TestLoader_CloseToleratesUnloadFailure(t *testing.T) {
	root, stubs, events := newTree(t)
	require.NoError(t, root.Load())
	stubs[1].unloadErr = oops.Errorf("boom")

	*events = nil
	root.Close() // must not panic or propagate

	// The failing child is still released; the rest unload normally.
	assert.Equal(t, []string{"unload C", "unload A"}, *events)
	assert.Zero(t, root.Len())
}

func TestLoader_AttachBindsOwnerAndLogger(t *testing.T) {
	logger := logging.NewNull()
	root := module.NewLoader(logger)

	events := []string{}
	s := &stubModule{name: "A", events: &events}
	got := root.Attach(s)

	assert.Same(t, s, got.(*stubModule))
	assert.Same(t, root, s.owner)
	assert.Same(t, logger, s.logger.(*logging.Null))
}

func TestLoader_AttachModuleBuildsAgainstLoader(t *testing.T) {
	logger := logging.NewNull()
	root := module.NewLoader(logger)

	m := root.AttachModule("/plugins/foo.so")
	require.Equal(t, 1, root.Len())

	owner, err := m.Owner()
	require.NoError(t, err)
	assert.Same(t, root, owner)

	bound, err := m.Logger()
	require.NoError(t, err)
	assert.Same(t, logger, bound.(*logging.Null))

	child, err := root.Child(0)
	require.NoError(t, err)
	assert.Same(t, m, child.(*module.Module))
}

func TestLoader_ChildIndexRange(t *testing.T) {
	root := module.NewLoader(nil)

	_, err := root.Child(0)
	errutil.AssertErrorCode(t, err, module.CodeIndexRange)

	_, err = root.Child(-1)
	errutil.AssertErrorCode(t, err, module.CodeIndexRange)
}

func TestLoader_NestedLoadersLoadDepthFirstInOrder(t *testing.T) {
	events := []string{}
	root := module.NewLoader(logging.NewNull())

	a := &stubModule{name: "A", events: &events}
	root.Attach(a)

	sub := root.AttachLoader("")
	b := &stubModule{name: "B", events: &events}
	sub.Attach(b)

	c := &stubModule{name: "C", events: &events}
	root.Attach(c)

	require.NoError(t, root.Load())
	assert.Equal(t, []string{"load A", "load B", "load C"}, events)

	events = nil
	a.events, b.events, c.events = &events, &events, &events
	require.NoError(t, root.Unload())
	assert.Equal(t, []string{"unload C", "unload B", "unload A"}, events)
}

func TestLoaderAt_SelfLoadFailureSkipsChildren(t *testing.T) {
	events := []string{}
	l := module.NewLoaderAt("/plugins/absent.so", logging.NewNull())
	child := &stubModule{name: "A", events: &events}
	l.Attach(child)

	err := l.Load()
	errutil.AssertErrorCode(t, err, dynlib.CodeNotReadable)

	// The loader's own library failed to open, so no child is attempted.
	assert.False(t, l.IsLoaded())
	assert.False(t, child.IsLoaded())
	assert.Empty(t, events)
}

func TestLoader_AggregatorLoadIsNoop(t *testing.T) {
	root := module.NewLoader(nil)

	require.NoError(t, root.Load())
	assert.False(t, root.IsLoaded())
	assert.Equal(t, "", root.Path())

	require.NoError(t, root.Unload())
}

func TestLoader_AttachAfterLoadNotAutoLoaded(t *testing.T) {
	root, _, events := newTree(t)
	require.NoError(t, root.Load())

	late := &stubModule{name: "D", events: events}
	root.Attach(late)
	assert.False(t, late.IsLoaded())

	// A subsequent pass picks it up; the loaded three are skipped.
	*events = nil
	require.NoError(t, root.Load())
	assert.Equal(t, []string{"load D"}, *events)
}
