package wm

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
)

func TestFrameRegistryResolvesEveryOwnedWindowToSameFrame(t *testing.T) {
	r := newFrameRegistry()
	f := &Frame{
		Outer:    1,
		Titlebar: 2,
		Client:   3,
		Buttons:  []*Button{{Window: 4}, {Window: 5}},
	}
	r.register(f)

	for _, win := range []xproto.Window{1, 2, 3, 4, 5} {
		got, ok := r.lookup(win)
		if assert.True(t, ok, "window %d should resolve", win) {
			assert.Same(t, f, got)
		}
	}
}

func TestFrameRegistryUnregisterRemovesAllWindows(t *testing.T) {
	r := newFrameRegistry()
	f := &Frame{Outer: 1, Titlebar: 2, Client: 3, Buttons: []*Button{{Window: 4}}}
	r.register(f)
	r.unregister(f)

	for _, win := range []xproto.Window{1, 2, 3, 4} {
		_, ok := r.lookup(win)
		assert.False(t, ok, "window %d should no longer resolve", win)
	}
	assert.Empty(t, r.All())
}

func TestFrameRegistryDockFrameHasNoTitlebarEntry(t *testing.T) {
	r := newFrameRegistry()
	f := &Frame{Kind: FrameDock, Outer: 10, Client: 10}
	r.register(f)

	got, ok := r.lookup(10)
	if assert.True(t, ok) {
		assert.Same(t, f, got)
	}
	_, ok = r.lookup(0)
	assert.False(t, ok)
}

func TestFrameRegistryRebuttonizeSwapsButtonWindows(t *testing.T) {
	r := newFrameRegistry()
	f := &Frame{Outer: 1, Titlebar: 2, Client: 3, Buttons: []*Button{{Window: 100}}}
	r.register(f)

	old := f.Buttons
	f.Buttons = []*Button{{Window: 200}}
	r.rebuttonize(f, old)

	_, ok := r.lookup(100)
	assert.False(t, ok)
	got, ok := r.lookup(200)
	if assert.True(t, ok) {
		assert.Same(t, f, got)
	}
}

func TestFrameRegistryFindLocatesByPredicate(t *testing.T) {
	r := newFrameRegistry()
	normal := &Frame{Kind: FrameNormal, Outer: 1, Client: 1}
	dock := &Frame{Kind: FrameDock, Outer: 2, Client: 2}
	r.register(normal)
	r.register(dock)

	got := r.find(func(f *Frame) bool { return f.isDock() })
	assert.Same(t, dock, got)

	got = r.find(func(f *Frame) bool { return f.Outer == 999 })
	assert.Nil(t, got)
}
