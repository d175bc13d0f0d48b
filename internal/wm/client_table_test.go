package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientTableAddGetRemove(t *testing.T) {
	tbl := newClientTable()
	c := &Client{Window: 42, Title: "demo", AppID: "demo"}
	tbl.Add(c)

	got, ok := tbl.Get(42)
	if assert.True(t, ok) {
		assert.Same(t, c, got)
	}

	tbl.Remove(42)
	_, ok = tbl.Get(42)
	assert.False(t, ok)
}

func TestClientTableAllReturnsEveryClient(t *testing.T) {
	tbl := newClientTable()
	tbl.Add(&Client{Window: 1})
	tbl.Add(&Client{Window: 2})
	tbl.Add(&Client{Window: 3})

	all := tbl.All()
	assert.Len(t, all, 3)
}

func TestClientTableGetMissingWindow(t *testing.T) {
	tbl := newClientTable()
	_, ok := tbl.Get(999)
	assert.False(t, ok)
}

func TestClientStateStrings(t *testing.T) {
	assert.Equal(t, "normal", StateNormal.String())
	assert.Equal(t, "minimized", StateMinimized.String())
	assert.Equal(t, "maximized", StateMaximized.String())
}
