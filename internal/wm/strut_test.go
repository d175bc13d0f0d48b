package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrutFromWire(t *testing.T) {
	s := strutFromWire([]uint32{0, 0, 30, 0})
	assert.Equal(t, 30, s.Top)
	assert.Equal(t, 0, s.TopStartX)
	assert.Equal(t, 0, s.TopEndX)
}

func TestIsDock(t *testing.T) {
	assert.True(t, isDock([]string{"_NET_WM_WINDOW_TYPE_DOCK"}, Strut{}))
	assert.True(t, isDock(nil, Strut{Top: 30}))
	assert.False(t, isDock([]string{"_NET_WM_WINDOW_TYPE_NORMAL"}, Strut{}))
}

func TestReservedAreaMaxAcrossDocks(t *testing.T) {
	sa := newStrutAccounting()
	f1, f2 := &Frame{}, &Frame{}
	sa.SetDockStrut(f1, Strut{Top: 20})
	sa.SetDockStrut(f2, Strut{Top: 30, Left: 10})
	r := sa.Reserved()
	assert.Equal(t, 30, r.Top)
	assert.Equal(t, 10, r.Left)

	sa.RemoveDock(f2)
	r = sa.Reserved()
	assert.Equal(t, 20, r.Top)
	assert.Equal(t, 0, r.Left)
}

func TestDockRectTopWithSpan(t *testing.T) {
	screen := Rect{X: 0, Y: 0, W: 1920, H: 1080}
	strut := Strut{Top: 30, TopStartX: 100, TopEndX: 500}
	r := dockRect(screen, strut, ReservedArea{})
	assert.Equal(t, Rect{X: 100, Y: 0, W: 401, H: 30}, r)
}

func TestDockRectTopFullWidth(t *testing.T) {
	screen := Rect{X: 0, Y: 0, W: 1920, H: 1080}
	strut := Strut{Top: 30}
	reserved := ReservedArea{Left: 50, Right: 20}
	r := dockRect(screen, strut, reserved)
	assert.Equal(t, Rect{X: 50, Y: 0, W: 1850, H: 30}, r)
}
