package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnRectsAbsorbsRemainder(t *testing.T) {
	col := Rect{X: 10, Y: 10, W: 1045, H: 1060}
	rects := columnRects(3, col, 10)

	total := 0
	for i, r := range rects {
		total += r.H
		if i < len(rects)-1 {
			total += 10
		}
		assert.Equal(t, col.X, r.X)
		assert.Equal(t, col.W, r.W)
	}
	assert.Equal(t, col.H, total)
	assert.Equal(t, col.Y, rects[0].Y)
}

func TestTwoWindowMasterStackLayout(t *testing.T) {
	wm := &WM{
		cfg: Config{MasterCount: 1, MasterFraction: 0.55, InnerGap: 10},
	}
	area := Rect{X: 10, Y: 10, W: 1900, H: 1060}

	masterW := int(float64(area.W) * wm.cfg.MasterFraction)
	stackW := area.W - masterW - wm.cfg.InnerGap

	assert.Equal(t, 1045, masterW)
	assert.Equal(t, 845, stackW)

	masterCol := Rect{X: area.X, Y: area.Y, W: masterW, H: area.H}
	stackCol := Rect{X: area.X + masterW + wm.cfg.InnerGap, Y: area.Y, W: stackW, H: area.H}

	assert.Equal(t, Rect{X: 10, Y: 10, W: 1045, H: 1060}, masterCol)
	assert.Equal(t, Rect{X: 1065, Y: 10, W: 845, H: 1060}, stackCol)
}

func TestWorkAreaShrinksByReservedAndGap(t *testing.T) {
	wm := &WM{cfg: Config{InnerGap: 10}, monitors: newMonitorRegistry(), struts: newStrutAccounting()}
	wm.monitors.Refresh(nil, 1920, 1080)
	wm.struts.SetManual(30, 0, 0, 0)

	area := wm.workArea()
	assert.Equal(t, 10, area.X)
	assert.Equal(t, 40, area.Y)
	assert.Equal(t, 1900, area.W)
	assert.Equal(t, 1030, area.H)
}
