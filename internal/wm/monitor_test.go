package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ronmurphy/canvasdesk/internal/x11"
)

func TestMonitorRegistryFallsBackToDefaultScreen(t *testing.T) {
	reg := newMonitorRegistry()
	reg.Refresh(nil, 1920, 1080)

	snap := reg.Snapshot()
	if assert.Len(t, snap, 1) {
		assert.Equal(t, "default", snap[0].Name)
		assert.Equal(t, Rect{X: 0, Y: 0, W: 1920, H: 1080}, snap[0].Rect)
		assert.True(t, snap[0].Primary)
	}
	assert.Equal(t, snap[0], reg.Active())
}

func TestMonitorRegistryPrefersPrimary(t *testing.T) {
	reg := newMonitorRegistry()
	reg.Refresh([]x11.OutputGeometry{
		{Name: "HDMI-1", X: 0, Y: 0, W: 1920, H: 1080, Primary: false},
		{Name: "eDP-1", X: 1920, Y: 0, W: 1280, H: 800, Primary: true},
	}, 1920, 1080)

	active := reg.Active()
	assert.Equal(t, "eDP-1", active.Name)
}

func TestMonitorRegistryNotifiesOnChange(t *testing.T) {
	reg := newMonitorRegistry()
	var got []Monitor
	reg.OnChange(func(m []Monitor) { got = m })

	reg.Refresh([]x11.OutputGeometry{{Name: "DP-1", W: 800, H: 600, Primary: true}}, 800, 600)

	if assert.Len(t, got, 1) {
		assert.Equal(t, "DP-1", got[0].Name)
	}
}
