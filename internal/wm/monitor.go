package wm

import (
	"sync"

	"github.com/ronmurphy/canvasdesk/internal/x11"
)

// Monitor is an immutable snapshot of one connected output (spec §3):
// name, rectangle on the root coordinate plane, primary flag.
type Monitor struct {
	Name    string
	Rect    Rect
	Primary bool
}

// MonitorRegistry enumerates outputs on startup and on every RandR
// screen/output-change event (spec §4.3). Snapshot replacement is atomic;
// after each replacement every subscriber is called with the new monitor
// slice.
//
// Grounded on alexzeitgeist-cortile's store/root.go XDisplays/XHead
// snapshot shape; the RandR wire calls themselves live in internal/x11.
type MonitorRegistry struct {
	mu        sync.RWMutex
	monitors  []Monitor
	listeners []func([]Monitor)
}

func newMonitorRegistry() *MonitorRegistry {
	return &MonitorRegistry{}
}

// Refresh replaces the snapshot from a fresh RandR query, falling back to a
// single monitor covering the default screen if RandR returned nothing
// usable (unavailable extension or zero connected outputs, spec §4.3).
func (m *MonitorRegistry) Refresh(outputs []x11.OutputGeometry, screenW, screenH uint16) {
	var next []Monitor
	for _, o := range outputs {
		next = append(next, Monitor{
			Name:    o.Name,
			Rect:    Rect{X: int(o.X), Y: int(o.Y), W: int(o.W), H: int(o.H)},
			Primary: o.Primary,
		})
	}
	if len(next) == 0 {
		next = []Monitor{{
			Name:    "default",
			Rect:    Rect{X: 0, Y: 0, W: int(screenW), H: int(screenH)},
			Primary: true,
		}}
	}
	m.mu.Lock()
	m.monitors = next
	listeners := append([]func([]Monitor){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// Snapshot returns the current immutable monitor list.
func (m *MonitorRegistry) Snapshot() []Monitor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Monitor, len(m.monitors))
	copy(out, m.monitors)
	return out
}

// Active returns the primary monitor, or the first one if none is flagged
// primary. The spec's tiler operates against a single "active monitor";
// this module does not implement per-workspace monitor assignment beyond
// that (§9 Open Question: retain the workspace-count limitation).
func (m *MonitorRegistry) Active() Monitor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mon := range m.monitors {
		if mon.Primary {
			return mon
		}
	}
	if len(m.monitors) > 0 {
		return m.monitors[0]
	}
	return Monitor{}
}

// OnChange registers an observer fired after every Refresh, letting the
// Shell Interface re-publish its monitor list without polling.
func (m *MonitorRegistry) OnChange(fn func([]Monitor)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
