package wm

import (
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	log "github.com/sirupsen/logrus"
)

const tilingTitlebarHeight = 2

// screenRect is the active monitor's full rectangle, unshrunk by any
// reservation; this is the reference rect dockRect snaps dock windows
// against (spec §4.4).
func (wm *WM) screenRect() Rect {
	return wm.monitors.Active().Rect
}

// workArea is the monitor rectangle shrunk by the global reserved area and
// further inset by one gap (spec §4.8).
func (wm *WM) workArea() Rect {
	mon := wm.monitors.Active()
	r := wm.struts.Reserved()
	area := mon.Rect.shrink(r.Top, r.Bottom, r.Left, r.Right)
	return area.inset(wm.cfg.InnerGap)
}

// applyDockGeom computes a dock frame's on-screen rectangle from its strut
// (spec §4.4/§8) and pushes it to the server; the dock's own requested
// geometry is never honored, only the strut-derived snap.
func (wm *WM) applyDockGeom(f *Frame, strut Strut) {
	r := dockRect(wm.screenRect(), strut, wm.struts.Reserved())
	if r.W <= 0 || r.H <= 0 {
		return
	}
	f.Geom = r
	if err := xproto.ConfigureWindowChecked(wm.conn.Conn, f.Outer,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(r.W), uint32(r.H)},
	).Check(); err != nil {
		log.WithError(err).Warn("configure dock window failed")
	}
}

// tileableClients returns C per spec §4.8: mapped, not minimized, framed,
// not dock/floating/fullscreen, on the given workspace, stably ordered by
// ascending (frame.x, frame.y).
func (wm *WM) tileableClients(workspace int) []*Client {
	var out []*Client
	for _, c := range wm.clients.All() {
		if c.Workspace != workspace {
			continue
		}
		if !c.Mapped || c.State == StateMinimized || c.Frame == nil {
			continue
		}
		f := c.Frame
		if f.isDock() || f.Floating || f.Fullscreen {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Frame.Geom, out[j].Frame.Geom
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return out
}

// retileWorkspace recomputes tiling-mode frame geometry for a workspace if
// it is in tiling mode (spec §4.8's "retile triggers" list); floating
// workspaces are untouched since floating positions are client/user
// authoritative.
func (wm *WM) retileWorkspace(workspace int) {
	if !wm.tilingOn[workspace] {
		return
	}
	clients := wm.tileableClients(workspace)
	area := wm.workArea()
	gap := wm.cfg.InnerGap

	switch len(clients) {
	case 0:
		return
	case 1:
		wm.applyTileGeom(clients[0].Frame, area)
	default:
		m := minInt(len(clients), wm.cfg.MasterCount)
		master := clients[:m]
		stack := clients[m:]

		masterW := int(float64(area.W) * wm.cfg.MasterFraction)
		stackW := area.W - masterW - gap
		if stack == nil || len(stack) == 0 {
			masterW = area.W
		}

		masterCol := Rect{X: area.X, Y: area.Y, W: masterW, H: area.H}
		stackCol := Rect{X: area.X + masterW + gap, Y: area.Y, W: stackW, H: area.H}

		wm.tileColumn(master, masterCol, gap)
		wm.tileColumn(stack, stackCol, gap)
	}
}

// columnRects computes n stacked rectangles filling col vertically, each of
// height floor((col.H-(n-1)*gap)/n) except the last, which absorbs the
// rounding remainder so the column exactly fills col.H (spec §4.8). Kept
// free of any X calls so the rounding behaviour is unit-testable.
func columnRects(n int, col Rect, gap int) []Rect {
	if n <= 0 {
		return nil
	}
	height := (col.H - (n-1)*gap) / n
	out := make([]Rect, n)
	y := col.Y
	for i := 0; i < n; i++ {
		h := height
		if i == n-1 {
			h = col.Y + col.H - y
		}
		out[i] = Rect{X: col.X, Y: y, W: col.W, H: h}
		y += h + gap
	}
	return out
}

// tileColumn stacks a column's clients vertically via columnRects and
// applies each resulting rectangle to the server (spec §4.8).
func (wm *WM) tileColumn(clients []*Client, col Rect, gap int) {
	rects := columnRects(len(clients), col, gap)
	for i, c := range clients {
		wm.applyTileGeom(c.Frame, rects[i])
	}
}

// applyTileGeom moves and resizes a frame's server windows into r, switches
// it to the 2px tiling titlebar, and repaints (spec §4.8).
func (wm *WM) applyTileGeom(f *Frame, r Rect) {
	if f == nil || r.W <= 0 || r.H <= 0 {
		return
	}
	f.Geom = r
	if err := xproto.ConfigureWindowChecked(wm.conn.Conn, f.Outer,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(r.W), uint32(r.H)},
	).Check(); err != nil {
		log.WithError(err).Warn("configure outer failed")
		return
	}
	wm.relayoutFrame(f)
}

// relayoutFrame repositions a frame's titlebar and client windows to match
// its current Geom and tiling state, then rebuilds buttons and repaints.
func (wm *WM) relayoutFrame(f *Frame) {
	if f.Kind != FrameNormal {
		return
	}
	titleH := wm.titlebarHeight(f)
	clientH := f.Geom.H - titleH
	if clientH < 1 {
		clientH = 1
	}

	if f.Titlebar != 0 {
		if err := xproto.ConfigureWindowChecked(wm.conn.Conn, f.Titlebar,
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{uint32(f.Geom.W), uint32(titleH)},
		).Check(); err != nil {
			log.WithError(err).Warn("configure titlebar failed")
		}
	}
	if err := xproto.ConfigureWindowChecked(wm.conn.Conn, f.Client,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{0, uint32(titleH), uint32(f.Geom.W), uint32(clientH)},
	).Check(); err != nil {
		log.WithError(err).Warn("configure client failed")
	}

	if f.Undecorated {
		return
	}

	old := f.Buttons
	f.Buttons = wm.buildButtons(f)
	for _, b := range old {
		b.free(wm.conn)
	}
	wm.frames.rebuttonize(f, old)

	if f.deco != nil {
		img, err := wm.newDecoration(f)
		if err == nil {
			f.deco.free(wm.conn)
			f.deco = img
		}
	}
	wm.paintTitlebar(f)
}

// setFloatingGeom applies a user-authoritative floating geometry, clamped
// to the current work area (spec §4.8's floating mode clamp).
func (wm *WM) setFloatingGeom(f *Frame, r Rect) {
	area := wm.workArea()
	r = r.clampPosition(area)
	f.Geom = r
	if err := xproto.ConfigureWindowChecked(wm.conn.Conn, f.Outer,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(r.W), uint32(r.H)},
	).Check(); err != nil {
		log.WithError(err).Warn("configure outer failed")
		return
	}
	wm.relayoutFrame(f)
}

// enterTilingForWorkspace toggles a workspace into tiling mode: every tileable frame's
// floating geometry is saved to PreTileGeom, Floating is cleared, and the
// workspace is retiled (spec §4.8).
func (wm *WM) enterTilingForWorkspace(workspace int) {
	for _, c := range wm.clients.All() {
		if c.Workspace != workspace || c.Frame == nil {
			continue
		}
		f := c.Frame
		if f.isDock() || f.Fullscreen {
			continue
		}
		f.PreTileGeom = f.Geom
		f.Floating = false
	}
	wm.retileWorkspace(workspace)
}

// exitTilingForWorkspace restores every frame on the workspace to its saved
// floating geometry and standard titlebar height (spec §4.8).
func (wm *WM) exitTilingForWorkspace(workspace int) {
	for _, c := range wm.clients.All() {
		if c.Workspace != workspace || c.Frame == nil {
			continue
		}
		f := c.Frame
		if f.isDock() || f.Fullscreen {
			continue
		}
		f.Floating = true
		restore := f.PreTileGeom
		if restore.W == 0 || restore.H == 0 {
			restore = f.Geom
		}
		wm.setFloatingGeom(f, restore)
	}
}
