package wm

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	log "github.com/sirupsen/logrus"
)

const defaultClientWidth = 800
const defaultClientHeight = 600

// onMapRequest is the admission path of spec §4.6: override-redirect
// windows pass through untouched, the WM's own self-window is ignored, a
// dock-typed window gets a dock frame, everything else gets a decorated
// normal frame on the active workspace.
func (wm *WM) onMapRequest(e xproto.MapRequestEvent) {
	attrs, err := xproto.GetWindowAttributes(wm.conn.Conn, e.Window).Reply()
	if err == nil && attrs.OverrideRedirect {
		xproto.MapWindow(wm.conn.Conn, e.Window)
		return
	}
	if e.Window == wm.selfWindow {
		return
	}

	appID := wm.readAppID(e.Window)
	if appID == wm.cfg.ShellAppID {
		xproto.MapWindow(wm.conn.Conn, e.Window)
		wm.clients.Add(&Client{Window: e.Window, Title: wm.readTitle(e.Window), AppID: appID, Mapped: true, Workspace: wm.workspace, State: StateNormal})
		wm.retileWorkspace(wm.workspace)
		return
	}

	windowTypes, _ := ewmh.WmWindowTypeGet(wm.conn.XUtil, e.Window)
	strut := wm.readStrut(e.Window)

	if isDock(windowTypes, strut) {
		wm.manageDock(e.Window, strut)
		return
	}
	wm.manageNormal(e.Window, appID, wm.wantsNoDecorations(e.Window))
}

// wantsNoDecorations reports whether a client's _MOTIF_WM_HINTS explicitly
// asks for no window chrome (HintDecorations set, DecorationNone value), a
// narrow admission rule spec.md is silent on (see DESIGN.md's Open Question
// log).
func (wm *WM) wantsNoDecorations(win xproto.Window) bool {
	hints, err := motif.WmHintsGet(wm.conn.XUtil, win)
	if err != nil {
		return false
	}
	return hints.Flags&motif.HintDecorations != 0 && hints.Decoration == motif.DecorationNone
}

func (wm *WM) readAppID(win xproto.Window) string {
	class, err := icccm.WmClassGet(wm.conn.XUtil, win)
	if err != nil || class.Class == "" {
		return ""
	}
	return class.Class
}

func (wm *WM) readStrut(win xproto.Window) Strut {
	atom := mustAtom(wm, "_NET_WM_STRUT_PARTIAL")
	words, err := xproto.GetProperty(wm.conn.Conn, false, win, atom, xproto.GetPropertyTypeAny, 0, 12).Reply()
	if err != nil || words == nil {
		return Strut{}
	}
	vals := make([]uint32, 0, len(words.Value)/4)
	for i := 0; i+4 <= len(words.Value); i += 4 {
		vals = append(vals, uint32(words.Value[i])|uint32(words.Value[i+1])<<8|uint32(words.Value[i+2])<<16|uint32(words.Value[i+3])<<24)
	}
	return strutFromWire(vals)
}

func mustAtom(wm *WM, name string) xproto.Atom {
	a, err := wm.conn.Atom(name)
	if err != nil {
		return 0
	}
	return a
}

func (wm *WM) manageDock(win xproto.Window, strut Strut) {
	f := wm.createDockFrame(win, strut)
	wm.frames.register(f)
	wm.clients.Add(&Client{Window: win, AppID: wm.readAppID(win), Mapped: true, Workspace: wm.workspace, Frame: f})
	wm.applyDockGeom(f, strut)
	if err := xproto.MapWindowChecked(wm.conn.Conn, win).Check(); err != nil {
		log.WithError(err).Warn("map dock window failed")
	}
	wm.retileWorkspace(wm.workspace)
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
}

func (wm *WM) manageNormal(win xproto.Window, appID string, undecorated bool) {
	content := wm.requestedGeometry(win)
	f, err := wm.createNormalFrame(win, content, undecorated)
	if err != nil {
		log.WithError(err).Warn("failed to create frame")
		return
	}
	c := &Client{
		Window:    win,
		AppID:     appID,
		Title:     wm.readTitle(win),
		Mapped:    true,
		Workspace: wm.workspace,
		State:     StateNormal,
		Frame:     f,
	}
	wm.clients.Add(c)
	wm.frames.register(f)

	if wm.tilingOn[wm.workspace] {
		f.Floating = false
		wm.retileWorkspace(wm.workspace)
	}

	wm.raiseAndFocus(f)
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
}

// requestedGeometry derives a new client's initial content-area rectangle
// from WM_NORMAL_HINTS (PSize) if present, else window attributes, else a
// fixed 800x600 default, placed at the spec's fixed cascade origin (100, 100).
func (wm *WM) requestedGeometry(win xproto.Window) Rect {
	area := wm.workArea()
	w, h := defaultClientWidth, defaultClientHeight

	sized := false
	if hints, err := icccm.WmNormalHintsGet(wm.conn.XUtil, win); err == nil {
		if hints.Flags&(icccm.SizeHintPSize|icccm.SizeHintUSSize) != 0 && hints.Width > 0 && hints.Height > 0 {
			w, h = int(hints.Width), int(hints.Height)
			sized = true
		}
	}
	if !sized {
		if attrs, aerr := xproto.GetGeometry(wm.conn.Conn, xproto.Drawable(win)).Reply(); aerr == nil && attrs != nil {
			if attrs.Width > 0 && attrs.Height > 0 {
				w, h = int(attrs.Width), int(attrs.Height)
			}
		}
	}

	w = minInt(w, area.W)
	h = minInt(h, area.H-wm.cfg.TitleBarHeight)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Rect{X: 100, Y: 100, W: w, H: h}.clampPosition(area)
}

func (wm *WM) readTitle(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(wm.conn.XUtil, win); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(wm.conn.XUtil, win); err == nil {
		return name
	}
	return ""
}

// onConfigureRequest acknowledges the request with a synthetic
// ConfigureNotify that echoes the requested position and size, so clients
// don't stall waiting for one. The request itself is not applied: no
// ConfigureWindow is issued for the client window.
func (wm *WM) onConfigureRequest(e xproto.ConfigureRequestEvent) {
	ev := xproto.ConfigureNotifyEvent{
		Event:            e.Window,
		Window:           e.Window,
		AboveSibling:     0,
		X:                e.X,
		Y:                e.Y,
		Width:            e.Width,
		Height:           e.Height,
		BorderWidth:      0,
		OverrideRedirect: false,
	}
	if err := xproto.SendEventChecked(wm.conn.Conn, false, e.Window, xproto.EventMaskStructureNotify, string(ev.Bytes())).Check(); err != nil {
		log.WithError(err).Debug("configure notify send failed")
	}
}

// onUnmapNotify mirrors the teacher's frame.go onUnmap dispatch: unmap the
// parent, then retile the affected workspace (spec §4.8's trigger list).
func (wm *WM) onUnmapNotify(e xproto.UnmapNotifyEvent) {
	f := wm.frames.find(func(f *Frame) bool { return f.Client == e.Window })
	if f == nil {
		return
	}
	c, _ := wm.clients.Get(f.Client)
	f.onUnmap(wm)
	if c != nil {
		c.Mapped = false
		wm.retileWorkspace(c.Workspace)
	}
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
}

// onDestroyNotify implements the terminal Client state transition (spec
// §4.9): remove from every table and retile. A BadWindow on an already
// untracked ID is a no-op, matching the "late-destroy race" error kind.
func (wm *WM) onDestroyNotify(e xproto.DestroyNotifyEvent) {
	c, ok := wm.clients.Get(e.Window)
	if !ok {
		return
	}
	workspace := c.Workspace
	if c.Frame != nil {
		if c.Frame.isDock() {
			wm.struts.RemoveDock(c.Frame)
		}
		wm.destroyFrame(c.Frame)
	}
	wm.clients.Remove(e.Window)
	wm.retileWorkspace(workspace)
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
}

// onPropertyNotify refreshes cached client metadata the shell surfaces
// (title, strut) when the corresponding property changes.
func (wm *WM) onPropertyNotify(e xproto.PropertyNotifyEvent) {
	c, ok := wm.clients.Get(e.Window)
	if !ok {
		return
	}
	name, err := wm.conn.AtomName(e.Atom)
	if err != nil {
		return
	}
	switch name {
	case "WM_NAME", "_NET_WM_NAME":
		c.Title = wm.readTitle(e.Window)
		wm.emit(ShellEvent{Kind: EventWindowsChanged})
	case "_NET_WM_STRUT_PARTIAL", "_NET_WM_STRUT":
		if c.Frame != nil && c.Frame.isDock() {
			strut := wm.readStrut(e.Window)
			wm.struts.SetDockStrut(c.Frame, strut)
			wm.applyDockGeom(c.Frame, strut)
			wm.retileWorkspace(c.Workspace)
		}
	}
}

// onClientMessage handles _NET_WM_STATE requests for fullscreen, the only
// client-message-driven state transition this core supports (spec §6:
// other _NET_* properties are out of scope).
func (wm *WM) onClientMessage(e xproto.ClientMessageEvent) {
	name, err := wm.conn.AtomName(e.Type)
	if err != nil || name != "_NET_WM_STATE" {
		return
	}
	data := e.Data.Data32
	if len(data) < 2 {
		return
	}
	action := data[0]
	for _, prop := range data[1:3] {
		atomName, err := wm.conn.AtomName(xproto.Atom(prop))
		if err != nil || atomName != "_NET_WM_STATE_FULLSCREEN" {
			continue
		}
		wm.applyFullscreenRequest(e.Window, action)
	}
}

const (
	netWmStateRemove = 0
	netWmStateAdd    = 1
	netWmStateToggle = 2
)

func (wm *WM) applyFullscreenRequest(win xproto.Window, action uint32) {
	c, ok := wm.clients.Get(win)
	if !ok || c.Frame == nil {
		return
	}
	want := c.Frame.Fullscreen
	switch action {
	case netWmStateAdd:
		want = true
	case netWmStateRemove:
		want = false
	case netWmStateToggle:
		want = !want
	}
	if want == c.Frame.Fullscreen {
		return
	}
	if want {
		wm.enterFullscreen(c)
	} else {
		wm.exitFullscreen(c)
	}
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
}

// enterFullscreen saves the frame's floating geometry, expands it to cover
// the active monitor, and moves the owning client into the Maximized state
// (spec §3/§4.9: Normal <-> Maximized on the maximize button/fullscreen
// request).
func (wm *WM) enterFullscreen(c *Client) {
	f := c.Frame
	f.SavedGeom = f.Geom
	f.Fullscreen = true
	c.State = StateMaximized
	f.Geom = wm.monitors.Active().Rect
	if err := xproto.ConfigureWindowChecked(wm.conn.Conn, f.Outer,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(f.Geom.X)), uint32(int32(f.Geom.Y)), uint32(f.Geom.W), uint32(f.Geom.H)},
	).Check(); err != nil {
		log.WithError(err).Warn("configure outer failed")
		return
	}
	wm.relayoutFrame(f)
}

// exitFullscreen restores the saved floating geometry and returns the
// client to Normal.
func (wm *WM) exitFullscreen(c *Client) {
	f := c.Frame
	f.Fullscreen = false
	c.State = StateNormal
	restore := f.SavedGeom
	if restore.W == 0 || restore.H == 0 {
		restore = f.Geom
	}
	wm.setFloatingGeom(f, restore)
	wm.retileWorkspace(wm.clientWorkspace(f))
}

// activateClient implements spec §4.6's activate semantics: restores from
// minimized if needed, raises, and focuses.
func (wm *WM) activateClient(c *Client) error {
	if c.State == StateMinimized {
		wm.restoreFromMinimize(c)
	}
	if c.Frame != nil {
		wm.raiseAndFocus(c.Frame)
	} else {
		wm.focusClient(c.Window)
	}
	return nil
}

// minimizeClient unmaps the frame's outer window and sets the client's
// WM_STATE property to Iconic (spec §6).
func (wm *WM) minimizeClient(c *Client) error {
	if c.Frame == nil || c.State == StateMinimized {
		return nil
	}
	c.PreMinimizeState = c.State
	c.State = StateMinimized
	if err := icccm.WmStateSet(wm.conn.XUtil, c.Window, icccm.WmState{State: icccm.StateIconic}); err != nil {
		log.WithError(err).Debug("set WM_STATE iconic failed")
	}
	if err := xproto.UnmapWindowChecked(wm.conn.Conn, c.Frame.Outer).Check(); err != nil {
		log.WithError(err).Warn("unmap on minimize failed")
	}
	wm.retileWorkspace(c.Workspace)
	return nil
}

func (wm *WM) restoreFromMinimize(c *Client) {
	c.State = c.PreMinimizeState
	if c.Frame == nil {
		return
	}
	if err := icccm.WmStateSet(wm.conn.XUtil, c.Window, icccm.WmState{State: icccm.StateNormal}); err != nil {
		log.WithError(err).Debug("set WM_STATE normal failed")
	}
	if err := xproto.MapWindowChecked(wm.conn.Conn, c.Frame.Outer).Check(); err != nil {
		log.WithError(err).Warn("map on restore failed")
	}
	c.Frame.Mapped = true
	wm.retileWorkspace(c.Workspace)
}

// closeClient requests a polite close via WM_PROTOCOLS/WM_DELETE_WINDOW
// when the client advertises support, grounded on the teacher's
// takeFocusProp ClientMessage construction shape.
func (wm *WM) closeClient(win xproto.Window) error {
	protocols, err := icccm.WmProtocolsGet(wm.conn.XUtil, win)
	if err != nil {
		return nil
	}
	supportsDelete := false
	for _, p := range protocols {
		if p == "WM_DELETE_WINDOW" {
			supportsDelete = true
			break
		}
	}
	if !supportsDelete {
		return nil
	}
	protoAtom, err := wm.conn.Atom("WM_PROTOCOLS")
	if err != nil {
		return err
	}
	deleteAtom, err := wm.conn.Atom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protoAtom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(deleteAtom), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}
	return xproto.SendEventChecked(wm.conn.Conn, false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}
