package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	log "github.com/sirupsen/logrus"
)

// FrameKind discriminates a normal decorated frame from a dock frame, which
// has no titlebar and whose Outer is aliased to the client window itself
// (spec §4.6 step 5).
type FrameKind int

const (
	FrameNormal FrameKind = iota
	FrameDock
)

// Frame is the parent window interposed between root and client, plus its
// decorations (spec §3). Invariant: exactly one Frame per non-dock Client;
// destruction unparents the client first (handled by destroyFrame below).
type Frame struct {
	Kind     FrameKind
	Outer    xproto.Window
	Titlebar xproto.Window // 0 for dock frames
	Client   xproto.Window

	Buttons []*Button
	deco    *decoration

	Geom        Rect // current geometry (includes titlebar for normal frames)
	SavedGeom   Rect // saved for fullscreen restore
	PreTileGeom Rect // saved floating geometry across a tiling-mode toggle

	Mapped      bool
	Fullscreen  bool
	Floating    bool // true = under floating/user control, false = tiler-owned
	Undecorated bool // true = client asked for no chrome via _MOTIF_WM_HINTS
}

func (f *Frame) isDock() bool { return f.Kind == FrameDock }

// FrameRegistry maps every server window ID a Frame owns (outer, titlebar,
// client, each button) back to that Frame (spec §3's Frame Registry),
// and exclusively owns the Frame records themselves.
type FrameRegistry struct {
	byWindow map[xproto.Window]*Frame
	all      []*Frame
}

func newFrameRegistry() *FrameRegistry {
	return &FrameRegistry{byWindow: make(map[xproto.Window]*Frame)}
}

func (r *FrameRegistry) register(f *Frame) {
	r.byWindow[f.Outer] = f
	if f.Titlebar != 0 {
		r.byWindow[f.Titlebar] = f
	}
	r.byWindow[f.Client] = f
	for _, b := range f.Buttons {
		r.byWindow[b.Window] = f
	}
	r.all = append(r.all, f)
}

func (r *FrameRegistry) unregister(f *Frame) {
	delete(r.byWindow, f.Outer)
	if f.Titlebar != 0 {
		delete(r.byWindow, f.Titlebar)
	}
	delete(r.byWindow, f.Client)
	for _, b := range f.Buttons {
		delete(r.byWindow, b.Window)
	}
	for i, other := range r.all {
		if other == f {
			r.all = append(r.all[:i], r.all[i+1:]...)
			break
		}
	}
}

// rebuttonize replaces the stale button-window entries after buttons are
// rebuilt (spec §4.5: "must be cheap to rebuild" on every width change).
func (r *FrameRegistry) rebuttonize(f *Frame, old []*Button) {
	for _, b := range old {
		delete(r.byWindow, b.Window)
	}
	for _, b := range f.Buttons {
		r.byWindow[b.Window] = f
	}
}

func (r *FrameRegistry) lookup(win xproto.Window) (*Frame, bool) {
	f, ok := r.byWindow[win]
	return f, ok
}

func (r *FrameRegistry) find(predicate func(*Frame) bool) *Frame {
	for _, f := range r.all {
		if predicate(f) {
			return f
		}
	}
	return nil
}

func (r *FrameRegistry) All() []*Frame {
	out := make([]*Frame, len(r.all))
	copy(out, r.all)
	return out
}

// createParent allocates the outer reparenting window, matching the
// teacher's frame.go createParent: override-redirect so the WM's own
// subsequent SubstructureRedirect grab doesn't also try to manage it.
func (wm *WM) createParent(geom Rect) (xproto.Window, error) {
	id, err := xproto.NewWindowId(wm.conn.Conn)
	if err != nil {
		return 0, fmt.Errorf("allocate outer window id: %w", err)
	}
	visual := wm.conn.Screen.RootVisual
	depth := wm.conn.Screen.RootDepth
	err = xproto.CreateWindowChecked(
		wm.conn.Conn, depth, id, wm.conn.Root,
		int16(geom.X), int16(geom.Y), uint16(geom.W), uint16(geom.H), 0,
		xproto.WindowClassInputOutput, visual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{
			wm.cfg.BorderColor,
			1,
			uint32(xproto.EventMaskSubstructureRedirect |
				xproto.EventMaskExposure |
				xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskButtonMotion |
				xproto.EventMaskPointerMotion |
				xproto.EventMaskFocusChange |
				xproto.EventMaskEnterWindow),
		},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("create outer window: %w", err)
	}
	return id, nil
}

func (wm *WM) createTitlebar(outer xproto.Window, w int) (xproto.Window, error) {
	id, err := xproto.NewWindowId(wm.conn.Conn)
	if err != nil {
		return 0, fmt.Errorf("allocate titlebar window id: %w", err)
	}
	err = xproto.CreateWindowChecked(
		wm.conn.Conn, wm.conn.Screen.RootDepth, id, outer,
		0, 0, uint16(maxInt(w, 1)), uint16(wm.cfg.TitleBarHeight), 0,
		xproto.WindowClassInputOutput, wm.conn.Screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			wm.cfg.SecondaryColor,
			uint32(xproto.EventMaskExposure |
				xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskButtonMotion),
		},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("create titlebar window: %w", err)
	}
	return id, nil
}

// reparent moves the client window into outer, adding it to the server's
// save-set (xfixes.ChangeSaveSet, exactly as the teacher does it) so a
// crashed WM leaves clients reparented back to the root instead of hidden.
func (wm *WM) reparent(outer, client xproto.Window, clientX, clientY int) error {
	if err := xproto.ReparentWindowChecked(wm.conn.Conn, client, outer, int16(clientX), int16(clientY)).Check(); err != nil {
		return fmt.Errorf("reparent client: %w", err)
	}
	if err := xfixes.ChangeSaveSetChecked(wm.conn.Conn, xfixes.SaveSetModeInsert, client).Check(); err != nil {
		log.WithError(err).Warn("change save set failed")
	}
	return nil
}

// createNormalFrame builds the full decorated Frame of spec §4.5: outer +
// titlebar + titlebar image + text colour (the font is shared, see
// WM.loadFont), reparents the client, loads the icon,
// builds buttons, and maps titlebar/outer/client in that order. Any error
// after partial construction triggers destroy() so no handle leaks.
//
// undecorated admits the client per its _MOTIF_WM_HINTS request for no
// chrome: the outer window exists for reparenting/stacking consistency but
// carries no titlebar, buttons, or decoration image, and the client fills
// the whole frame.
func (wm *WM) createNormalFrame(client xproto.Window, content Rect, undecorated bool) (f *Frame, err error) {
	titleH := wm.cfg.TitleBarHeight
	if undecorated {
		titleH = 0
	}
	outer, err := wm.createParent(Rect{X: content.X, Y: content.Y, W: content.W, H: content.H + titleH})
	if err != nil {
		return nil, err
	}
	f = &Frame{
		Kind:        FrameNormal,
		Outer:       outer,
		Client:      client,
		Geom:        Rect{X: content.X, Y: content.Y, W: content.W, H: content.H + titleH},
		Floating:    true,
		Undecorated: undecorated,
	}
	defer func() {
		if err != nil {
			wm.destroyFrame(f)
		}
	}()

	if !undecorated {
		titlebar, terr := wm.createTitlebar(outer, content.W)
		if terr != nil {
			err = terr
			return nil, err
		}
		f.Titlebar = titlebar
	}

	if err = wm.reparent(outer, client, 0, titleH); err != nil {
		return nil, err
	}

	if !undecorated {
		deco, derr := wm.newDecoration(f)
		if derr != nil {
			err = derr
			return nil, err
		}
		f.deco = deco
		f.Buttons = wm.buildButtons(f)

		if err = xproto.MapWindowChecked(wm.conn.Conn, f.Titlebar).Check(); err != nil {
			return nil, fmt.Errorf("map titlebar: %w", err)
		}
	}

	if err = xproto.MapWindowChecked(wm.conn.Conn, outer).Check(); err != nil {
		return nil, fmt.Errorf("map outer: %w", err)
	}
	if err = xproto.MapWindowChecked(wm.conn.Conn, client).Check(); err != nil {
		return nil, fmt.Errorf("map client: %w", err)
	}
	f.Mapped = true

	if !undecorated {
		wm.paintTitlebar(f)
	}
	return f, nil
}

// createDockFrame builds a "dock" form Frame per spec §4.6 step 5: no
// titlebar, Outer aliased to the client window itself, no reparenting.
func (wm *WM) createDockFrame(client xproto.Window, strut Strut) *Frame {
	f := &Frame{
		Kind:   FrameDock,
		Outer:  client,
		Client: client,
		Floating: true,
	}
	wm.struts.SetDockStrut(f, strut)
	return f
}

// destroyFrame releases every handle the Frame owns, in the order spec §4.5
// and §9 require: registry entries first, then graphics resources, then the
// client is reparented back to the root and the server windows destroyed.
// Must be safe to call on a partially constructed frame.
func (wm *WM) destroyFrame(f *Frame) {
	if f == nil {
		return
	}
	wm.frames.unregister(f)

	if f.deco != nil {
		f.deco.free(wm.conn)
		f.deco = nil
	}
	for _, b := range f.Buttons {
		b.free(wm.conn)
	}
	f.Buttons = nil

	if f.Kind == FrameNormal {
		if f.Client != 0 {
			xproto.ReparentWindow(wm.conn.Conn, f.Client, wm.conn.Root, int16(f.Geom.X), int16(f.Geom.Y))
		}
		if f.Titlebar != 0 {
			xproto.DestroyWindow(wm.conn.Conn, f.Titlebar)
		}
		if f.Outer != 0 {
			xproto.DestroyWindow(wm.conn.Conn, f.Outer)
		}
	}
}

// onUnmap handles the UnmapNotify the server sends for the client window
// (spec §4.2); it unmaps the parent in turn and marks the frame unmapped,
// mirroring the teacher's frame.go onUnmap.
func (f *Frame) onUnmap(wm *WM) {
	if !f.Mapped {
		return
	}
	if f.Kind == FrameNormal && f.Outer != 0 {
		if err := xproto.UnmapWindowChecked(wm.conn.Conn, f.Outer).Check(); err != nil {
			log.WithError(err).Warn("unmap outer failed")
		}
	}
	f.Mapped = false
}
