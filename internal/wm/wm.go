package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"

	"github.com/ronmurphy/canvasdesk/internal/x11"
)

// InteractionMode is the pointer interaction state machine of spec §4.7.
type InteractionMode int

const (
	InteractionIdle InteractionMode = iota
	InteractionDragging
	InteractionResizing
)

// interaction tracks the state of an in-progress drag or resize (spec §4.7):
// the frame being manipulated, the pointer position at grab time, and the
// frame's geometry at grab time so every motion event computes a delta from
// a fixed origin rather than compounding per-event error.
type interaction struct {
	mode       InteractionMode
	frame      *Frame
	startX     int16
	startY     int16
	startGeom  Rect
	resizeMask edgeMask
}

// WM is the Window Manager: the single owner of the X connection and every
// other subsystem (spec §3's ownership summary). All fields are touched only
// from the Run goroutine; there is no internal locking because the event
// loop is strictly single-threaded (spec §5).
type WM struct {
	conn *x11.Conn
	cfg  Config

	clients  *ClientTable
	frames   *FrameRegistry
	struts   *StrutAccounting
	monitors *MonitorRegistry

	font *truetype.Font

	workspace    int
	tilingOn     map[int]bool // per-workspace tiling toggle, spec §4.8
	activeWindow xproto.Window

	interact interaction

	observers []func(ShellEvent)

	selfWindow xproto.Window
}

// New allocates a WM bound to a live X connection (spec §4.1's Display
// Session establishment). It does not yet touch the root window; that
// happens in Init so a failed BecomeWindowManager call cleanly unwinds.
func New(cfg Config) (*WM, error) {
	conn, err := x11.Open()
	if err != nil {
		return nil, fmt.Errorf("open X connection: %w", err)
	}
	wm := &WM{
		conn:     conn,
		cfg:      cfg,
		clients:  newClientTable(),
		frames:   newFrameRegistry(),
		struts:   newStrutAccounting(),
		monitors: newMonitorRegistry(),
		tilingOn: make(map[int]bool),
	}
	return wm, nil
}

// Init performs the steps of spec §4.1: claim SubstructureRedirect on the
// root window (failing clearly if another WM already holds it), bring up
// RandR and the monitor registry, create the interaction cursors, load the
// titlebar font, and advertise the WM via EWMH.
func (wm *WM) Init() error {
	if err := wm.conn.BecomeWindowManager(); err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			return ErrAnotherWMRunning
		}
		return fmt.Errorf("become window manager: %w", err)
	}

	if err := wm.conn.CreateCursors(); err != nil {
		log.WithError(err).Warn("cursor creation failed; pointer shape will not change")
	}

	if err := wm.conn.InitRandR(); err != nil {
		log.WithError(err).Warn("RandR unavailable; falling back to single monitor")
	}
	wm.refreshMonitors()

	wm.loadFont()

	selfWin, err := wm.createSelfWindow()
	if err != nil {
		log.WithError(err).Warn("could not create identification window")
	}
	wm.selfWindow = selfWin

	if err := ewmh.SupportingWmCheckSet(wm.conn.XUtil, wm.conn.Root, selfWin); err != nil {
		log.WithError(err).Warn("failed to set _NET_SUPPORTING_WM_CHECK")
	}
	if err := ewmh.WmNameSet(wm.conn.XUtil, selfWin, "driftwm"); err != nil {
		log.WithError(err).Warn("failed to set _NET_WM_NAME")
	}

	return nil
}

// createSelfWindow makes the small unmapped identification window EWMH
// requires for _NET_SUPPORTING_WM_CHECK. onMapRequest excludes it from
// management by comparing against wm.selfWindow.
func (wm *WM) createSelfWindow() (xproto.Window, error) {
	id, err := xproto.NewWindowId(wm.conn.Conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(
		wm.conn.Conn, wm.conn.Screen.RootDepth, id, wm.conn.Root,
		-1, -1, 1, 1, 0,
		xproto.WindowClassInputOutput, wm.conn.Screen.RootVisual,
		0, nil,
	).Check()
	if err != nil {
		return 0, err
	}
	return id, nil
}

// refreshMonitors re-queries RandR (or falls back to the root screen size)
// and republishes to the monitor registry (spec §4.3).
func (wm *WM) refreshMonitors() {
	outputs, err := wm.conn.QueryOutputs()
	if err != nil {
		log.WithError(err).Debug("QueryOutputs failed")
	}
	w, h := wm.conn.ScreenSize()
	wm.monitors.Refresh(outputs, w, h)
	wm.emit(ShellEvent{Kind: EventMonitorsChanged})
}

// Close releases every resource the WM owns (spec §9's full-teardown
// requirement): every frame, then the X connection itself.
func (wm *WM) Close() {
	for _, f := range wm.frames.All() {
		wm.destroyFrame(f)
	}
	wm.conn.Close()
}

// Run drains the X event queue until WaitForEvent returns neither an event
// nor an error (the connection closed), dispatching events in the order the
// server delivered them with no suspension points (spec §5). X protocol
// errors are logged and the loop continues. This mirrors the teacher's
// single select-style loop in wm.go.
func (wm *WM) Run() error {
	for {
		xev, xerr := wm.conn.Conn.WaitForEvent()
		if xev == nil && xerr == nil {
			return nil
		}
		if xerr != nil {
			log.WithError(xerr).Debug("X protocol error")
			continue
		}
		wm.dispatch(xev)
	}
}

func (wm *WM) dispatch(xev xgb.Event) {
	switch e := xev.(type) {
	case xproto.MapRequestEvent:
		wm.onMapRequest(e)
	case xproto.ConfigureRequestEvent:
		wm.onConfigureRequest(e)
	case xproto.UnmapNotifyEvent:
		wm.onUnmapNotify(e)
	case xproto.DestroyNotifyEvent:
		wm.onDestroyNotify(e)
	case xproto.PropertyNotifyEvent:
		wm.onPropertyNotify(e)
	case xproto.EnterNotifyEvent:
		wm.onEnterNotify(e)
	case xproto.ButtonPressEvent:
		wm.onButtonPress(e)
	case xproto.MotionNotifyEvent:
		wm.onMotionNotify(e)
	case xproto.ButtonReleaseEvent:
		wm.onButtonRelease(e)
	case xproto.ClientMessageEvent:
		wm.onClientMessage(e)
	case xproto.ExposeEvent:
		wm.onExpose(e)
	default:
		if wm.handleRandrEvent(xev) {
			return
		}
	}
}

func (wm *WM) handleRandrEvent(xev xgb.Event) bool {
	if !x11.IsScreenChange(xev) {
		return false
	}
	wm.refreshMonitors()
	return true
}

func (wm *WM) onExpose(e xproto.ExposeEvent) {
	if e.Count != 0 {
		return
	}
	f, ok := wm.frames.lookup(e.Window)
	if !ok {
		return
	}
	if e.Window == f.Titlebar {
		wm.paintTitlebar(f)
		return
	}
	for _, b := range f.Buttons {
		if b.Window == e.Window {
			wm.paintButton(b)
			return
		}
	}
}
