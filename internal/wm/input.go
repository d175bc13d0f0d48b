package wm

import (
	"github.com/BurntSushi/xgb/xproto"
	log "github.com/sirupsen/logrus"
)

// edgeMask flags which resize border(s) a pointer press landed over; it is
// a bitmask because corners activate two edges at once (spec §4.7).
type edgeMask uint8

const (
	edgeNone edgeMask = 0
	edgeLeft edgeMask = 1 << iota
	edgeRight
	edgeTop
	edgeBottom
)

// resizeEdge returns which edge(s) of f the point (x, y) in frame-local
// coordinates falls within ResizeBorder pixels of, or edgeNone if it is
// over the interior (spec §4.7's grab-border detection).
func (wm *WM) resizeEdge(f *Frame, x, y int16) edgeMask {
	border := wm.cfg.ResizeBorder
	var mask edgeMask
	if int(x) < border {
		mask |= edgeLeft
	}
	if int(x) > f.Geom.W-border {
		mask |= edgeRight
	}
	if int(y) < border {
		mask |= edgeTop
	}
	if int(y) > f.Geom.H-border {
		mask |= edgeBottom
	}
	return mask
}

func (wm *WM) cursorForEdge(mask edgeMask) xproto.Cursor {
	switch {
	case mask&(edgeLeft|edgeTop) == edgeLeft|edgeTop, mask&(edgeRight|edgeBottom) == edgeRight|edgeBottom:
		return wm.conn.Cursors.NWSE
	case mask&(edgeRight|edgeTop) == edgeRight|edgeTop, mask&(edgeLeft|edgeBottom) == edgeLeft|edgeBottom:
		return wm.conn.Cursors.NESW
	case mask&(edgeLeft|edgeRight) != 0:
		return wm.conn.Cursors.Horiz
	case mask&(edgeTop|edgeBottom) != 0:
		return wm.conn.Cursors.Vert
	default:
		return wm.conn.Cursors.Normal
	}
}

// onButtonPress begins a drag (titlebar press) or a resize (outer-frame
// press over a border), per spec §4.9's Interaction state machine. Presses
// elsewhere just raise+focus the frame.
func (wm *WM) onButtonPress(e xproto.ButtonPressEvent) {
	f, ok := wm.frames.lookup(e.Event)
	if !ok {
		return
	}

	if kind, ok := buttonKindForWindow(f, e.Event); ok {
		wm.handleButtonClick(f, kind)
		return
	}

	wm.raiseAndFocus(f)

	if f.isDock() || f.Fullscreen || wm.tilingOn[wm.clientWorkspace(f)] {
		return
	}

	switch e.Event {
	case f.Titlebar:
		wm.interact = interaction{mode: InteractionDragging, frame: f, startX: e.RootX, startY: e.RootY, startGeom: f.Geom}
	case f.Outer:
		mask := wm.resizeEdge(f, e.EventX, e.EventY)
		if mask == edgeNone {
			return
		}
		wm.interact = interaction{mode: InteractionResizing, frame: f, startX: e.RootX, startY: e.RootY, startGeom: f.Geom, resizeMask: mask}
	}
}

// onMotionNotify applies the delta between the current pointer position and
// the grab origin to the frame being dragged or resized (spec §4.7).
func (wm *WM) onMotionNotify(e xproto.MotionNotifyEvent) {
	in := &wm.interact
	if in.mode == InteractionIdle || in.frame == nil {
		wm.reshapeCursorOnHover(e)
		return
	}
	if _, ok := wm.frames.lookup(in.frame.Outer); !ok {
		in.mode = InteractionIdle
		in.frame = nil
		return
	}

	dx := int(e.RootX - in.startX)
	dy := int(e.RootY - in.startY)

	switch in.mode {
	case InteractionDragging:
		r := in.startGeom
		r.X += dx
		r.Y += dy
		in.frame.Geom = r
		if err := xproto.ConfigureWindowChecked(wm.conn.Conn, in.frame.Outer,
			xproto.ConfigWindowX|xproto.ConfigWindowY,
			[]uint32{uint32(int32(r.X)), uint32(int32(r.Y))},
		).Check(); err != nil {
			log.WithError(err).Warn("move outer failed")
		}
	case InteractionResizing:
		r := in.startGeom
		if in.resizeMask&edgeLeft != 0 {
			r.X += dx
			r.W -= dx
		}
		if in.resizeMask&edgeRight != 0 {
			r.W += dx
		}
		if in.resizeMask&edgeTop != 0 {
			r.Y += dy
			r.H -= dy
		}
		if in.resizeMask&edgeBottom != 0 {
			r.H += dy
		}
		minW := 100
		minH := wm.titlebarHeight(in.frame) + 50
		if r.W < minW {
			if in.resizeMask&edgeLeft != 0 {
				r.X = in.startGeom.X + in.startGeom.W - minW
			}
			r.W = minW
		}
		if r.H < minH {
			if in.resizeMask&edgeTop != 0 {
				r.Y = in.startGeom.Y + in.startGeom.H - minH
			}
			r.H = minH
		}
		wm.setFloatingGeom(in.frame, r)
	}
}

// onButtonRelease ends any drag or resize in progress (spec §4.9: release
// is the only transition back to Idle).
func (wm *WM) onButtonRelease(e xproto.ButtonReleaseEvent) {
	wm.interact = interaction{}
}

// reshapeCursorOnHover changes the pointer shape when hovering a resize
// border on a non-tiled, non-fullscreen frame's outer window (spec §4.7,
// "cursor reshaping on hover"). Failures are logged and swallowed per
// spec §7.
func (wm *WM) reshapeCursorOnHover(e xproto.MotionNotifyEvent) {
	f, ok := wm.frames.lookup(e.Event)
	if !ok || e.Event != f.Outer || f.isDock() || f.Fullscreen || wm.tilingOn[wm.clientWorkspace(f)] {
		return
	}
	mask := wm.resizeEdge(f, e.EventX, e.EventY)
	cursor := wm.cursorForEdge(mask)
	if err := xproto.ChangeWindowAttributesChecked(wm.conn.Conn, f.Outer, xproto.CwCursor, []uint32{uint32(cursor)}).Check(); err != nil {
		log.WithError(err).Debug("cursor reshape failed")
	}
}

// onEnterNotify focuses a frame when the pointer enters it (focus-follows-
// mouse), mirroring the teacher's setFocus-on-EnterNotify idiom.
func (wm *WM) onEnterNotify(e xproto.EnterNotifyEvent) {
	f, ok := wm.frames.lookup(e.Event)
	if !ok || f.isDock() {
		return
	}
	wm.focusClient(f.Client)
}

// clientWorkspace returns the workspace of the client owning f, or the
// WM's active workspace if the client lookup fails (should not happen for
// a registered frame).
func (wm *WM) clientWorkspace(f *Frame) int {
	if c, ok := wm.clients.Get(f.Client); ok {
		return c.Workspace
	}
	return wm.workspace
}

// raiseAndFocus stacks f above its siblings and gives its client input
// focus (spec §4.6's activate semantics, reused here for plain clicks).
func (wm *WM) raiseAndFocus(f *Frame) {
	if err := xproto.ConfigureWindowChecked(wm.conn.Conn, f.Outer,
		xproto.ConfigWindowStackMode, []uint32{uint32(xproto.StackModeAbove)},
	).Check(); err != nil {
		log.WithError(err).Debug("raise failed")
	}
	wm.focusClient(f.Client)
}

func (wm *WM) focusClient(win xproto.Window) {
	if err := xproto.SetInputFocusChecked(wm.conn.Conn, xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime).Check(); err != nil {
		log.WithError(err).Debug("set input focus failed")
		return
	}
	wm.activeWindow = win
}
