package wm

// Strut mirrors the 12 CARDINALs of _NET_WM_STRUT_PARTIAL bit-exactly
// (spec §6): four reserved widths plus four start/end ranges per
// horizontal edge and four per vertical edge. Zero means "no reservation
// on that edge".
type Strut struct {
	Left, Right, Top, Bottom                         int
	LeftStartY, LeftEndY, RightStartY, RightEndY     int
	TopStartX, TopEndX, BottomStartX, BottomEndX     int
}

// strutFromWire decodes the raw CARDINAL array read off _NET_WM_STRUT_PARTIAL.
// Per spec §6, a client may supply only the first 4 (the older
// _NET_WM_STRUT layout); any missing range defaults to zero.
func strutFromWire(vals []uint32) Strut {
	get := func(i int) int {
		if i < len(vals) {
			return int(vals[i])
		}
		return 0
	}
	return Strut{
		Left: get(0), Right: get(1), Top: get(2), Bottom: get(3),
		LeftStartY: get(4), LeftEndY: get(5),
		RightStartY: get(6), RightEndY: get(7),
		TopStartX: get(8), TopEndX: get(9),
		BottomStartX: get(10), BottomEndX: get(11),
	}
}

// ReservedArea is the four scalar edge reservations the spec requires be
// "the max of each side across all docks, plus manual reservations" (§3).
type ReservedArea struct {
	Top, Bottom, Left, Right int
}

// StrutAccounting owns the per-dock-frame strut records and the shell's
// manual reservations, and derives the global ReservedArea from them. There
// is no teacher equivalent (marwind has no dock support); the dock-vs-client
// classification and per-edge max idiom are grounded on the shape of
// ewmh.WmStrutPartialGet/WmWindowTypeGet in BurntSushi-xgbutil/ewmh/ewmh.go.
type StrutAccounting struct {
	docks  map[*Frame]Strut
	manual ReservedArea
}

func newStrutAccounting() *StrutAccounting {
	return &StrutAccounting{docks: make(map[*Frame]Strut)}
}

// SetDockStrut records or updates a dock frame's strut.
func (s *StrutAccounting) SetDockStrut(f *Frame, strut Strut) {
	s.docks[f] = strut
}

// RemoveDock drops a dock frame's contribution, e.g. on DestroyNotify.
func (s *StrutAccounting) RemoveDock(f *Frame) {
	delete(s.docks, f)
}

// SetManual replaces the shell-supplied manual reservation (spec §4.9,
// set-manual-strut command).
func (s *StrutAccounting) SetManual(top, bottom, left, right int) {
	s.manual = ReservedArea{Top: top, Bottom: bottom, Left: left, Right: right}
}

// Reserved recomputes the global reserved area: manual_edge plus the max of
// that edge across every tracked dock. Recomputing from the current dock set
// on every call (rather than incrementally) is what makes the result
// independent of event order (spec §8 invariant).
func (s *StrutAccounting) Reserved() ReservedArea {
	var r ReservedArea
	for _, strut := range s.docks {
		r.Top = maxInt(r.Top, strut.Top)
		r.Bottom = maxInt(r.Bottom, strut.Bottom)
		r.Left = maxInt(r.Left, strut.Left)
		r.Right = maxInt(r.Right, strut.Right)
	}
	r.Top += s.manual.Top
	r.Bottom += s.manual.Bottom
	r.Left += s.manual.Left
	r.Right += s.manual.Right
	return r
}

// isDock classifies a window as a dock per spec §4.4: its
// _NET_WM_WINDOW_TYPE contains the dock atom, OR _NET_WM_STRUT_PARTIAL has
// any non-zero of its first four entries.
func isDock(windowTypes []string, strut Strut) bool {
	for _, t := range windowTypes {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return strut.Top != 0 || strut.Bottom != 0 || strut.Left != 0 || strut.Right != 0
}

// dockRect derives a dock's on-screen rectangle from its strut rather than
// from any geometry the client requested (spec §4.4/§8): the reserving edge
// is snapped to the screen edge, the span along the orthogonal axis uses the
// start/end range when non-degenerate, otherwise the full screen span minus
// the orthogonal reserved area. The result is clamped to the screen.
func dockRect(screen Rect, strut Strut, reserved ReservedArea) Rect {
	switch {
	case strut.Top > 0:
		return dockRectHoriz(screen, strut.Top, strut.TopStartX, strut.TopEndX, reserved.Left, reserved.Right, true)
	case strut.Bottom > 0:
		return dockRectHoriz(screen, strut.Bottom, strut.BottomStartX, strut.BottomEndX, reserved.Left, reserved.Right, false)
	case strut.Left > 0:
		return dockRectVert(screen, strut.Left, strut.LeftStartY, strut.LeftEndY, reserved.Top, reserved.Bottom, true)
	case strut.Right > 0:
		return dockRectVert(screen, strut.Right, strut.RightStartY, strut.RightEndY, reserved.Top, reserved.Bottom, false)
	default:
		return Rect{}
	}
}

func dockRectHoriz(screen Rect, thickness, startX, endX, reservedLeft, reservedRight int, top bool) Rect {
	x, w := startX, endX-startX+1
	if endX <= startX {
		x = screen.X + reservedLeft
		w = screen.W - reservedLeft - reservedRight
	}
	y := screen.Y
	if !top {
		y = screen.Y + screen.H - thickness
	}
	return clampToScreen(Rect{X: x, Y: y, W: w, H: thickness}, screen)
}

func dockRectVert(screen Rect, thickness, startY, endY, reservedTop, reservedBottom int, left bool) Rect {
	y, h := startY, endY-startY+1
	if endY <= startY {
		y = screen.Y + reservedTop
		h = screen.H - reservedTop - reservedBottom
	}
	x := screen.X
	if !left {
		x = screen.X + screen.W - thickness
	}
	return clampToScreen(Rect{X: x, Y: y, W: thickness, H: h}, screen)
}

func clampToScreen(r Rect, screen Rect) Rect {
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	if r.X < screen.X {
		r.X = screen.X
	}
	if r.Y < screen.Y {
		r.Y = screen.Y
	}
	if r.X+r.W > screen.X+screen.W {
		r.W = screen.X + screen.W - r.X
	}
	if r.Y+r.H > screen.Y+screen.H {
		r.H = screen.Y + screen.H - r.Y
	}
	return r
}
