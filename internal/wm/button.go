package wm

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"
	log "github.com/sirupsen/logrus"

	"github.com/ronmurphy/canvasdesk/internal/x11"
)

// ButtonKind identifies a titlebar button's action (spec §4.5).
type ButtonKind int

const (
	ButtonClose ButtonKind = iota
	ButtonMaximize
	ButtonMinimize
)

// Button is one titlebar control window (spec §3). It is a child of the
// titlebar, not the outer frame, so it moves for free when the titlebar is
// resized and only needs repositioning, never reparenting.
type Button struct {
	Kind   ButtonKind
	Window xproto.Window
	X, Y   int
	Size   int
	Color  uint32
	img    *xgraphics.Image
}

// buttonOrder lists kinds right-to-left, matching the teacher's convention
// of laying out window chrome from the trailing edge inward.
var buttonOrder = []ButtonKind{ButtonClose, ButtonMaximize, ButtonMinimize}

// buttonKindForWindow reports which of f's buttons (if any) owns win.
func buttonKindForWindow(f *Frame, win xproto.Window) (ButtonKind, bool) {
	for _, b := range f.Buttons {
		if b.Window == win {
			return b.Kind, true
		}
	}
	return 0, false
}

// handleButtonClick dispatches a titlebar button press to the matching
// client lifecycle action (spec §4.5: close/maximize/minimize).
func (wm *WM) handleButtonClick(f *Frame, kind ButtonKind) {
	c, ok := wm.clients.Get(f.Client)
	if !ok {
		return
	}
	switch kind {
	case ButtonClose:
		if err := wm.closeClient(c.Window); err != nil {
			log.WithError(err).Warn("close via titlebar button failed")
		}
	case ButtonMinimize:
		if err := wm.minimizeClient(c); err != nil {
			log.WithError(err).Warn("minimize via titlebar button failed")
			return
		}
		wm.emit(ShellEvent{Kind: EventWindowsChanged})
	case ButtonMaximize:
		if f.Fullscreen {
			wm.exitFullscreen(c)
		} else {
			wm.enterFullscreen(c)
		}
		wm.emit(ShellEvent{Kind: EventWindowsChanged})
	}
}

func buttonColor(wm *WM, k ButtonKind) uint32 {
	switch k {
	case ButtonClose:
		return wm.cfg.CloseColor
	case ButtonMaximize:
		return wm.cfg.MaximizeColor
	default:
		return wm.cfg.MinimizeColor
	}
}

// buildButtons creates the three titlebar controls, spaced right-to-left by
// ButtonSize+ButtonSpacing from the titlebar's right edge (spec §4.5).
// Building is cheap and is redone in full on every width change rather than
// patched incrementally, since the old FrameRegistry entries for a frame's
// buttons are replaced wholesale by rebuttonize.
func (wm *WM) buildButtons(f *Frame) []*Button {
	size := wm.cfg.ButtonSize
	gap := wm.cfg.ButtonSpacing
	titleH := wm.titlebarHeight(f)
	y := (titleH - size) / 2
	if y < 0 {
		y = 0
	}

	buttons := make([]*Button, 0, len(buttonOrder))
	x := f.Geom.W - gap - size
	for _, kind := range buttonOrder {
		if x < 0 || titleH < size {
			break
		}
		b, err := wm.createButton(f, kind, x, y, size)
		if err != nil {
			log.WithError(err).Warn("create titlebar button failed")
			break
		}
		buttons = append(buttons, b)
		x -= size + gap
	}
	return buttons
}

func (wm *WM) createButton(f *Frame, kind ButtonKind, x, y, size int) (*Button, error) {
	id, err := xproto.NewWindowId(wm.conn.Conn)
	if err != nil {
		return nil, fmt.Errorf("allocate button window id: %w", err)
	}
	color := buttonColor(wm, kind)
	err = xproto.CreateWindowChecked(
		wm.conn.Conn, wm.conn.Screen.RootDepth, id, f.Titlebar,
		int16(x), int16(y), uint16(size), uint16(size), 0,
		xproto.WindowClassInputOutput, wm.conn.Screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			color,
			uint32(xproto.EventMaskExposure | xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease),
		},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create button window: %w", err)
	}
	b := &Button{Kind: kind, Window: id, X: x, Y: y, Size: size, Color: color}
	img, err := xgraphics.New(wm.conn.XUtil, image.Rect(0, 0, size, size))
	if err != nil {
		return nil, fmt.Errorf("allocate button image: %w", err)
	}
	b.img = img
	if err := xproto.MapWindowChecked(wm.conn.Conn, id).Check(); err != nil {
		return nil, fmt.Errorf("map button: %w", err)
	}
	return b, nil
}

func (b *Button) free(conn *x11.Conn) {
	if b == nil {
		return
	}
	if b.img != nil {
		b.img.Destroy()
	}
	if b.Window != 0 {
		xproto.DestroyWindow(conn.Conn, b.Window)
	}
}

// paintButton fills the button's background then draws its pictogram: a
// cross for close, a square outline for maximize, a low horizontal bar for
// minimize (spec §4.5).
func (wm *WM) paintButton(b *Button) {
	if b == nil || b.img == nil {
		return
	}
	img := b.img
	bg := colorFromUint32(b.Color)
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			img.SetBGRA(x, y, xgraphics.BGRA{R: bg.R, G: bg.G, B: bg.B, A: 0xff})
		}
	}

	ink := xgraphics.BGRA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	switch b.Kind {
	case ButtonClose:
		paintCross(img, b.Size, ink)
	case ButtonMaximize:
		paintSquareOutline(img, b.Size, ink)
	case ButtonMinimize:
		paintBar(img, b.Size, ink)
	}

	if err := img.XSurfaceSet(b.Window); err != nil {
		log.WithError(err).Warn("button surface set failed")
		return
	}
	img.XDraw()
	img.XPaint(b.Window)
}

func paintCross(img *xgraphics.Image, size int, ink xgraphics.BGRA) {
	pad := maxInt(size/4, 1)
	for i := pad; i < size-pad; i++ {
		img.SetBGRA(i, i, ink)
		img.SetBGRA(size-1-i, i, ink)
	}
}

func paintSquareOutline(img *xgraphics.Image, size int, ink xgraphics.BGRA) {
	pad := maxInt(size/4, 1)
	for x := pad; x < size-pad; x++ {
		img.SetBGRA(x, pad, ink)
		img.SetBGRA(x, size-1-pad, ink)
	}
	for y := pad; y < size-pad; y++ {
		img.SetBGRA(pad, y, ink)
		img.SetBGRA(size-1-pad, y, ink)
	}
}

func paintBar(img *xgraphics.Image, size int, ink xgraphics.BGRA) {
	pad := maxInt(size/4, 1)
	y := size - pad - 1
	if y < 0 {
		y = 0
	}
	for x := pad; x < size-pad; x++ {
		img.SetBGRA(x, y, ink)
	}
}
