// Package x11 wraps the X server connection the window manager core needs:
// the xgbutil handle used by the icccm/ewmh/xgraphics helpers, the raw
// xgb connection the event loop drains directly, and the handful of
// connection-scoped resources (cursors, RandR base event) that outlive
// any single client or frame.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// RootEventMask is the substructure-redirect mask the Display Session
// claims on the root window. Claiming it is how a reparenting WM asserts
// ownership; an AccessError here means another WM already holds it.
const RootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskPropertyChange

// Conn bundles the xgbutil handle (for icccm/ewmh/xgraphics/xcursor
// helpers, all of which take a *xgbutil.XUtil) with the values the core
// event loop and tiler read on every pass.
type Conn struct {
	XUtil     *xgbutil.XUtil
	Conn      *xgb.Conn
	Root      xproto.Window
	Screen    *xproto.ScreenInfo

	Cursors Cursors
}

// Open connects to the X server named by the DISPLAY environment variable
// (xgbutil.NewConn resolves it) and resolves the default screen.
func Open() (*Conn, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: could not open display: %w", err)
	}
	c := &Conn{
		XUtil:  xu,
		Conn:   xu.Conn(),
		Root:   xu.RootWin(),
		Screen: xu.Screen(),
	}
	return c, nil
}

// BecomeWindowManager claims substructure redirection on the root window.
// An X AccessError here means another WM already holds it.
func (c *Conn) BecomeWindowManager() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.Conn, c.Root, xproto.CwEventMask, []uint32{RootEventMask},
	).Check()
	if err != nil {
		return err
	}
	return nil
}

// InitRandR selects the RandR screen/output change events and records the
// extension's base event code so the dispatcher can recognize them amongst
// the core protocol events multiplexed on the same connection. If the
// extension is unavailable the Monitor Registry falls back to a single
// monitor covering the default screen (spec §4.3); callers should treat a
// non-nil error here as non-fatal.
func (c *Conn) InitRandR() error {
	if err := randr.Init(c.Conn); err != nil {
		return fmt.Errorf("randr unavailable: %w", err)
	}
	reply, err := randr.QueryVersion(c.Conn, 1, 5).Reply()
	if err != nil || reply == nil {
		return fmt.Errorf("randr query version failed: %w", err)
	}
	err = randr.SelectInputChecked(
		c.Conn, c.Root,
		randr.NotifyMaskScreenChange|randr.NotifyMaskOutputChange|randr.NotifyMaskCrtcChange,
	).Check()
	if err != nil {
		return fmt.Errorf("randr select input failed: %w", err)
	}
	return nil
}

// Fd exposes the server socket descriptor so an outer event loop (or test
// harness) can select/poll on it; the dispatcher itself just drains
// WaitForEvent in a loop once the fd is readable.
func (c *Conn) Fd() uintptr {
	return c.Conn.Fd()
}

// Close releases every connection-scoped resource: cursors, then the
// connection itself.
func (c *Conn) Close() {
	c.Cursors.free(c.Conn)
	if c.Conn != nil {
		c.Conn.Close()
	}
}
