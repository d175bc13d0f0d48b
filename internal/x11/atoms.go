package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Atom interns an atom name through xgbutil's cache, used for the small set
// of atoms the core uses directly (_NET_WM_STRUT_PARTIAL, WM_PROTOCOLS,
// WM_DELETE_WINDOW) instead of going through an icccm/ewmh accessor.
func (c *Conn) Atom(name string) (xproto.Atom, error) {
	return xprop.Atm(c.XUtil, name)
}

// AtomName is the inverse lookup, used to dispatch PropertyNotify and
// ClientMessage events by atom name.
func (c *Conn) AtomName(atom xproto.Atom) (string, error) {
	return xprop.AtomName(c.XUtil, atom)
}
