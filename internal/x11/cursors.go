package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"
)

// Standard X cursor-font glyph indices (X11/cursorfont.h), the values
// xcursor.CreateCursor expects (each even glyph is the "on" glyph; the
// library derives the mask glyph as cursor+1 itself).
const (
	glyphLeftPtr        = 68
	glyphSBHDoubleArrow = 108
	glyphSBVDoubleArrow = 116
	glyphTopLeftCorner  = 134
	glyphTopRightCorner = 136
)

// Cursors holds the handful of named cursor shapes the Display Session
// creates up front (spec §4.1) so Input & Interaction can reshape the
// pointer without round-tripping a font lookup on every MotionNotify.
type Cursors struct {
	Normal    xproto.Cursor
	Horiz     xproto.Cursor
	Vert      xproto.Cursor
	NWSE      xproto.Cursor
	NESW      xproto.Cursor
	allocated bool
}

// CreateCursors derives the five shapes the resize/move interaction needs
// from the standard "cursor" font via xgbutil/xcursor.CreateCursor, which
// opens the font, builds the glyph cursor, and closes the font again per
// call.
func (c *Conn) CreateCursors() error {
	c.Cursors.Normal = xcursor.CreateCursor(c.XUtil, glyphLeftPtr)
	c.Cursors.Horiz = xcursor.CreateCursor(c.XUtil, glyphSBHDoubleArrow)
	c.Cursors.Vert = xcursor.CreateCursor(c.XUtil, glyphSBVDoubleArrow)
	c.Cursors.NWSE = xcursor.CreateCursor(c.XUtil, glyphTopLeftCorner)
	c.Cursors.NESW = xcursor.CreateCursor(c.XUtil, glyphTopRightCorner)
	c.Cursors.allocated = true
	return nil
}

func (cs *Cursors) free(conn *xgb.Conn) {
	if !cs.allocated {
		return
	}
	for _, cur := range []xproto.Cursor{cs.Normal, cs.Horiz, cs.Vert, cs.NWSE, cs.NESW} {
		if cur != 0 {
			xproto.FreeCursor(conn, cur)
		}
	}
	cs.allocated = false
}
