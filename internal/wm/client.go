package wm

import (
	"github.com/BurntSushi/xgb/xproto"
)

// ClientState is the lifecycle state machine of spec §4.9:
// Normal -> Minimized on minimize, Minimized -> Normal|Maximized on
// activate, Normal <-> Maximized on the maximize button. Destroyed is
// terminal and removes the record rather than transitioning into it.
type ClientState int

const (
	StateNormal ClientState = iota
	StateMinimized
	StateMaximized
)

func (s ClientState) String() string {
	switch s {
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	default:
		return "normal"
	}
}

// Client is one managed top-level window (spec §3). A Client without a
// Frame exists only for windows the shell deliberately refuses to decorate:
// its own windows (by app-id). Docks carry an undecorated FrameDock frame.
type Client struct {
	Window    xproto.Window
	Title     string
	AppID     string
	Mapped    bool
	Workspace int
	State     ClientState
	Frame     *Frame // non-owning reference; nil for the shell's own windows

	// PreMinimizeState remembers whether a Normal or Maximized client was
	// minimized, so activate() can restore the correct one (spec §4.6's
	// "restore state to Normal (or Maximized if fullscreen flag was set)").
	PreMinimizeState ClientState
}

// ClientTable exclusively owns Client records (spec §3's ownership
// summary); the Frame Registry owns Frames separately and the two hold only
// weak (lookup-by-ID) references to each other.
type ClientTable struct {
	byWindow map[xproto.Window]*Client
}

func newClientTable() *ClientTable {
	return &ClientTable{byWindow: make(map[xproto.Window]*Client)}
}

func (t *ClientTable) Add(c *Client) {
	t.byWindow[c.Window] = c
}

func (t *ClientTable) Remove(win xproto.Window) {
	delete(t.byWindow, win)
}

func (t *ClientTable) Get(win xproto.Window) (*Client, bool) {
	c, ok := t.byWindow[win]
	return c, ok
}

// All returns every tracked client in no particular order. Callers that
// need stable ordering (the tiler) sort themselves.
func (t *ClientTable) All() []*Client {
	out := make([]*Client, 0, len(t.byWindow))
	for _, c := range t.byWindow {
		out = append(out, c)
	}
	return out
}
