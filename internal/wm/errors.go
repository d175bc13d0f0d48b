package wm

import "errors"

// Fatal startup errors (spec §7): the process exits non-zero on these.
var (
	// ErrAnotherWMRunning is returned when claiming substructure redirection
	// on the root window fails with an X AccessError, meaning another WM
	// already holds it.
	ErrAnotherWMRunning = errors.New("driftwm: another window manager is already running")
)

// Operational errors (spec §7): logged at warn, the triggering command
// returns a negative ack, the system continues.
var (
	// ErrUntrackedWindow is returned when a shell command names a window ID
	// the Client Table has no record of.
	ErrUntrackedWindow = errors.New("driftwm: window is not managed")
	// ErrNoFrame is returned for operations that require a Frame (resize,
	// fullscreen, titlebar repaint) on a Client that has none (a dock or a
	// shell self-window).
	ErrNoFrame = errors.New("driftwm: client has no frame")
	// ErrNoWorkspace is returned by commands naming an out-of-range
	// workspace ordinal.
	ErrNoWorkspace = errors.New("driftwm: no such workspace")
)
