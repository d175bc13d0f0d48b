package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// ShellEventKind discriminates the edge-triggered notifications the Shell
// Interface fires (spec §4.9); the shell must re-read state on receipt
// rather than trust the event payload.
type ShellEventKind int

const (
	EventWindowsChanged ShellEventKind = iota
	EventMonitorsChanged
)

// ShellEvent is the (kind only) notification payload. Payload-free by
// design: spec §5 says state becomes visible "at drain end", so an observer
// that wants detail must call back into ListWindows/ListMonitors.
type ShellEvent struct {
	Kind ShellEventKind
}

// WindowRecord is the read-only shell projection of a Client (spec §4.9):
// {id, title, app-id, active, workspace, state}. There is no icon-name
// field; this implementation surfaces icons as pixel data rather than
// named icon lookups, so no external icon theme naming applies.
type WindowRecord struct {
	ID        xproto.Window
	Title     string
	AppID     string
	Active    bool
	Workspace int
	State     string
}

// MonitorRecord is the immutable monitor list entry the shell reads.
type MonitorRecord struct {
	Name    string
	X, Y    int
	W, H    int
	Primary bool
}

// OnChange registers an observer for shell notifications. There is no
// unregister; observers live for the process lifetime, matching the
// single long-lived external UI layer the spec assumes.
func (wm *WM) OnChange(fn func(ShellEvent)) {
	wm.observers = append(wm.observers, fn)
}

func (wm *WM) emit(ev ShellEvent) {
	for _, fn := range wm.observers {
		fn(ev)
	}
}

// ListWindows returns every managed, non-self, non-dock client filtered per
// spec §4.9 ("windows whose class equals the shell identifier are filtered
// out").
func (wm *WM) ListWindows() []WindowRecord {
	var out []WindowRecord
	for _, c := range wm.clients.All() {
		if c.AppID == wm.cfg.ShellAppID {
			continue
		}
		if c.Frame != nil && c.Frame.isDock() {
			continue
		}
		out = append(out, WindowRecord{
			ID:        c.Window,
			Title:     c.Title,
			AppID:     c.AppID,
			Active:    c.Window == wm.activeWindow,
			Workspace: c.Workspace,
			State:     c.State.String(),
		})
	}
	return out
}

// ListMonitors returns the immutable monitor snapshot (spec §4.9).
func (wm *WM) ListMonitors() []MonitorRecord {
	var out []MonitorRecord
	for _, m := range wm.monitors.Snapshot() {
		out = append(out, MonitorRecord{
			Name: m.Name, X: m.Rect.X, Y: m.Rect.Y, W: m.Rect.W, H: m.Rect.H,
			Primary: m.Primary,
		})
	}
	return out
}

// Activate implements the shell's `activate(win_id)` command (spec §6/§4.6):
// raises, restores from minimized, and focuses.
func (wm *WM) Activate(win xproto.Window) error {
	c, ok := wm.clients.Get(win)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUntrackedWindow, win)
	}
	if err := wm.activateClient(c); err != nil {
		return err
	}
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
	return nil
}

// Close implements `close(win_id)`: politely via WM_DELETE_WINDOW when
// supported, otherwise the spec leaves force-kill out of scope (§1
// Non-goals list "no policy daemon"; this core does not call
// xproto.KillClient on refusal).
func (wm *WM) Close(win xproto.Window) error {
	if _, ok := wm.clients.Get(win); !ok {
		return fmt.Errorf("%w: %d", ErrUntrackedWindow, win)
	}
	return wm.closeClient(win)
}

// Minimize implements `minimize(win_id)`.
func (wm *WM) Minimize(win xproto.Window) error {
	c, ok := wm.clients.Get(win)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUntrackedWindow, win)
	}
	if err := wm.minimizeClient(c); err != nil {
		return err
	}
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
	return nil
}

// ToggleTiling implements `toggle-tiling()` for the active workspace.
func (wm *WM) ToggleTiling() error {
	wm.tilingOn[wm.workspace] = !wm.tilingOn[wm.workspace]
	if wm.tilingOn[wm.workspace] {
		wm.enterTilingForWorkspace(wm.workspace)
	} else {
		wm.exitTilingForWorkspace(wm.workspace)
	}
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
	return nil
}

// SetManualStrut implements `set-manual-strut(top, bottom, left, right)`,
// the shell's own panel reservation (spec §4.9).
func (wm *WM) SetManualStrut(top, bottom, left, right int) error {
	wm.struts.SetManual(top, bottom, left, right)
	wm.retileWorkspace(wm.workspace)
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
	return nil
}

// SetWorkspace implements `set-workspace(index)`.
func (wm *WM) SetWorkspace(index int) error {
	if index < 0 {
		return ErrNoWorkspace
	}
	wm.workspace = index
	wm.emit(ShellEvent{Kind: EventWindowsChanged})
	return nil
}
