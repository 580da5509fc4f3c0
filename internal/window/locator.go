package window

import (
	"context"
	"fmt"
	"image"
	"slices"
	"sync"

	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"go.uber.org/zap"
)

// X11Locator finds and places top-level windows through the EWMH hints of
// the running window manager
type X11Locator struct {
	logger *zap.Logger
	// displays returns the monitor rectangles used to keep restored
	// windows on screen. nil disables clamping.
	displays func() []image.Rectangle

	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// NewX11Locator creates a locator. The X connection is opened on first use.
func NewX11Locator(logger *zap.Logger, clamp bool) *X11Locator {
	l := &X11Locator{
		logger: logger,
		atoms:  make(map[string]xproto.Atom),
	}
	if clamp {
		l.displays = ActiveDisplays
	}
	return l
}

// Close releases the X connection if one was opened
func (l *X11Locator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
	}
	return nil
}

// connect must be called with mu held
func (l *X11Locator) connect() error {
	if l.conn != nil {
		return nil
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("failed to connect to X server: %w", err)
	}
	l.conn = conn
	l.root = xproto.Setup(conn).DefaultScreen(conn).Root
	clear(l.atoms)
	return nil
}

func (l *X11Locator) atom(name string) (xproto.Atom, error) {
	if a, ok := l.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(l.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	l.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// property32 reads a format-32 property; a missing property yields nil
func (l *X11Locator) property32(win xproto.Window, name string) ([]uint32, error) {
	a, err := l.atom(name)
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(l.conn, false, win, a, xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s of 0x%x: %w", name, win, err)
	}
	if reply.Format != 32 {
		return nil, nil
	}
	return values32(reply.Value), nil
}

// FindWindowsByPID walks _NET_CLIENT_LIST and returns the windows whose
// _NET_WM_PID is pid, in stacking-list order
func (l *X11Locator) FindWindowsByPID(ctx context.Context, pid uint32) ([]domain.WindowInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.connect(); err != nil {
		return nil, err
	}

	clients, err := l.property32(l.root, "_NET_CLIENT_LIST")
	if err != nil {
		return nil, err
	}

	var windows []domain.WindowInfo
	for _, c := range clients {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		win := xproto.Window(c)
		owner, err := l.property32(win, "_NET_WM_PID")
		if err != nil {
			// the client may have gone away since the list was read
			l.logger.Debug("Skipping window", zap.Uint32("window", c), zap.Error(err))
			continue
		}
		if len(owner) == 0 || owner[0] != pid {
			continue
		}
		info, err := l.describe(win)
		if err != nil {
			return nil, err
		}
		windows = append(windows, info)
	}

	l.logger.Debug("Windows located",
		zap.Uint32("pid", pid),
		zap.Int("count", len(windows)))
	return windows, nil
}

func (l *X11Locator) describe(win xproto.Window) (domain.WindowInfo, error) {
	info := domain.WindowInfo{Handle: uint32(win)}

	desktop, err := l.property32(win, "_NET_WM_DESKTOP")
	if err != nil {
		return info, err
	}
	if len(desktop) > 0 {
		info.Desktop = desktopIndex(desktop[0])
	}

	stateAtoms, err := l.property32(win, "_NET_WM_STATE")
	if err != nil {
		return info, err
	}
	info.States = make([]string, 0, len(stateAtoms))
	for _, a := range stateAtoms {
		reply, err := xproto.GetAtomName(l.conn, xproto.Atom(a)).Reply()
		if err != nil {
			return info, fmt.Errorf("failed to resolve state atom %d: %w", a, err)
		}
		if name, ok := stateName(reply.Name); ok {
			info.States = append(info.States, name)
		}
	}

	geom, err := xproto.GetGeometry(l.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return info, fmt.Errorf("failed to read geometry of 0x%x: %w", win, err)
	}
	// geometry is relative to the frame parent, translate to root coordinates
	origin, err := xproto.TranslateCoordinates(l.conn, win, l.root, 0, 0).Reply()
	if err != nil {
		return info, fmt.Errorf("failed to translate coordinates of 0x%x: %w", win, err)
	}
	extents, err := l.property32(win, "_NET_FRAME_EXTENTS")
	if err != nil {
		return info, err
	}
	x, y := frameOrigin(int(origin.DstX), int(origin.DstY), extents)
	info.Geometry = domain.Geometry{x, y, int(geom.Width), int(geom.Height)}

	return info, nil
}

// ApplyWindowState moves the window to desktop, sets exactly the given
// state flags and applies geometry
func (l *X11Locator) ApplyWindowState(ctx context.Context, handle uint32, desktop int, states []string, geometry domain.Geometry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.connect(); err != nil {
		return err
	}
	win := xproto.Window(handle)

	if err := l.clientMessage(win, "_NET_WM_DESKTOP", desktopValue(desktop), sourcePager); err != nil {
		return err
	}

	known, unknown := normalizeStates(states)
	if len(unknown) > 0 {
		l.logger.Warn("Ignoring unknown window states", zap.Strings("states", unknown))
	}
	remove, add := stateChanges(known)
	for _, s := range remove {
		if err := l.setState(win, stateRemove, s); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	target := geometry
	if l.displays != nil {
		target = clampGeometry(geometry, l.displays())
		if target != geometry {
			l.logger.Info("Window geometry clamped to visible displays",
				zap.Ints("saved", geometry[:]),
				zap.Ints("applied", target[:]))
		}
	}
	if err := l.moveResize(win, target); err != nil {
		return err
	}

	for _, s := range add {
		if err := l.setState(win, stateAdd, s); err != nil {
			return err
		}
	}

	l.logger.Debug("Window state applied",
		zap.Uint32("window", handle),
		zap.Int("desktop", desktop),
		zap.Strings("states", known))
	return nil
}

// moveResize places the frame corner at g's origin. Window managers that
// advertise _NET_MOVERESIZE_WINDOW get an explicit NorthWest gravity; the
// others receive a plain ConfigureWindow, which they redirect with the
// client's default gravity.
func (l *X11Locator) moveResize(win xproto.Window, g domain.Geometry) error {
	supported, err := l.supports("_NET_MOVERESIZE_WINDOW")
	if err != nil {
		return err
	}
	if supported {
		return l.clientMessage(win, "_NET_MOVERESIZE_WINDOW", moveResizeData(g)...)
	}

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	if err := xproto.ConfigureWindowChecked(l.conn, win, mask, configureValues(g)).Check(); err != nil {
		return fmt.Errorf("failed to configure window 0x%x: %w", win, err)
	}
	return nil
}

// supports reports whether the window manager lists hint in _NET_SUPPORTED
func (l *X11Locator) supports(hint string) (bool, error) {
	a, err := l.atom(hint)
	if err != nil {
		return false, err
	}
	atoms, err := l.property32(l.root, "_NET_SUPPORTED")
	if err != nil {
		return false, err
	}
	return slices.Contains(atoms, uint32(a)), nil
}

func (l *X11Locator) setState(win xproto.Window, action uint32, state string) error {
	a, err := l.atom(stateAtomName(state))
	if err != nil {
		return err
	}
	return l.clientMessage(win, "_NET_WM_STATE", action, uint32(a), 0, sourcePager)
}

// clientMessage sends an EWMH request for win to the root window
func (l *X11Locator) clientMessage(win xproto.Window, msgType string, data ...uint32) error {
	a, err := l.atom(msgType)
	if err != nil {
		return err
	}
	payload := make([]uint32, 5)
	copy(payload, data)

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   a,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}
	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)
	if err := xproto.SendEventChecked(l.conn, false, l.root, mask, string(ev.Bytes())).Check(); err != nil {
		return fmt.Errorf("failed to send %s to 0x%x: %w", msgType, win, err)
	}
	return nil
}
