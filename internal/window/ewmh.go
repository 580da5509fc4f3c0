package window

import (
	"slices"
	"strings"

	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/jezek/xgb"
)

const (
	statePrefix = "_NET_WM_STATE_"

	// allDesktops is the _NET_WM_DESKTOP value of a sticky window
	allDesktops = 0xFFFFFFFF

	stateRemove = 0
	stateAdd    = 1

	// sourcePager marks requests as coming from a pager-like tool, which
	// window managers honour even for windows that are not focused
	sourcePager = 2

	// gravityNorthWest makes x, y in a move request address the outer
	// frame corner, whatever gravity the client asked for
	gravityNorthWest = 1
	// moveResizeAll sets the x, y, width and height presence bits
	moveResizeAll = 0xF << 8
)

// toggledStates are cleared when absent from a saved record so the window
// ends up with exactly the saved flags. Flags the window manager owns
// (hidden, focused, demands_attention) are never forced.
var toggledStates = []string{
	"above",
	"below",
	"fullscreen",
	"maximized_horz",
	"maximized_vert",
	"shaded",
	"skip_pager",
	"skip_taskbar",
	"sticky",
}

// stateAliases expands shorthand names into the EWMH flags they stand for
var stateAliases = map[string][]string{
	"maximized": {"maximized_vert", "maximized_horz"},
}

// knownStates is every _NET_WM_STATE flag defined by EWMH
var knownStates = append([]string{
	"demands_attention",
	"focused",
	"hidden",
	"modal",
}, toggledStates...)

// normalizeStates lowercases and expands the requested flags and splits
// off names the window manager would not recognise
func normalizeStates(states []string) (known, unknown []string) {
	for _, s := range states {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		expanded, ok := stateAliases[s]
		if !ok {
			expanded = []string{s}
		}
		for _, e := range expanded {
			switch {
			case !slices.Contains(knownStates, e):
				unknown = append(unknown, e)
			case !slices.Contains(known, e):
				known = append(known, e)
			}
		}
	}
	return known, unknown
}

// stateName turns "_NET_WM_STATE_MAXIMIZED_VERT" into "maximized_vert"
func stateName(atomName string) (string, bool) {
	if !strings.HasPrefix(atomName, statePrefix) {
		return "", false
	}
	return strings.ToLower(strings.TrimPrefix(atomName, statePrefix)), true
}

// stateAtomName is the inverse of stateName
func stateAtomName(state string) string {
	return statePrefix + strings.ToUpper(state)
}

// stateChanges splits the requested flags into removals and additions.
// Removals come first so that geometry can be applied to an unmaximized window.
func stateChanges(states []string) (remove, add []string) {
	for _, s := range toggledStates {
		if !slices.Contains(states, s) {
			remove = append(remove, s)
		}
	}
	for _, s := range states {
		if s != "" && !slices.Contains(add, s) {
			add = append(add, s)
		}
	}
	return remove, add
}

// desktopIndex maps the raw property to a desktop index, -1 meaning all desktops
func desktopIndex(raw uint32) int {
	if raw == allDesktops {
		return -1
	}
	return int(raw)
}

func desktopValue(desktop int) uint32 {
	if desktop < 0 {
		return allDesktops
	}
	return uint32(desktop)
}

// values32 decodes a format-32 property payload
func values32(buf []byte) []uint32 {
	out := make([]uint32, 0, len(buf)/4)
	for i := 0; i+4 <= len(buf); i += 4 {
		out = append(out, xgb.Get32(buf[i:]))
	}
	return out
}

// frameOrigin returns the outer top-left corner of a decorated window from
// its client origin and _NET_FRAME_EXTENTS (left, right, top, bottom).
// Undecorated windows and window managers without the hint keep the client origin.
func frameOrigin(x, y int, extents []uint32) (int, int) {
	if len(extents) < 4 {
		return x, y
	}
	return x - int(int32(extents[0])), y - int(int32(extents[2]))
}

// moveResizeData builds the _NET_MOVERESIZE_WINDOW payload placing the
// frame corner at g's origin with a client area of g's size
func moveResizeData(g domain.Geometry) []uint32 {
	v := configureValues(g)
	return []uint32{gravityNorthWest | moveResizeAll | sourcePager<<12, v[0], v[1], v[2], v[3]}
}

// configureValues builds the value list for an x, y, width, height ConfigureWindow request
func configureValues(g domain.Geometry) []uint32 {
	return []uint32{
		uint32(int32(g[0])),
		uint32(int32(g[1])),
		uint32(max(g[2], 1)),
		uint32(max(g[3], 1)),
	}
}
