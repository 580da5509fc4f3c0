package window

import (
	"image"

	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/kbinani/screenshot"
)

// ActiveDisplays returns the bounds of every active monitor, primary first
func ActiveDisplays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil
	}
	displays := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		displays = append(displays, screenshot.GetDisplayBounds(i))
	}
	return displays
}

// clampGeometry keeps a saved window reachable when the monitor layout has
// changed since capture. A window whose top-left corner is on some display
// is left alone. Otherwise it is moved to the primary display and shrunk to
// fit. With no display information the geometry is returned unchanged.
func clampGeometry(g domain.Geometry, displays []image.Rectangle) domain.Geometry {
	if len(displays) == 0 {
		return g
	}
	corner := image.Pt(g[0], g[1])
	for _, d := range displays {
		if corner.In(d) {
			return g
		}
	}

	primary := displays[0]
	return domain.Geometry{
		primary.Min.X,
		primary.Min.Y,
		min(g[2], primary.Dx()),
		min(g[3], primary.Dy()),
	}
}
