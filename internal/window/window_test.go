package window

import (
	"image"
	"testing"

	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStateName(t *testing.T) {
	tests := []struct {
		atom     string
		expected string
		ok       bool
	}{
		{"_NET_WM_STATE_MAXIMIZED_VERT", "maximized_vert", true},
		{"_NET_WM_STATE_FULLSCREEN", "fullscreen", true},
		{"_NET_WM_STATE_SKIP_TASKBAR", "skip_taskbar", true},
		{"_NET_WM_DESKTOP", "", false},
		{"WM_STATE", "", false},
	}

	for _, tt := range tests {
		name, ok := stateName(tt.atom)
		assert.Equal(t, tt.ok, ok, tt.atom)
		assert.Equal(t, tt.expected, name, tt.atom)
		if ok {
			assert.Equal(t, tt.atom, stateAtomName(name))
		}
	}
}

func TestStateChanges(t *testing.T) {
	remove, add := stateChanges([]string{"maximized_vert", "maximized_horz", "maximized_vert", "demands_attention"})

	assert.Equal(t, []string{"maximized_vert", "maximized_horz", "demands_attention"}, add)
	assert.NotContains(t, remove, "maximized_vert")
	assert.NotContains(t, remove, "maximized_horz")
	assert.Contains(t, remove, "fullscreen")
	assert.Contains(t, remove, "sticky")
	assert.NotContains(t, remove, "demands_attention")

	remove, add = stateChanges(nil)
	assert.Empty(t, add)
	assert.Equal(t, toggledStates, remove)
}

func TestNormalizeStates(t *testing.T) {
	tests := []struct {
		name    string
		states  []string
		known   []string
		unknown []string
	}{
		{
			name:   "Maximized Shorthand",
			states: []string{"maximized"},
			known:  []string{"maximized_vert", "maximized_horz"},
		},
		{
			name:   "Shorthand Overlapping Explicit Flag",
			states: []string{"maximized_vert", "MAXIMIZED", " sticky "},
			known:  []string{"maximized_vert", "maximized_horz", "sticky"},
		},
		{
			name:    "Unknown Names Split Off",
			states:  []string{"fullscreen", "minimised", ""},
			known:   []string{"fullscreen"},
			unknown: []string{"minimised"},
		},
		{
			name: "Nothing Requested",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			known, unknown := normalizeStates(tt.states)
			assert.Equal(t, tt.known, known)
			assert.Equal(t, tt.unknown, unknown)
		})
	}
}

func TestFrameOrigin(t *testing.T) {
	tests := []struct {
		name    string
		extents []uint32
		x, y    int
	}{
		// client at (104, 130) inside a frame with 4px borders and a 26px titlebar
		{"Decorated", []uint32{4, 4, 26, 4}, 100, 104},
		{"Undecorated", []uint32{0, 0, 0, 0}, 104, 130},
		{"No Hint", nil, 104, 130},
		{"Truncated Hint", []uint32{4, 4}, 104, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := frameOrigin(104, 130, tt.extents)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestFrameOrigin_StableAcrossCycles(t *testing.T) {
	extents := []uint32{4, 4, 26, 4}
	saved := domain.Geometry{100, 104, 640, 480}

	// restoring puts the frame corner at the saved origin, so the client
	// sits inside it by the extents and a second capture reads the same origin
	for i := 0; i < 3; i++ {
		clientX := saved[0] + int(extents[0])
		clientY := saved[1] + int(extents[2])
		x, y := frameOrigin(clientX, clientY, extents)
		assert.Equal(t, domain.Geometry{100, 104, 640, 480}, domain.Geometry{x, y, saved[2], saved[3]})
		saved = domain.Geometry{x, y, saved[2], saved[3]}
	}
}

func TestMoveResizeData(t *testing.T) {
	data := moveResizeData(domain.Geometry{-20, 40, 800, 0})

	assert.Len(t, data, 5)
	assert.Equal(t, uint32(gravityNorthWest), data[0]&0xFF, "gravity")
	assert.Equal(t, uint32(0xF), (data[0]>>8)&0xF, "x, y, width and height flags")
	assert.Equal(t, uint32(sourcePager), data[0]>>12, "source indication")
	assert.Equal(t, int32(-20), int32(data[1]))
	assert.Equal(t, uint32(40), data[2])
	assert.Equal(t, uint32(800), data[3])
	assert.Equal(t, uint32(1), data[4])
}

func TestDesktopMapping(t *testing.T) {
	assert.Equal(t, 3, desktopIndex(3))
	assert.Equal(t, -1, desktopIndex(allDesktops))
	assert.Equal(t, uint32(3), desktopValue(3))
	assert.Equal(t, uint32(allDesktops), desktopValue(-1))
}

func TestValues32(t *testing.T) {
	buf := []byte{
		0x04, 0x00, 0xa0, 0x03, // 0x03a00004 little endian
		0x01, 0x00, 0x00, 0x00,
		0xff, // trailing partial word is ignored
	}
	assert.Equal(t, []uint32{0x03a00004, 1}, values32(buf))
	assert.Empty(t, values32(nil))
}

func TestConfigureValues(t *testing.T) {
	assert.Equal(t, []uint32{10, 20, 800, 600}, configureValues(domain.Geometry{10, 20, 800, 600}))

	// negative offsets are sent as two's complement, sizes never drop below one pixel
	v := configureValues(domain.Geometry{-5, 0, 0, -1})
	assert.Equal(t, int32(-5), int32(v[0]))
	assert.Equal(t, uint32(1), v[2])
	assert.Equal(t, uint32(1), v[3])
}

func TestClampGeometry(t *testing.T) {
	laptop := image.Rect(0, 0, 1920, 1080)
	external := image.Rect(1920, 0, 4480, 1440)

	tests := []struct {
		name     string
		geometry domain.Geometry
		displays []image.Rectangle
		expected domain.Geometry
	}{
		{
			name:     "On Primary",
			geometry: domain.Geometry{100, 100, 800, 600},
			displays: []image.Rectangle{laptop},
			expected: domain.Geometry{100, 100, 800, 600},
		},
		{
			name:     "On Secondary",
			geometry: domain.Geometry{2000, 50, 1280, 720},
			displays: []image.Rectangle{laptop, external},
			expected: domain.Geometry{2000, 50, 1280, 720},
		},
		{
			name:     "Secondary Unplugged",
			geometry: domain.Geometry{2000, 50, 2560, 1440},
			displays: []image.Rectangle{laptop},
			expected: domain.Geometry{0, 0, 1920, 1080},
		},
		{
			name:     "No Display Information",
			geometry: domain.Geometry{5000, 5000, 10, 10},
			displays: nil,
			expected: domain.Geometry{5000, 5000, 10, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clampGeometry(tt.geometry, tt.displays))
		})
	}
}
