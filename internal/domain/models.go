package domain

import (
	"errors"
	"fmt"
	"slices"
)

// PlayerStatus represents the playback engine state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// Valid reports whether s is one of the three known playback states
func (s PlayerStatus) Valid() bool {
	switch s {
	case StatusPlaying, StatusPaused, StatusStopped:
		return true
	}
	return false
}

// LoopStatus represents the queue repeat mode
type LoopStatus string

const (
	LoopNone     LoopStatus = "None"
	LoopTrack    LoopStatus = "Track"
	LoopPlaylist LoopStatus = "Playlist"
)

// Valid reports whether l is a known repeat mode
func (l LoopStatus) Valid() bool {
	switch l {
	case LoopNone, LoopTrack, LoopPlaylist:
		return true
	}
	return false
}

// Geometry is a window position and size: x, y, width, height
type Geometry [4]int

// WindowSnapshot holds the desktop placement of the player window
type WindowSnapshot struct {
	// Desktop is the virtual desktop index
	Desktop int `json:"desktop"`
	// States are window-manager flags such as "maximized_vert" or "fullscreen"
	States []string `json:"states"`
	// Geometry holds the outer frame corner in root window coordinates
	// followed by the client area size
	Geometry Geometry `json:"xyhw"`
}

// WindowInfo describes one window owned by a process, as reported by a WindowLocator
type WindowInfo struct {
	Handle   uint32
	Desktop  int
	States   []string
	Geometry Geometry
}

// Snapshot copies the placement data out of the window description
func (w WindowInfo) Snapshot() *WindowSnapshot {
	return &WindowSnapshot{
		Desktop:  w.Desktop,
		States:   slices.Clone(w.States),
		Geometry: w.Geometry,
	}
}

// Record is a complete captured snapshot of player and window state.
// The zero Record means no player was running at capture time.
type Record struct {
	TracksURI  []string        `json:"tracks_uri"`
	CurrentURI string          `json:"current_uri"`
	Position   int64           `json:"position"`
	PlayStatus PlayerStatus    `json:"play_status"`
	Volume     float64         `json:"volume"`
	LoopStatus LoopStatus      `json:"loop_status"`
	Shuffle    bool            `json:"shuffle_status"`
	Window     *WindowSnapshot `json:"window,omitempty"`
}

// IsEmpty reports whether the record is the degenerate "nothing was running" record
func (r Record) IsEmpty() bool {
	return r.TracksURI == nil &&
		r.CurrentURI == "" &&
		r.Position == 0 &&
		r.PlayStatus == "" &&
		r.Volume == 0 &&
		r.LoopStatus == "" &&
		!r.Shuffle &&
		r.Window == nil
}

// ErrIncompleteRecord is returned by Validate for records that are neither empty nor fully populated
var ErrIncompleteRecord = errors.New("incomplete state record")

// Validate checks the record invariants. The empty record is valid.
func (r Record) Validate() error {
	if r.IsEmpty() {
		return nil
	}
	if !r.PlayStatus.Valid() {
		return fmt.Errorf("%w: invalid play_status %q", ErrIncompleteRecord, r.PlayStatus)
	}
	if !r.LoopStatus.Valid() {
		return fmt.Errorf("%w: invalid loop_status %q", ErrIncompleteRecord, r.LoopStatus)
	}
	if r.Window == nil {
		return fmt.Errorf("%w: missing window", ErrIncompleteRecord)
	}
	if r.CurrentURI != "" && !slices.Contains(r.TracksURI, r.CurrentURI) {
		return fmt.Errorf("%w: current_uri %q not in tracks_uri", ErrIncompleteRecord, r.CurrentURI)
	}
	return nil
}
