package domain

import "context"

// WindowLocator maps a process to its top-level windows and can
// re-apply placement data to one of them.
// Implementations talk to the windowing system (EWMH on X11).
//
//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/playersnap/internal/domain WindowLocator,Executor,StateCapturer,StateRestorer
type WindowLocator interface {
	// FindWindowsByPID returns the windows owned by pid, in the order the
	// window manager reports them. An empty slice is not an error.
	FindWindowsByPID(ctx context.Context, pid uint32) ([]WindowInfo, error)

	// ApplyWindowState moves the window to desktop, sets its state flags
	// and applies geometry.
	ApplyWindowState(ctx context.Context, handle uint32, desktop int, states []string, geometry Geometry) error
}

// Executor defines the interface for starting and killing the player process
type Executor interface {
	// Spawn starts the player detached from the caller; it does not wait
	// for the player to register on the bus.
	Spawn(ctx context.Context) error

	// KillByName force-terminates every process with the given name and
	// returns how many were signalled
	KillByName(ctx context.Context, name string) (int, error)
}

// StateCapturer snapshots the live player
type StateCapturer interface {
	Capture(ctx context.Context) (Record, error)
}

// StateRestorer replays a record into the player
type StateRestorer interface {
	Restore(ctx context.Context, rec Record) error
}
