package snapshot

import (
	"context"
	"fmt"
	"slices"

	"github.com/genricoloni/playersnap/internal/bus"
	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/genricoloni/playersnap/internal/mpris"
	"go.uber.org/zap"
)

// Target identifies the player instance to snapshot
type Target struct {
	// Service is the player's well-known bus name
	Service string
}

// Extractor builds a State Record from the live player and its window
type Extractor struct {
	logger  *zap.Logger
	client  bus.Client
	locator domain.WindowLocator
	target  Target
}

// NewExtractor creates a new state extractor
func NewExtractor(logger *zap.Logger, client bus.Client, locator domain.WindowLocator, target Target) *Extractor {
	return &Extractor{
		logger:  logger,
		client:  client,
		locator: locator,
		target:  target,
	}
}

// Capture snapshots the player.
// A player that is not running yields the empty record and no error.
// Any failure after the player was found yields an error and the empty record.
func (e *Extractor) Capture(ctx context.Context) (domain.Record, error) {
	running, err := isRegistered(ctx, e.client, e.target.Service)
	if err != nil {
		return domain.Record{}, err
	}
	if !running {
		e.logger.Info("Player not running, capturing empty record",
			zap.String("service", e.target.Service))
		return domain.Record{}, nil
	}

	window, err := firstWindow(ctx, e.logger, e.client, e.locator, e.target.Service)
	if err != nil {
		return domain.Record{}, err
	}

	rec, err := e.readPlayer(ctx, mpris.NewPlayer(e.client, e.target.Service))
	if err != nil {
		return domain.Record{}, err
	}
	rec.Window = window.Snapshot()

	if err := rec.Validate(); err != nil {
		return domain.Record{}, fmt.Errorf("captured record is inconsistent: %w", err)
	}

	e.logger.Info("Player state captured",
		zap.Int("tracks", len(rec.TracksURI)),
		zap.String("current", rec.CurrentURI),
		zap.String("status", string(rec.PlayStatus)),
		zap.Int64("position", rec.Position),
		zap.Int("desktop", rec.Window.Desktop))

	return rec, nil
}

func (e *Extractor) readPlayer(ctx context.Context, p *mpris.Player) (domain.Record, error) {
	var (
		rec domain.Record
		err error
	)

	if rec.TracksURI, err = p.TrackURIs(ctx); err != nil {
		return domain.Record{}, err
	}
	if rec.CurrentURI, err = p.CurrentURI(ctx); err != nil {
		return domain.Record{}, err
	}
	if rec.Position, err = p.Position(ctx); err != nil {
		return domain.Record{}, err
	}
	if rec.PlayStatus, err = p.PlaybackStatus(ctx); err != nil {
		return domain.Record{}, err
	}
	if rec.Volume, err = p.Volume(ctx); err != nil {
		return domain.Record{}, err
	}
	if rec.LoopStatus, err = p.LoopStatus(ctx); err != nil {
		return domain.Record{}, err
	}
	if rec.Shuffle, err = p.Shuffle(ctx); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// isRegistered reports whether service currently owns a name on the bus
func isRegistered(ctx context.Context, client bus.Client, service string) (bool, error) {
	names, err := client.ListNames(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list bus names: %w", err)
	}
	return slices.Contains(names, service), nil
}

// firstWindow resolves service to its process and returns the first window it owns.
// When the process owns several windows the first one reported wins.
func firstWindow(ctx context.Context, logger *zap.Logger, client bus.Client, locator domain.WindowLocator, service string) (domain.WindowInfo, error) {
	pid, err := client.ConnectionPID(ctx, service)
	if err != nil {
		return domain.WindowInfo{}, fmt.Errorf("failed to resolve %s to a process: %w", service, err)
	}

	windows, err := locator.FindWindowsByPID(ctx, pid)
	if err != nil {
		return domain.WindowInfo{}, fmt.Errorf("failed to list windows of pid %d: %w", pid, err)
	}
	if len(windows) == 0 {
		return domain.WindowInfo{}, fmt.Errorf("%w (pid %d)", ErrWindowNotFound, pid)
	}
	if len(windows) > 1 {
		logger.Warn("Player owns several windows, using the first one",
			zap.Uint32("pid", pid),
			zap.Int("windows", len(windows)))
	}
	return windows[0], nil
}
