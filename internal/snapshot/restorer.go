package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/genricoloni/playersnap/internal/bus"
	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/genricoloni/playersnap/internal/mpris"
	"go.uber.org/zap"
)

// Timing holds the waits used while the player settles
type Timing struct {
	// Slot is the unit wait
	Slot time.Duration
	// SpawnSlots is how many slots to wait after spawning the player
	SpawnSlots int
	// KickSlots is how many slots to wait after the initial Play
	KickSlots int
	// RegisterTimeout bounds how long to keep polling for the spawned
	// player to appear on the bus once the spawn slots are over
	RegisterTimeout time.Duration
}

// DefaultTiming matches the delays the player needs on a typical desktop
func DefaultTiming() Timing {
	return Timing{
		Slot:            400 * time.Millisecond,
		SpawnSlots:      2,
		KickSlots:       1,
		RegisterTimeout: 5 * time.Second,
	}
}

// Restorer replays a State Record into the player through ordered control calls
type Restorer struct {
	logger   *zap.Logger
	client   bus.Client
	locator  domain.WindowLocator
	executor domain.Executor
	target   Target
	timing   Timing

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRestorer creates a new state restorer
func NewRestorer(
	logger *zap.Logger,
	client bus.Client,
	locator domain.WindowLocator,
	exec domain.Executor,
	target Target,
	timing Timing,
) *Restorer {
	return &Restorer{
		logger:   logger,
		client:   client,
		locator:  locator,
		executor: exec,
		target:   target,
		timing:   timing,
		sleep:    sleepContext,
	}
}

// Restore brings the player back to rec.
// The sequence stops at the first failing call and reports the step as a *RestoreError.
// Nothing is rolled back.
func (r *Restorer) Restore(ctx context.Context, rec domain.Record) error {
	if rec.IsEmpty() {
		r.logger.Info("Empty record, nothing to restore")
		return nil
	}
	if err := rec.Validate(); err != nil {
		return stepError(StepValidate, err)
	}

	player := mpris.NewPlayer(r.client, r.target.Service)

	// 1. Player must be on the bus before anything else
	if err := r.ensureRunning(ctx); err != nil {
		return stepError(StepLaunch, err)
	}

	// 2. Window placement first to keep flicker short
	if err := r.placeWindow(ctx, rec.Window); err != nil {
		return stepError(StepWindow, err)
	}

	// 3. Queue
	if err := r.rebuildQueue(ctx, player, rec); err != nil {
		return stepError(StepQueue, err)
	}

	// 4. Position and volume only stick once the engine is live
	if err := player.Play(ctx); err != nil {
		return stepError(StepKick, err)
	}
	if err := r.wait(ctx, r.timing.KickSlots); err != nil {
		return stepError(StepKick, err)
	}

	// 5. Settings
	if err := r.restoreSettings(ctx, player, rec); err != nil {
		return stepError(StepSettings, err)
	}

	// 6. Position, after the queue has settled
	if err := r.restorePosition(ctx, player, rec); err != nil {
		return stepError(StepPosition, err)
	}

	// 7. Final user-visible state
	if err := applyStatus(ctx, player, rec.PlayStatus); err != nil {
		return stepError(StepStatus, err)
	}

	r.logger.Info("Player state restored",
		zap.Int("tracks", len(rec.TracksURI)),
		zap.String("current", rec.CurrentURI),
		zap.String("status", string(rec.PlayStatus)))
	return nil
}

// ensureRunning spawns the player when it is not on the bus and waits for it to register
func (r *Restorer) ensureRunning(ctx context.Context) error {
	running, err := isRegistered(ctx, r.client, r.target.Service)
	if err != nil {
		return err
	}
	if running {
		return nil
	}

	r.logger.Info("Player not running, spawning it",
		zap.String("service", r.target.Service))
	if err := r.executor.Spawn(ctx); err != nil {
		return err
	}
	if err := r.wait(ctx, r.timing.SpawnSlots); err != nil {
		return err
	}

	deadline := time.Now().Add(r.timing.RegisterTimeout)
	for {
		running, err := isRegistered(ctx, r.client, r.target.Service)
		if err != nil {
			return err
		}
		if running {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: %s did not appear within %s", ErrServiceNotFound, r.target.Service, r.timing.RegisterTimeout)
		}
		r.logger.Debug("Waiting for player to register", zap.String("service", r.target.Service))
		if err := r.wait(ctx, 1); err != nil {
			return err
		}
	}
}

func (r *Restorer) placeWindow(ctx context.Context, snap *domain.WindowSnapshot) error {
	window, err := firstWindow(ctx, r.logger, r.client, r.locator, r.target.Service)
	if err != nil {
		return err
	}
	return r.locator.ApplyWindowState(ctx, window.Handle, snap.Desktop, snap.States, snap.Geometry)
}

// rebuildQueue inserts the tracks back to front. Every insert lands right
// after the NoTrack anchor, so the last insert ends up first.
func (r *Restorer) rebuildQueue(ctx context.Context, player *mpris.Player, rec domain.Record) error {
	for i := len(rec.TracksURI) - 1; i >= 0; i-- {
		uri := rec.TracksURI[i]
		if err := player.AddTrack(ctx, uri, uri == rec.CurrentURI); err != nil {
			return fmt.Errorf("track %d (%s): %w", i, uri, err)
		}
	}
	return nil
}

func (r *Restorer) restoreSettings(ctx context.Context, player *mpris.Player, rec domain.Record) error {
	if err := player.SetShuffle(ctx, rec.Shuffle); err != nil {
		return err
	}
	if err := player.SetLoopStatus(ctx, rec.LoopStatus); err != nil {
		return err
	}
	return player.SetVolume(ctx, rec.Volume)
}

func (r *Restorer) restorePosition(ctx context.Context, player *mpris.Player, rec domain.Record) error {
	ids, err := player.Tracks(ctx)
	if err != nil {
		return err
	}
	if _, err := player.TracksMetadata(ctx, ids); err != nil {
		return err
	}
	return player.Seek(ctx, rec.Position)
}

func applyStatus(ctx context.Context, player *mpris.Player, status domain.PlayerStatus) error {
	switch status {
	case domain.StatusStopped:
		return player.Stop(ctx)
	case domain.StatusPaused:
		return player.Pause(ctx)
	case domain.StatusPlaying:
		return player.Play(ctx)
	default:
		return fmt.Errorf("unknown playback status %q", status)
	}
}

func (r *Restorer) wait(ctx context.Context, slots int) error {
	return r.sleep(ctx, time.Duration(slots)*r.timing.Slot)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
