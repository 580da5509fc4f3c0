package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/genricoloni/playersnap/internal/metrics"
	"github.com/genricoloni/playersnap/internal/snapshot"
	"github.com/genricoloni/playersnap/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Code is the status returned to the session manager
type Code int

const (
	CodeOK                Code = 0
	CodeCollaboratorError Code = 1
	CodeDecodeError       Code = 2
	CodeIOError           Code = 3
)

// Options configures the engine
type Options struct {
	// ProcessName is the executable name killed by OnClose
	ProcessName string
	// MetricsFile receives the metrics textfile on stop; empty disables it
	MetricsFile string
}

// Engine adapts capture and restore to the session manager's lifecycle:
// start, save, resume, close and stop, each reported as a Code.
type Engine struct {
	logger   *zap.Logger
	opts     Options
	capturer domain.StateCapturer
	restorer domain.StateRestorer
	executor domain.Executor
	metrics  *metrics.Recorder

	now func() time.Time
}

// NewEngine creates a new lifecycle engine
func NewEngine(
	logger *zap.Logger,
	opts Options,
	capturer domain.StateCapturer,
	restorer domain.StateRestorer,
	exec domain.Executor,
	rec *metrics.Recorder,
) *Engine {
	return &Engine{
		logger:   logger,
		opts:     opts,
		capturer: capturer,
		restorer: restorer,
		executor: exec,
		metrics:  rec,
		now:      time.Now,
	}
}

// OnStart is called once before any operation
func (e *Engine) OnStart(ctx context.Context) Code {
	e.logger.Info("Engine starting...")
	return CodeOK
}

// OnStop is called once after the last operation and exports the metrics
func (e *Engine) OnStop(ctx context.Context) Code {
	e.logger.Info("Engine stopping...")
	if err := e.metrics.Flush(e.opts.MetricsFile); err != nil {
		e.logger.Warn("Could not export metrics", zap.Error(err))
	}
	return CodeOK
}

// operation carries the per-call logger and bookkeeping
type operation struct {
	name   string
	logger *zap.Logger
	start  time.Time
}

func (e *Engine) begin(name string, fields ...zap.Field) *operation {
	fields = append([]zap.Field{zap.String("op", name), zap.String("opID", uuid.NewString())}, fields...)
	op := &operation{
		name:   name,
		logger: e.logger.With(fields...),
		start:  e.now(),
	}
	op.logger.Debug("Operation started")
	return op
}

func (e *Engine) finish(op *operation, err error) {
	elapsed := e.now().Sub(op.start)
	e.metrics.ObserveOperation(op.name, err, elapsed)
	if err != nil {
		op.logger.Error("Operation failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return
	}
	op.logger.Info("Operation finished", zap.Duration("elapsed", elapsed))
}

// OnSave captures the player and writes the record to path
func (e *Engine) OnSave(ctx context.Context, path string) Code {
	op := e.begin("save", zap.String("path", path))

	rec, err := e.capturer.Capture(ctx)
	if err != nil {
		e.finish(op, err)
		return CodeCollaboratorError
	}

	if err := store.SaveFile(path, rec); err != nil {
		e.finish(op, err)
		return CodeIOError
	}

	e.metrics.SetTracks(len(rec.TracksURI))
	op.logger.Info("State saved",
		zap.Bool("empty", rec.IsEmpty()),
		zap.Int("tracks", len(rec.TracksURI)))
	e.finish(op, nil)
	return CodeOK
}

// OnResume loads the record at path and replays it into the player
func (e *Engine) OnResume(ctx context.Context, path string) Code {
	op := e.begin("resume", zap.String("path", path))

	rec, err := store.LoadFile(path)
	if err != nil {
		e.finish(op, err)
		if errors.Is(err, store.ErrDecode) {
			return CodeDecodeError
		}
		return CodeIOError
	}
	if rec == nil {
		op.logger.Info("No saved state, nothing to resume")
		e.finish(op, nil)
		return CodeOK
	}

	if err := e.restorer.Restore(ctx, *rec); err != nil {
		var restoreErr *snapshot.RestoreError
		if errors.As(err, &restoreErr) {
			e.metrics.IncStepFailure(string(restoreErr.Step))
		}
		e.finish(op, err)
		return CodeCollaboratorError
	}

	e.metrics.SetTracks(len(rec.TracksURI))
	e.finish(op, nil)
	return CodeOK
}

// OnClose force-terminates the player. Failures are logged, never reported.
func (e *Engine) OnClose(ctx context.Context) Code {
	op := e.begin("close", zap.String("process", e.opts.ProcessName))

	killed, err := e.executor.KillByName(ctx, e.opts.ProcessName)
	if err != nil {
		op.logger.Warn("Close was not clean", zap.Int("killed", killed), zap.Error(err))
	}
	e.finish(op, nil)
	return CodeOK
}

// Capture writes the live record to w as JSON without touching any state file
func (e *Engine) Capture(ctx context.Context, w io.Writer) Code {
	op := e.begin("capture")

	rec, err := e.capturer.Capture(ctx)
	if err != nil {
		e.finish(op, err)
		return CodeCollaboratorError
	}
	if err := store.Save(w, rec); err != nil {
		e.finish(op, err)
		return CodeIOError
	}
	e.finish(op, nil)
	return CodeOK
}
