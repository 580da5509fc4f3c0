package main

import (
	"context"

	"github.com/genricoloni/playersnap/internal/bus"
	"github.com/genricoloni/playersnap/internal/config"
	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/genricoloni/playersnap/internal/engine"
	"github.com/genricoloni/playersnap/internal/executor"
	"github.com/genricoloni/playersnap/internal/metrics"
	"github.com/genricoloni/playersnap/internal/mpris"
	"github.com/genricoloni/playersnap/internal/snapshot"
	"github.com/genricoloni/playersnap/internal/window"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigPath is the --config flag value; empty means the default location
type ConfigPath string

// AppOptions is the dependency graph shared by every command
var AppOptions = fx.Options(
	fx.Provide(
		newConfig,
		newLogger,
		newBusClient,
		newTarget,
		newTiming,
		newEngineOptions,
		metrics.NewRecorder,
		engine.NewEngine,
		fx.Annotate(newLocator, fx.As(new(domain.WindowLocator))),
		fx.Annotate(newExecutor, fx.As(new(domain.Executor))),
		fx.Annotate(snapshot.NewExtractor, fx.As(new(domain.StateCapturer))),
		fx.Annotate(snapshot.NewRestorer, fx.As(new(domain.StateRestorer))),
	),
	fx.Invoke(registerHooks),
)

func newConfig(path ConfigPath) (*config.AppConfig, error) {
	return config.Load(string(path))
}

// newBusClient returns a lazily connected session bus client closed on stop
func newBusClient(lc fx.Lifecycle) bus.Client {
	client := bus.NewSessionClient()
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func newLocator(lc fx.Lifecycle, logger *zap.Logger, cfg *config.AppConfig) *window.X11Locator {
	locator := window.NewX11Locator(logger, cfg.ClampToDisplays)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return locator.Close()
		},
	})
	return locator
}

func newExecutor(logger *zap.Logger, cfg *config.AppConfig) *executor.ProcessExecutor {
	return executor.NewExecutor(logger, executor.Config{
		Command: cfg.Command,
		Args:    cfg.Args,
	})
}

func newTarget(cfg *config.AppConfig) snapshot.Target {
	return snapshot.Target{Service: mpris.ServiceName(cfg.Player)}
}

func newTiming(cfg *config.AppConfig) snapshot.Timing {
	return snapshot.Timing{
		Slot:            cfg.Slot,
		SpawnSlots:      cfg.SpawnSlots,
		KickSlots:       cfg.KickSlots,
		RegisterTimeout: cfg.RegisterTimeout,
	}
}

func newEngineOptions(cfg *config.AppConfig) engine.Options {
	return engine.Options{
		ProcessName: cfg.ProcessName,
		MetricsFile: cfg.MetricsFile,
	}
}

// registerHooks ties the engine's start and stop to the application lifecycle
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, cfg *config.AppConfig, eng *engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Debug("Configuration loaded", cfg.Fields()...)
			eng.OnStart(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			eng.OnStop(ctx)
			// stderr cannot always be synced, nothing to do about it
			_ = logger.Sync()
			return nil
		},
	})
}
